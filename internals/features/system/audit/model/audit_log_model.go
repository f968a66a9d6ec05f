package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLogModel maps audit_logs. Append-only trail of sensitive actions
// with the actor snapshot denormalized so entries stay readable after a
// user is renamed or deleted.
type AuditLogModel struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ActorUserID *uuid.UUID `gorm:"type:uuid;index" json:"actor_user_id,omitempty"`
	ActorRole   *string    `gorm:"size:20" json:"actor_role,omitempty"`
	ActorName   *string    `gorm:"size:100" json:"actor_name,omitempty"`
	ActorEmail  *string    `gorm:"size:255" json:"actor_email,omitempty"`

	ActionKey   string            `gorm:"size:100;not null;index" json:"action_key"`
	ActionLabel string            `gorm:"size:200;not null" json:"action_label"`
	MetaJSON    datatypes.JSONMap `gorm:"type:jsonb" json:"meta,omitempty"`

	IP        *string   `gorm:"size:64" json:"ip,omitempty"`
	UserAgent *string   `gorm:"size:400" json:"user_agent,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}
