package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationModel maps the notifications table. Rows are addressed to
// a user; student_id is filled when the recipient is a student so the
// legacy student feed keeps working.
type NotificationModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	StudentID *uuid.UUID `gorm:"type:uuid;index" json:"student_id,omitempty"`

	Type    string `gorm:"size:50;not null" json:"type"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`

	GroupID     *uuid.UUID `gorm:"type:uuid" json:"group_id,omitempty"`
	RelatedID   *uuid.UUID `gorm:"type:uuid" json:"related_id,omitempty"`
	RelatedType *string    `gorm:"size:50" json:"related_type,omitempty"`
	ActionURL   *string    `gorm:"size:255" json:"action_url,omitempty"`

	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
