package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel maps the users table.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" validate:"required,min=2,max=100"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email"`
	Password  string    `gorm:"not null" json:"-"`
	GoogleID  *string   `gorm:"size:255;uniqueIndex" json:"google_id,omitempty"`
	Role      string    `gorm:"type:varchar(20);not null;default:'student'" json:"role" validate:"omitempty,oneof=student teacher admin"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}
