package model

import (
	"time"

	"github.com/google/uuid"
)

// TeacherModel maps the teachers table. A row is auto-provisioned the
// first time a teacher-role user touches a teacher endpoint.
type TeacherModel struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	PhoneNumber string    `gorm:"size:30" json:"phone_number"`
	HourlyRate  *float64  `gorm:"type:numeric(10,2)" json:"hourly_rate,omitempty"`
	Bio         string    `gorm:"type:text" json:"bio"`
	Comment     string    `gorm:"type:text" json:"comment"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TeacherModel) TableName() string {
	return "teachers"
}
