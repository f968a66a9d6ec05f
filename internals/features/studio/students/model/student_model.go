package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentModel maps the students table (the student profile attached
// to a users row).
type StudentModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	PhoneNumber       string     `gorm:"size:30" json:"phone_number"`
	Comment           string     `gorm:"type:text" json:"comment"`
	TrialUsed         bool       `gorm:"not null;default:false" json:"trial_used"`
	TrialsAllowed     int        `gorm:"not null;default:1" json:"trials_allowed"`
	TrialsUsed        int        `gorm:"not null;default:0" json:"trials_used"`
	SubscriptionUntil *time.Time `gorm:"type:date" json:"subscription_until,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudentModel) TableName() string {
	return "students"
}
