package model

import (
	"time"

	"github.com/google/uuid"
)

// Reschedule request lifecycle.
const (
	RescheduleStatusPending  = "pending"
	RescheduleStatusApproved = "approved"
	RescheduleStatusRejected = "rejected"
)

// RescheduleRequestModel maps reschedule_requests. Teachers file a
// request for a new lesson slot; admins approve (which applies the move)
// or reject it. At most one pending request per lesson.
type RescheduleRequestModel struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LessonID          uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	RequestedByUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"requested_by_user_id"`

	NewStartTime time.Time `gorm:"not null" json:"new_start_time"`
	Reason       string    `gorm:"type:text" json:"reason"`

	Status           string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminResponse    *string    `gorm:"type:text" json:"admin_response,omitempty"`
	ReviewedByUserID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_user_id,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RescheduleRequestModel) TableName() string {
	return "reschedule_requests"
}
