package model

import (
	"time"

	"github.com/google/uuid"
)

// TrialLessonUsageModel maps trial_lesson_usages. History row written on
// every trial signup, kept even after the membership itself is removed.
type TrialLessonUsageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	UsedAt    time.Time `gorm:"not null;autoCreateTime" json:"used_at"`
}

func (TrialLessonUsageModel) TableName() string {
	return "trial_lesson_usages"
}
