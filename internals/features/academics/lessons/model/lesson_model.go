package model

import (
	"time"

	"github.com/google/uuid"
)

// LessonModel maps the lessons table. One row per concrete class
// instance. The (group_id, start_time) unique index makes generation
// idempotent: re-inserting the same slot is a no-op.
type LessonModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lessons_group_start" json:"group_id"`
	ClassName string    `gorm:"size:200" json:"class_name"`

	// Snapshot of the group's teacher/hall at creation time. The group
	// may change later; past lessons keep what was actually scheduled.
	TeacherID *uuid.UUID `gorm:"type:uuid;index" json:"teacher_id,omitempty"`
	HallID    *uuid.UUID `gorm:"type:uuid;index" json:"hall_id,omitempty"`

	StartTime       time.Time `gorm:"not null;uniqueIndex:idx_lessons_group_start;index" json:"start_time"`
	DurationMinutes *int      `json:"duration_minutes,omitempty" validate:"omitempty,gte=15,lte=240"`

	IsCancelled         bool       `gorm:"not null;default:false" json:"is_cancelled"`
	IsRescheduled       bool       `gorm:"not null;default:false" json:"is_rescheduled"`
	SubstituteTeacherID *uuid.UUID `gorm:"type:uuid" json:"substitute_teacher_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LessonModel) TableName() string {
	return "lessons"
}

// EffectiveDuration reads duration_minutes with the 60-minute fallback
// used everywhere a lesson length matters.
func (l *LessonModel) EffectiveDuration() int {
	if l.DurationMinutes != nil && *l.DurationMinutes > 0 {
		return *l.DurationMinutes
	}
	return 60
}

// EndTime is start + effective duration.
func (l *LessonModel) EndTime() time.Time {
	return l.StartTime.Add(time.Duration(l.EffectiveDuration()) * time.Minute)
}
