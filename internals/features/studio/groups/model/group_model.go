package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupModel maps the groups table. A group is a recurring class with a
// main teacher, an optional hall and a weekly schedule (group_schedules).
type GroupModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string     `gorm:"size:150;not null" json:"name" validate:"required,min=1,max=150"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	HallID     *uuid.UUID `gorm:"type:uuid;index" json:"hall_id,omitempty"`

	// Main teacher. Secondary teachers live in group_teachers.
	TeacherID *uuid.UUID `gorm:"type:uuid;index" json:"teacher_id,omitempty"`

	Capacity        *int `json:"capacity,omitempty" validate:"omitempty,gte=1"`
	DurationMinutes int  `gorm:"not null;default:60" json:"duration_minutes" validate:"omitempty,gte=15,lte=240"`

	IsTrialAvailable bool     `gorm:"not null;default:false" json:"is_trial_available"`
	TrialPrice       *float64 `gorm:"type:numeric(10,2)" json:"trial_price,omitempty"`

	StartDate      *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	RecurringUntil *time.Time `gorm:"type:date" json:"recurring_until,omitempty"`

	IsClosed     bool   `gorm:"not null;default:false" json:"is_closed"`
	IsAdditional bool   `gorm:"not null;default:false" json:"is_additional"`
	Comment      string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (GroupModel) TableName() string {
	return "groups"
}
