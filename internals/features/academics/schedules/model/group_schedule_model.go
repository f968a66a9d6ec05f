package model

import (
	"time"

	"studioku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

// GroupScheduleModel maps group_schedules, the weekly recurrence pattern
// of a group. day_of_week uses 0=Sunday .. 6=Saturday, matching both Go's
// time.Weekday and Postgres EXTRACT(DOW). One row per weekday per group.
type GroupScheduleModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_schedules_group_dow" json:"group_id"`
	DayOfWeek int        `gorm:"not null;uniqueIndex:idx_group_schedules_group_dow" json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime dbtime.Tod `gorm:"type:time;not null" json:"start_time"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (GroupScheduleModel) TableName() string {
	return "group_schedules"
}
