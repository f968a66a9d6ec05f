package service

import (
	"errors"
	"fmt"
	"time"

	"studioku_backend/internals/features/academics/lessons/model"
	"studioku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Overlaps reports whether two half-open intervals [s, s+d) collide.
// Back-to-back lessons (one ends exactly when the next starts) do not.
func Overlaps(s1 time.Time, d1 int, s2 time.Time, d2 int) bool {
	if d1 <= 0 {
		d1 = 60
	}
	if d2 <= 0 {
		d2 = 60
	}
	e1 := s1.Add(time.Duration(d1) * time.Minute)
	e2 := s2.Add(time.Duration(d2) * time.Minute)
	return s1.Before(e2) && s2.Before(e1)
}

// FindConflict returns the earliest lesson of the group whose interval
// overlaps [start, start+durationMin), or nil. exclude skips the lesson
// being moved so it never conflicts with itself.
func FindConflict(db *gorm.DB, groupID uuid.UUID, start time.Time, durationMin int, exclude *uuid.UUID) (*model.LessonModel, error) {
	if durationMin <= 0 {
		durationMin = 60
	}
	end := start.Add(time.Duration(durationMin) * time.Minute)

	q := db.Where(
		"group_id = ? AND start_time < ? AND (start_time + (COALESCE(duration_minutes, 60) * INTERVAL '1 minute')) > ?",
		groupID, end, start,
	)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}

	var row model.LessonModel
	err := q.Order("start_time").Limit(1).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ConflictMessage names the colliding lesson's studio-local start time.
func ConflictMessage(l *model.LessonModel) string {
	return fmt.Sprintf(
		"Время пересекается с другим занятием этой группы в %s у того же преподавателя",
		dbtime.FormatClock(l.StartTime),
	)
}
