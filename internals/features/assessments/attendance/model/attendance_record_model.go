package model

import (
	"time"

	"github.com/google/uuid"
)

// Attendance status codes as stored.
const (
	StatusPresent = "P"
	StatusExcused = "E"
	StatusLate    = "L"
	StatusAbsent  = "A"
)

// AttendanceRecordModel maps attendance_records. One row per
// (lesson, student); saving a lesson's attendance replaces the set.
type AttendanceRecordModel struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LessonID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_lesson_student" json:"lesson_id"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_lesson_student;index" json:"student_id"`
	Status     string    `gorm:"type:char(1);not null" json:"status"`
	Attended   bool      `gorm:"not null;default:false" json:"attended"`
	RecordedAt time.Time `gorm:"not null;autoCreateTime" json:"recorded_at"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}

// ValidStatus reports whether s is one of the four stored codes.
func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusExcused, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// StatusPoints maps a status to its score: P and E count full, L half,
// A nothing.
func StatusPoints(s string) int {
	switch s {
	case StatusPresent, StatusExcused:
		return 2
	case StatusLate:
		return 1
	default:
		return 0
	}
}

// StatusAttended reports whether a status counts as attended.
func StatusAttended(s string) bool {
	return s == StatusPresent || s == StatusExcused
}

// StatusDisplay renders a stored code for student-facing responses.
func StatusDisplay(s string) string {
	switch s {
	case StatusPresent:
		return "Присутствовал"
	case StatusExcused:
		return "Уважительная причина"
	case StatusLate:
		return "Опоздал"
	case StatusAbsent:
		return "Отсутствовал"
	}
	return "Не отмечено"
}
