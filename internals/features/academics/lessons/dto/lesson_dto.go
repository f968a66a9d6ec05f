package dto

import "github.com/google/uuid"

// CreateLessonRequest creates one concrete lesson. start_time is
// "YYYY-MM-DD HH:MM" studio local time; teacher and hall default to
// the group's when omitted.
type CreateLessonRequest struct {
	GroupID         uuid.UUID  `json:"group_id" validate:"required"`
	ClassName       string     `json:"class_name" validate:"max=200"`
	TeacherID       *uuid.UUID `json:"teacher_id"`
	HallID          *uuid.UUID `json:"hall_id"`
	StartTime       string     `json:"start_time" validate:"required"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gte=15,lte=240"`
}

// UpdateLessonRequest patches a lesson. Only present fields change;
// there is no way to clear teacher or hall here, reassign instead.
type UpdateLessonRequest struct {
	ClassName       *string    `json:"class_name" validate:"omitempty,max=200"`
	TeacherID       *uuid.UUID `json:"teacher_id"`
	HallID          *uuid.UUID `json:"hall_id"`
	StartTime       *string    `json:"start_time"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gte=15,lte=240"`
	IsCancelled     *bool      `json:"is_cancelled"`
}

// RescheduleLessonRequest moves a lesson to a new slot.
type RescheduleLessonRequest struct {
	NewStartTime string `json:"new_start_time" validate:"required"`
}

type SubstituteTeacherRequest struct {
	SubstituteTeacherID uuid.UUID `json:"substitute_teacher_id" validate:"required"`
}

// CreateGroupLessonsRequest creates one slot or a recurring series for
// a group. Times are "HH:MM"; end_time fixes the duration. When
// repeat_enabled, repeat_frequency is weekly, biweekly or monthly and
// repeat_until bounds the series.
type CreateGroupLessonsRequest struct {
	Date            string `json:"date" validate:"required"`
	StartTime       string `json:"start_time" validate:"required"`
	EndTime         string `json:"end_time" validate:"required"`
	RepeatEnabled   bool   `json:"repeat_enabled"`
	RepeatFrequency string `json:"repeat_frequency" validate:"omitempty,oneof=weekly biweekly monthly"`
	RepeatUntil     string `json:"repeat_until"`
}

// SubmitRescheduleRequest files a reschedule request for a lesson.
type SubmitRescheduleRequest struct {
	NewDate string `json:"new_date" validate:"required"`
	NewTime string `json:"new_time" validate:"required"`
	Reason  string `json:"reason"`
}

// RejectRescheduleRequest carries the optional rejection reason shown
// to the requester.
type RejectRescheduleRequest struct {
	Reason string `json:"reason"`
}
