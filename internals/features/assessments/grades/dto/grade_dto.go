package dto

import "github.com/google/uuid"

// UpsertGradeRequest targets a grade either through an attendance
// record id or through the (group, student, lesson) triple.
type UpsertGradeRequest struct {
	AttendanceRecordID *uuid.UUID `json:"attendance_record_id"`
	GroupID            *uuid.UUID `json:"group_id"`
	StudentID          *uuid.UUID `json:"student_id"`
	LessonID           *uuid.UUID `json:"lesson_id"`
	Value              float64    `json:"value" validate:"gte=0"`
	Comment            string     `json:"comment"`
	GradeDate          string     `json:"grade_date"`
}

// DeleteGradeRequest mirrors the upsert targeting.
type DeleteGradeRequest struct {
	AttendanceRecordID *uuid.UUID `json:"attendance_record_id"`
	GroupID            *uuid.UUID `json:"group_id"`
	StudentID          *uuid.UUID `json:"student_id"`
	LessonID           *uuid.UUID `json:"lesson_id"`
}
