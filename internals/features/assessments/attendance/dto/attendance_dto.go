package dto

import "github.com/google/uuid"

// AttendanceEntry is one student's mark inside a save request.
type AttendanceEntry struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required"`
}

// SaveAttendanceRequest replaces a lesson's attendance set. An empty
// list clears the lesson's marks.
type SaveAttendanceRequest struct {
	Attendance []AttendanceEntry `json:"attendance" validate:"required,dive"`
}
