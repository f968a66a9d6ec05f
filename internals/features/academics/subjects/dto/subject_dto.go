package dto

import "github.com/google/uuid"

// CreateSubjectRequest creates a graded discipline. Color defaults to
// the UI's blue when omitted.
type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=150"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"omitempty,max=20"`
}

// UpdateSubjectRequest is a partial edit; nil keeps the stored value.
type UpdateSubjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=150"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,max=20"`
}

// AttachSubjectRequest links a subject to a group, optionally with a
// dedicated teacher.
type AttachSubjectRequest struct {
	SubjectID *uuid.UUID `json:"subject_id" validate:"required"`
	TeacherID *uuid.UUID `json:"teacher_id"`
}
