package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassSubjectModel maps class_subjects, attaching a subject to a group
// with an optional dedicated teacher.
type ClassSubjectModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_class_subjects_group_subject" json:"group_id"`
	SubjectID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_class_subjects_group_subject" json:"subject_id"`
	TeacherID *uuid.UUID `gorm:"type:uuid" json:"teacher_id,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ClassSubjectModel) TableName() string {
	return "class_subjects"
}
