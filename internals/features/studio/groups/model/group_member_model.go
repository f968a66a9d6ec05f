package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupTeacherModel maps group_teachers. One row per teacher assigned to
// a group; is_main marks the lead teacher.
type GroupTeacherModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_teachers_group_teacher" json:"group_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_teachers_group_teacher" json:"teacher_id"`
	IsMain    bool      `gorm:"not null;default:false" json:"is_main"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (GroupTeacherModel) TableName() string {
	return "group_teachers"
}

// GroupStudentModel maps group_students. is_trial separates trial signups
// from regular membership; trial rows are excluded from rosters and stats.
type GroupStudentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_students_group_student" json:"group_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_students_group_student" json:"student_id"`
	IsTrial   bool      `gorm:"not null;default:false" json:"is_trial"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (GroupStudentModel) TableName() string {
	return "group_students"
}
