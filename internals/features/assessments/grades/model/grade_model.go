package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GradeModel maps the grades table. Values are stored in whichever scale
// the grades.scale_applied marker says; conversion between 0-5 and 0-100
// happens in bulk when the admin switches the scale setting.
type GradeModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_grades_student_lesson" json:"student_id"`
	LessonID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_grades_student_lesson" json:"lesson_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null" json:"teacher_id"`

	Value     *float64   `gorm:"type:numeric(6,2)" json:"value,omitempty"`
	Comment   string     `gorm:"type:text" json:"comment"`
	GradeDate *time.Time `gorm:"type:date" json:"grade_date,omitempty"`

	RecordedAt time.Time      `gorm:"not null;autoCreateTime" json:"recorded_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (GradeModel) TableName() string {
	return "grades"
}
