package model

import (
	"time"

	"github.com/google/uuid"
)

// SubjectModel maps the subjects table. Subjects are the graded
// disciplines transcripts are published against.
type SubjectModel struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"size:150;uniqueIndex;not null" json:"name" validate:"required,min=1,max=150"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"size:20;default:'#3B82F6'" json:"color" validate:"omitempty,max=20"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SubjectModel) TableName() string {
	return "subjects"
}
