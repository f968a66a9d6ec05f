package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TranscriptRecordModel maps transcript_records. One published row per
// (student, group, subject); republishing overwrites it. Group and
// subject names are denormalized so the transcript survives renames,
// and grades_json keeps the full grade list as a JSON array snapshot.
type TranscriptRecordModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_transcripts_student_group_subject" json:"student_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_transcripts_student_group_subject" json:"group_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_transcripts_student_group_subject" json:"subject_id"`

	GroupName    string `gorm:"size:150" json:"group_name"`
	SubjectName  string `gorm:"size:150" json:"subject_name"`
	SubjectColor string `gorm:"size:20" json:"subject_color"`

	AverageValue float64        `gorm:"type:numeric(6,2);not null" json:"average_value"`
	GradeCount   int            `gorm:"not null" json:"grade_count"`
	GradesJSON   datatypes.JSON `gorm:"type:jsonb" json:"grades"`

	PublishedBy *uuid.UUID `gorm:"type:uuid" json:"published_by,omitempty"`
	PublishedAt time.Time  `gorm:"not null" json:"published_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TranscriptRecordModel) TableName() string {
	return "transcript_records"
}

// TranscriptPublicationModel maps transcript_publications, the history
// of publish actions shown on the admin transcript page.
type TranscriptPublicationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null" json:"subject_id"`

	GroupName    string `gorm:"size:150" json:"group_name"`
	SubjectName  string `gorm:"size:150" json:"subject_name"`
	SubjectColor string `gorm:"size:20" json:"subject_color"`

	PublishedBy   *uuid.UUID `gorm:"type:uuid" json:"published_by,omitempty"`
	TotalStudents int        `gorm:"not null" json:"total_students"`
	TotalLessons  int        `gorm:"not null" json:"total_lessons"`
	PublishedAt   time.Time  `gorm:"not null;autoCreateTime" json:"published_at"`
}

func (TranscriptPublicationModel) TableName() string {
	return "transcript_publications"
}
