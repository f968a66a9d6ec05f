package dto

// UpdateSettingsRequest is a partial settings patch; nil fields keep
// the stored value. At least one field must be set.
type UpdateSettingsRequest struct {
	RegistrationEnabled        *bool   `json:"registration_enabled"`
	TrialLessonsEnabled        *bool   `json:"trial_lessons_enabled"`
	GradesScale                *string `json:"grades_scale" validate:"omitempty,oneof=0-5 0-100"`
	GradesTeacherEditEnabled   *bool   `json:"grades_teacher_edit_enabled"`
	ElectivesEnabled           *bool   `json:"electives_enabled"`
	GroupsRequireTeacher       *bool   `json:"groups_require_teacher"`
	GroupsRequireHall          *bool   `json:"groups_require_hall"`
	GroupsAllowMultiTeachers   *bool   `json:"groups_allow_multi_teachers"`
	TranscriptEnabled          *bool   `json:"transcript_enabled"`
	TranscriptRequireComplete  *bool   `json:"transcript_require_complete"`
	TranscriptExcludeCancelled *bool   `json:"transcript_exclude_cancelled"`
}
