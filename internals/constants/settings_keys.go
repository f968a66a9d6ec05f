package constants

// System settings keys. Values live in system_settings as JSON;
// DefaultSettings supplies the fallback when a key has no row.
const (
	SettingRegistrationEnabled        = "registration.enabled"
	SettingTrialLessonsEnabled        = "trial_lessons.enabled"
	SettingGradesScale                = "grades.scale"
	SettingGradesScaleApplied         = "grades.scale_applied"
	SettingGradesTeacherEditEnabled   = "grades.teacher_edit_enabled"
	SettingElectivesEnabled           = "groups.electives.enabled"
	SettingGroupsRequireTeacher       = "groups.require_teacher"
	SettingGroupsRequireHall          = "groups.require_hall"
	SettingGroupsAllowMultiTeachers   = "groups.allow_multi_teachers"
	SettingTranscriptEnabled          = "transcript.enabled"
	SettingTranscriptRequireComplete  = "transcript.require_complete"
	SettingTranscriptExcludeCancelled = "transcript.exclude_cancelled"
)

// Grade scales
const (
	GradeScaleFive    = "0-5"
	GradeScaleHundred = "0-100"
)

// DefaultSettings holds the resolved value for every key that has no
// stored row. grades.scale_applied is deliberately absent: it is a
// marker written by the scale migration, never defaulted.
var DefaultSettings = map[string]any{
	SettingRegistrationEnabled:        true,
	SettingTrialLessonsEnabled:        true,
	SettingGradesScale:                GradeScaleFive,
	SettingGradesTeacherEditEnabled:   true,
	SettingElectivesEnabled:           true,
	SettingGroupsRequireTeacher:       false,
	SettingGroupsRequireHall:          false,
	SettingGroupsAllowMultiTeachers:   true,
	SettingTranscriptEnabled:          true,
	SettingTranscriptRequireComplete:  true,
	SettingTranscriptExcludeCancelled: true,
}
