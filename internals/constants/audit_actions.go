package constants

// Audit action keys written to audit_logs.
const (
	AuditGradeCreated           = "teacher.grades.created"
	AuditGradeUpdated           = "teacher.grades.updated"
	AuditGradeDeleted           = "teacher.grades.deleted"
	AuditTranscriptPublished    = "admin.transcript.published"
	AuditTranscriptPublishedAll = "admin.transcript.publishedAll"
	AuditSettingsUpdated        = "admin.settings.updated"
	AuditUserUpdated            = "admin.users.updated"
	AuditUserDeleted            = "admin.users.deleted"
)
