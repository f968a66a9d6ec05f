package constants

// Notification type keys, shared by every feature that notifies.
const (
	NotifRescheduleRequestSubmitted = "reschedule_request_submitted"
	NotifRescheduleRequestApproved  = "reschedule_request_approved"
	NotifRescheduleRequestRejected  = "reschedule_request_rejected"
	NotifLessonCancelled            = "lesson_cancelled"
	NotifLessonRescheduled          = "lesson_rescheduled"
	NotifLessonReminder             = "lesson_reminder"
	NotifAddedToGroup               = "added_to_group"
	NotifRemovedFromGroup           = "removed_from_group"
	NotifGroupClosed                = "group_closed"
	NotifAttendanceMarked           = "attendance_marked"
	NotifLowAttendanceWarning       = "low_attendance_warning"
	NotifWelcome                    = "welcome"
	NotifSystem                     = "system"
)
