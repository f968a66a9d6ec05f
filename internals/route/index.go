package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"studioku_backend/internals/constants"
	lessonroute "studioku_backend/internals/features/academics/lessons/route"
	scheduleroute "studioku_backend/internals/features/academics/schedules/route"
	subjectroute "studioku_backend/internals/features/academics/subjects/route"
	attendanceroute "studioku_backend/internals/features/assessments/attendance/route"
	graderoute "studioku_backend/internals/features/assessments/grades/route"
	transcriptroute "studioku_backend/internals/features/assessments/transcripts/route"
	categoryroute "studioku_backend/internals/features/studio/categories/route"
	grouproute "studioku_backend/internals/features/studio/groups/route"
	hallroute "studioku_backend/internals/features/studio/halls/route"
	studentroute "studioku_backend/internals/features/studio/students/route"
	teacherroute "studioku_backend/internals/features/studio/teachers/route"
	auditroute "studioku_backend/internals/features/system/audit/route"
	notificationroute "studioku_backend/internals/features/system/notifications/route"
	settingsroute "studioku_backend/internals/features/system/settings/route"
	authroute "studioku_backend/internals/features/users/auth/route"
	userroute "studioku_backend/internals/features/users/user/route"
	authMw "studioku_backend/internals/middlewares/auth"
)

// SetupRoutes mounts every feature under its role prefix:
//
//	/api/auth   register/login/refresh/profile (mounted by AuthRoutes)
//	/api/public unauthenticated feature flags
//	/api/s      students
//	/api/t      teachers (admins pass too, the panel reuses these views)
//	/api/a      admins
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	log.Println("[INFO] Setting up routes...")

	authroute.AuthRoutes(app, db)

	public := app.Group("/api/public")
	settingsroute.SettingsPublicRoutes(public, db)

	student := app.Group("/api/s",
		authMw.AuthMiddleware(db),
		authMw.OnlyRoles("Доступ только для студентов", constants.RoleStudent),
	)
	teacher := app.Group("/api/t",
		authMw.AuthMiddleware(db),
		authMw.OnlyRoles("Доступ только для преподавателей", constants.RoleTeacher, constants.RoleAdmin),
	)
	admin := app.Group("/api/a",
		authMw.AuthMiddleware(db),
		authMw.OnlyRoles("Доступ только для администраторов", constants.RoleAdmin),
	)

	// Students
	studentroute.StudentSelfRoutes(student, db)
	grouproute.GroupStudentRoutes(student, db)
	graderoute.GradeStudentRoutes(student, db)
	transcriptroute.TranscriptStudentRoutes(student, db)
	notificationroute.NotificationUserRoutes(student, db)
	categoryroute.CategoryUserRoutes(student, db)
	subjectroute.SubjectUserRoutes(student, db)

	// Teachers
	teacherroute.TeacherMeRoutes(teacher, db)
	lessonroute.LessonTeacherRoutes(teacher, db)
	attendanceroute.AttendanceTeacherRoutes(teacher, db)
	graderoute.GradeTeacherRoutes(teacher, db)
	notificationroute.NotificationUserRoutes(teacher, db)
	categoryroute.CategoryUserRoutes(teacher, db)
	subjectroute.SubjectUserRoutes(teacher, db)

	// Admins
	userroute.UserAdminRoutes(admin, db)
	studentroute.StudentAdminRoutes(admin, db)
	teacherroute.TeacherAdminRoutes(admin, db)
	hallroute.HallAdminRoutes(admin, db)
	categoryroute.CategoryAdminRoutes(admin, db)
	subjectroute.SubjectAdminRoutes(admin, db)
	grouproute.GroupAdminRoutes(admin, db)
	scheduleroute.ScheduleAdminRoutes(admin, db)
	lessonroute.LessonAdminRoutes(admin, db)
	attendanceroute.AttendanceAdminRoutes(admin, db)
	graderoute.GradeAdminRoutes(admin, db)
	transcriptroute.TranscriptAdminRoutes(admin, db)
	settingsroute.SettingsAdminRoutes(admin, db)
	auditroute.AuditAdminRoutes(admin, db)
	notificationroute.NotificationUserRoutes(admin, db)
	notificationroute.NotificationAdminRoutes(admin, db)
}
