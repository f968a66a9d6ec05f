package route

import (
	controller "studioku_backend/internals/features/assessments/attendance/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AttendanceAdminRoutes mounts the attendance screens under /api/a.
func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAttendanceAdminController(db)

	r.Get("/groups/:id/lessons-attendance", ctl.GetGroupLessonsAttendance)
	r.Post("/groups/:id/lessons/:lessonId/attendance", ctl.SaveLessonAttendance)
	r.Get("/groups/:id/lessons/:lessonId/attendance", ctl.GetLessonAttendance)
	r.Get("/groups/:id/attendance-summary", ctl.GetGroupSummary)
}

// AttendanceTeacherRoutes mounts lesson marking under /api/t.
func AttendanceTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAttendanceTeacherController(db)

	r.Post("/lessons/:id/attendance", ctl.SaveLessonAttendance)
	r.Get("/lessons/:id/attendance", ctl.GetLessonAttendance)
	r.Get("/groups/:id/attendance-summary", ctl.GetGroupSummary)
	r.Get("/attendance/average", ctl.GetAverage)
}
