package route

import (
	controller "studioku_backend/internals/features/academics/lessons/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LessonAdminRoutes mounts lesson CRUD and the reschedule review flow
// under /api/a.
func LessonAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewLessonAdminController(db)
	rctl := controller.NewRescheduleController(db)

	lessons := r.Group("/lessons")
	lessons.Get("/", ctl.GetLessons)
	lessons.Post("/", ctl.CreateLesson)
	lessons.Put("/:id", ctl.UpdateLesson)
	lessons.Delete("/:id", ctl.DeleteLesson)
	lessons.Post("/:id/cancel", ctl.CancelLesson)
	lessons.Post("/:id/reschedule", ctl.RescheduleLesson)
	lessons.Post("/:id/substitute", ctl.SetSubstitute)
	lessons.Post("/:id/reschedule-request", rctl.Submit)

	r.Post("/groups/:id/lessons", ctl.CreateGroupLessons)
	r.Post("/generate-lesson-instances", ctl.GenerateInstances)

	requests := r.Group("/reschedule-requests")
	requests.Get("/", rctl.List)
	requests.Post("/:id/approve", rctl.Approve)
	requests.Post("/:id/reject", rctl.Reject)
}

// LessonTeacherRoutes mounts the schedule views under /api/t.
func LessonTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewLessonTeacherController(db)
	rctl := controller.NewRescheduleController(db)

	r.Get("/schedule/week", ctl.GetWeeklySchedule)
	r.Get("/halls/occupancy", ctl.GetHallsOccupancy)
	r.Get("/groups/:id/lessons", ctl.GetGroupLessons)
	r.Post("/lessons/:id/reschedule-request", rctl.Submit)
}
