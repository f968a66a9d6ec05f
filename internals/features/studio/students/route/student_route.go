package route

import (
	controller "studioku_backend/internals/features/studio/students/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StudentSelfRoutes mounts the student's own profile and history views
// under the student group.
func StudentSelfRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentMeController(db)

	r.Get("/me", ctl.GetMe)
	r.Post("/me", ctl.UpdateMe)
	r.Get("/groups", ctl.GetMyGroups)
	r.Get("/attendance", ctl.GetMyAttendance)
}

// StudentAdminRoutes mounts student account management under the admin
// group.
func StudentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentAdminController(db)

	students := r.Group("/students")
	students.Get("/", ctl.GetStudents)
	students.Post("/", ctl.CreateStudent)
	students.Put("/:id", ctl.UpdateStudent)
	students.Delete("/:id", ctl.DeleteStudent)
}
