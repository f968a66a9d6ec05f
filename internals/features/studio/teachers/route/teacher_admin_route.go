package route

import (
	controller "studioku_backend/internals/features/studio/teachers/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TeacherAdminRoutes mounts teacher account management under the admin
// group.
func TeacherAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewTeacherAdminController(db)

	teachers := r.Group("/teachers")
	teachers.Get("/", ctl.GetTeachers)
	teachers.Get("/:id/groups", ctl.GetTeacherGroups)
	teachers.Post("/", ctl.CreateTeacher)
	teachers.Put("/:id", ctl.UpdateTeacher)
	teachers.Delete("/:id", ctl.DeleteTeacher)
}
