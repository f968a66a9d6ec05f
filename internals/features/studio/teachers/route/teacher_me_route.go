package route

import (
	controller "studioku_backend/internals/features/studio/teachers/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TeacherMeRoutes mounts the teacher's own views under /api/t.
func TeacherMeRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewTeacherMeController(db)

	r.Get("/groups", ctl.GetMyGroups)
}
