package route

import (
	controller "studioku_backend/internals/features/studio/halls/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HallAdminRoutes mounts hall management under the admin group.
func HallAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewHallAdminController(db)

	halls := r.Group("/halls")
	halls.Get("/", ctl.GetHalls)
	halls.Get("/:id/details", ctl.GetHallDetails)
	halls.Post("/", ctl.CreateHall)
	halls.Put("/:id", ctl.UpdateHall)
	halls.Delete("/:id", ctl.DeleteHall)
}
