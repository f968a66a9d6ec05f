package route

import (
	controller "studioku_backend/internals/features/system/settings/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SettingsPublicRoutes mounts the unauthenticated feature flags.
func SettingsPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSettingsController(db)
	r.Get("/settings", ctl.GetPublicSettings)
}

// SettingsAdminRoutes mounts the settings panel under /api/a.
func SettingsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSettingsController(db)

	r.Get("/settings", ctl.GetSettings)
	r.Patch("/settings", ctl.UpdateSettings)
}
