package route

import (
	controller "studioku_backend/internals/features/studio/categories/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CategoryUserRoutes exposes the read side to any authenticated role.
func CategoryUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewCategoryController(db)
	r.Get("/categories", ctl.GetCategories)
}

// CategoryAdminRoutes mounts the mutations under the admin group.
func CategoryAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewCategoryController(db)

	categories := r.Group("/categories")
	categories.Get("/", ctl.GetCategories)
	categories.Post("/", ctl.CreateCategory)
	categories.Put("/:id", ctl.UpdateCategory)
	categories.Delete("/:id", ctl.DeleteCategory)
}
