package route

import (
	controller "studioku_backend/internals/features/users/user/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserAdminRoutes mounts account management under the admin group.
func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewUserAdminController(db)

	users := r.Group("/users")
	users.Get("/", ctl.GetUsers)
	users.Get("/:id", ctl.GetUser)
	users.Put("/:id", ctl.UpdateUser)
	users.Delete("/:id", ctl.DeleteUser)
	users.Post("/:id/reset-password", ctl.ResetPassword)
}
