package route

import (
	controller "studioku_backend/internals/features/system/notifications/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NotificationUserRoutes mounts the personal notification feed. The
// feed works the same for every authenticated role.
func NotificationUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewNotificationController(db)

	notifications := r.Group("/notifications")
	notifications.Get("/", ctl.GetNotifications)
	notifications.Get("/unread-count", ctl.GetUnreadCount)
	notifications.Patch("/read-all", ctl.MarkAllAsRead)
	notifications.Patch("/:id/read", ctl.MarkAsRead)
	notifications.Delete("/:id", ctl.DeleteNotification)
}

// NotificationAdminRoutes mounts the group broadcast under /api/a.
func NotificationAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewNotificationController(db)

	r.Post("/groups/:id/notify", ctl.BroadcastToGroup)
}
