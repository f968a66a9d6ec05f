package route

import (
	controller "studioku_backend/internals/features/academics/schedules/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ScheduleAdminRoutes mounts weekly-pattern management under the admin
// group; the paths hang off /groups next to the group CRUD.
func ScheduleAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewScheduleAdminController(db)

	groups := r.Group("/groups")
	groups.Get("/:id/schedules", ctl.GetGroupSchedules)
	groups.Put("/:id/schedules", ctl.ReplaceGroupSchedules)
	groups.Post("/:id/schedule", ctl.AddGroupSchedule)
}
