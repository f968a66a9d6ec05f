package route

import (
	controller "studioku_backend/internals/features/studio/groups/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GroupStudentRoutes mounts group browsing and signup under /api/s.
func GroupStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewGroupStudentController(db)

	groups := r.Group("/groups")
	groups.Get("/filters", ctl.GetFilters)
	groups.Get("/available", ctl.GetAvailableGroups)
	groups.Post("/:id/join", ctl.JoinGroup)
	groups.Post("/:id/trial", ctl.TrialSignup)
}

// GroupAdminRoutes mounts group management under /api/a.
func GroupAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewGroupAdminController(db)

	groups := r.Group("/groups")
	groups.Get("/", ctl.GetGroups)
	groups.Get("/:id", ctl.GetGroupDetails)
	groups.Post("/", ctl.CreateGroup)
	groups.Put("/:id", ctl.UpdateGroup)
	groups.Delete("/:id", ctl.DeleteGroup)
	groups.Post("/:id/close", ctl.CloseGroup)
	groups.Post("/:id/open", ctl.OpenGroup)
	groups.Post("/:id/limit", ctl.UpdateGroupLimit)

	groups.Get("/:id/students", ctl.GetGroupStudents)
	groups.Post("/:id/students", ctl.AddStudentToGroup)
	groups.Delete("/:id/students/:studentId", ctl.RemoveStudentFromGroup)

	groups.Post("/:id/teachers/:teacherId", ctl.AddTeacherToGroup)
	groups.Delete("/:id/teachers/:teacherId", ctl.RemoveTeacherFromGroup)

	// Lead assignment lives on the teachers path, the admin panel
	// calls it from the teacher card.
	r.Post("/teachers/:teacherId/groups/:groupId", ctl.AssignMainTeacher)
}
