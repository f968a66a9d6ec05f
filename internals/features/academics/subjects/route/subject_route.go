package route

import (
	controller "studioku_backend/internals/features/academics/subjects/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubjectUserRoutes exposes the read side to any authenticated role.
func SubjectUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSubjectController(db)
	r.Get("/subjects", ctl.GetSubjects)
}

// SubjectAdminRoutes mounts the subject CRUD and the group attachment
// endpoints under the admin group.
func SubjectAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSubjectController(db)

	subjects := r.Group("/subjects")
	subjects.Get("/", ctl.GetSubjects)
	subjects.Post("/", ctl.CreateSubject)
	subjects.Put("/:id", ctl.UpdateSubject)
	subjects.Delete("/:id", ctl.DeleteSubject)

	r.Get("/groups/:id/subjects", ctl.GetGroupSubjects)
	r.Post("/groups/:id/subjects", ctl.AttachSubject)
	r.Delete("/groups/:id/subjects/:sid", ctl.DetachSubject)
}
