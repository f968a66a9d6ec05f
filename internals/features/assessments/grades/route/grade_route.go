package route

import (
	controller "studioku_backend/internals/features/assessments/grades/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GradeTeacherRoutes mounts grade editing under /api/t.
func GradeTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewGradeTeacherController(db)

	grades := r.Group("/grades")
	grades.Post("/", ctl.Upsert)
	grades.Delete("/", ctl.Delete)
	grades.Get("/group/:id", ctl.ListGroupGrades)
}

// GradeAdminRoutes mounts the grade board under /api/a.
func GradeAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewGradeAdminController(db)

	r.Get("/grades/group/:id", ctl.ListGroupGrades)
}

// GradeStudentRoutes mounts the student's grade history under /api/s.
func GradeStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewGradeStudentController(db)

	r.Get("/grades", ctl.ListMyGrades)
}
