package route

import (
	controller "studioku_backend/internals/features/assessments/transcripts/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TranscriptAdminRoutes mounts the transcript board and publishing
// under /api/a.
func TranscriptAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewTranscriptAdminController(db)

	r.Get("/groups/:id/transcript", ctl.GetGroupTranscript)
	r.Post("/groups/:id/subjects/:sid/publish", ctl.PublishSubject)
	r.Post("/groups/:id/transcript/publish-all", ctl.PublishAll)
}

// TranscriptStudentRoutes mounts the student transcript view under
// /api/s.
func TranscriptStudentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewTranscriptStudentController(db)

	r.Get("/transcript", ctl.GetMyTranscript)
}
