package route

import (
	controller "studioku_backend/internals/features/system/audit/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuditAdminRoutes mounts the audit trail browser under /api/a.
func AuditAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAuditAdminController(db)

	r.Get("/audit-logs", ctl.ListAuditLogs)
}
