package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"studioku_backend/internals/features/system/audit/model"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

// AuditAdminController serves the audit trail browser.
type AuditAdminController struct {
	DB *gorm.DB
}

func NewAuditAdminController(db *gorm.DB) *AuditAdminController {
	return &AuditAdminController{DB: db}
}

// ListAuditLogs returns a filtered page of the audit trail, newest
// first. Filters: actor (name or email, substring), role (exact),
// action (substring on the key), from/to (created_at bounds).
func (ctl *AuditAdminController) ListAuditLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	q := ctl.DB.WithContext(c.Context()).Model(&model.AuditLogModel{})
	if actor := c.Query("actor"); actor != "" {
		pattern := "%" + actor + "%"
		q = q.Where("(actor_name ILIKE ? OR actor_email ILIKE ?)", pattern, pattern)
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("actor_role = ?", role)
	}
	if action := c.Query("action"); action != "" {
		q = q.Where("action_key ILIKE ?", "%"+action+"%")
	}
	if raw := c.Query("from"); raw != "" {
		from, err := dbtime.ParseDateTime(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid 'from' date")
		}
		q = q.Where("created_at >= ?", from)
	}
	if raw := c.Query("to"); raw != "" {
		to, err := dbtime.ParseDateTime(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid 'to' date")
		}
		q = q.Where("created_at <= ?", to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []model.AuditLogModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	items := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		items = append(items, fiber.Map{
			"id":           r.ID,
			"actor_name":   r.ActorName,
			"actor_email":  r.ActorEmail,
			"actor_role":   r.ActorRole,
			"action_key":   r.ActionKey,
			"action_label": r.ActionLabel,
			"meta":         r.MetaJSON,
			"created_at":   r.CreatedAt,
		})
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
