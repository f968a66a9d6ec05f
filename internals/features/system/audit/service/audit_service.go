package service

import (
	"log"
	"strings"

	"studioku_backend/internals/features/system/audit/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry is one audit record before insertion. Actor fields may be left
// empty; LogAction backfills name/email from users when it can.
type Entry struct {
	ActorUserID *uuid.UUID
	ActorRole   string
	ActorName   string
	ActorEmail  string
	ActionKey   string
	ActionLabel string
	Meta        map[string]any
	IP          string
	UserAgent   string
}

// EntryFromCtx builds an Entry from the authenticated request context.
func EntryFromCtx(c *fiber.Ctx, actionKey, actionLabel string, meta map[string]any) Entry {
	e := Entry{
		ActionKey:   actionKey,
		ActionLabel: actionLabel,
		Meta:        meta,
		IP:          c.IP(),
		UserAgent:   c.Get("User-Agent"),
	}
	if raw, ok := c.Locals("user_id").(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			e.ActorUserID = &id
		}
	}
	if role, ok := c.Locals("userRole").(string); ok {
		e.ActorRole = role
	}
	if name, ok := c.Locals("user_name").(string); ok {
		e.ActorName = name
	}
	return e
}

// LogAction appends one audit row. Best-effort: failures are logged and
// swallowed so audit trouble never fails the action being audited.
func LogAction(db *gorm.DB, e Entry) {
	row := model.AuditLogModel{
		ActorUserID: e.ActorUserID,
		ActionKey:   e.ActionKey,
		ActionLabel: e.ActionLabel,
	}
	if e.ActorRole != "" {
		row.ActorRole = &e.ActorRole
	}
	if e.ActorName != "" {
		row.ActorName = &e.ActorName
	}
	if e.ActorEmail != "" {
		row.ActorEmail = &e.ActorEmail
	}
	if e.IP != "" {
		row.IP = &e.IP
	}
	if ua := strings.TrimSpace(e.UserAgent); ua != "" {
		if len(ua) > 400 {
			ua = ua[:400]
		}
		row.UserAgent = &ua
	}
	if len(e.Meta) > 0 {
		row.MetaJSON = datatypes.JSONMap(e.Meta)
	}

	// Backfill actor snapshot from users when the context had no name.
	if e.ActorUserID != nil && (row.ActorName == nil || row.ActorEmail == nil) {
		var u struct {
			Name  string
			Email string
		}
		if err := db.Table("users").
			Select("name, email").
			Where("id = ?", *e.ActorUserID).
			Scan(&u).Error; err == nil {
			if row.ActorName == nil && u.Name != "" {
				row.ActorName = &u.Name
			}
			if row.ActorEmail == nil && u.Email != "" {
				row.ActorEmail = &u.Email
			}
		}
	}

	if err := db.Create(&row).Error; err != nil {
		log.Printf("[WARN] audit: write %s failed: %v", e.ActionKey, err)
	}
}
