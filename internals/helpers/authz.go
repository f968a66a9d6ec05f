// file: internals/helpers/authz.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ===============================
   Claims from Locals (set by auth middleware)
=================================*/

// GetUserIDFromToken reads c.Locals("user_id").
// 401 when not logged in, 400 when the value is malformed.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("user_id")
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Требуется вход в систему")
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Требуется вход в систему")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Требуется вход в систему")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Некорректный идентификатор пользователя в токене")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Некорректный идентификатор пользователя в токене")
	}
}

// GetUserRole reads c.Locals("userRole"); empty string when absent.
func GetUserRole(c *fiber.Ctx) string {
	if v, ok := c.Locals("userRole").(string); ok {
		return v
	}
	return ""
}

// GetUserName reads c.Locals("user_name"); empty string when absent.
func GetUserName(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_name").(string); ok {
		return v
	}
	return ""
}

/* ===============================
   Path params
=================================*/

// ParseUUIDParam reads a UUID path parameter; 400 on garbage so
// handlers can `return err` directly.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Некорректный идентификатор")
	}
	return id, nil
}
