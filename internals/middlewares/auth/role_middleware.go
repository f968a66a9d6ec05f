package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// RoleMiddlewareWithCustomError gates a route group by role.
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Требуется вход в систему",
			})
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		log.Printf("[WARNING] role %q denied for %s %s", role, c.Method(), c.Path())
		if customForbiddenMessage == "" {
			customForbiddenMessage = "Доступ запрещен"
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": customForbiddenMessage,
		})
	}
}

// OnlyRoles is the shorthand used at route registration.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
