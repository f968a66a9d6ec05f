// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"studioku_backend/internals/configs"
	authmodel "studioku_backend/internals/features/users/auth/model"
	helper "studioku_backend/internals/helpers"
)

func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Authorization header (or cookie fallback)
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		helper.SetRawAccessToken(c, tokenString)

		// 2) Blacklist check, once per request
		if c.Locals("token_checked") == nil {
			var existing authmodel.TokenBlacklist
			if err := db.Where("token = ? AND deleted_at IS NULL", tokenString).First(&existing).Error; err == nil {
				log.Println("[WARNING] token found in blacklist")
				return fiber.NewError(fiber.StatusUnauthorized, "Токен отозван")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Println("[ERROR] blacklist lookup:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Внутренняя ошибка сервера")
			}
			c.Locals("token_checked", true)
		}

		// 3) Parse & verify JWT (claims validated manually below)
		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[ERROR] token parse:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Недействительный токен")
		}

		// 4) exp with a small skew
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			log.Println("[ERROR] exp validation:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Срок действия токена истек")
		}

		// 5) user_id + active check
		userID, err := extractUserID(claims)
		if err != nil {
			log.Println("[ERROR] user_id:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Недействительный токен")
		}
		c.Locals("user_id", userID.String())

		if err := ensureUserActive(db, userID); err != nil {
			log.Println("[ERROR] ensureUserActive:", err)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Пользователь не найден")
			}
			return fiber.NewError(fiber.StatusForbidden, "Ваш аккаунт деактивирован")
		}

		// 6) role / name claims to Locals
		storeBasicClaimsToLocals(c, claims)

		return c.Next()
	}
}
