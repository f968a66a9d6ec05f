// file: internals/features/users/auth/route/auth_route.go
package route

import (
	controller "studioku_backend/internals/features/users/auth/controller"
	rateLimiter "studioku_backend/internals/middlewares"
	authMw "studioku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRoutes mounts the authentication endpoints under /api/auth.
// The refresh cookie is scoped to this path, keep it stable.
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	baseAuth := app.Group("/api/auth")

	// Public
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	baseAuth.Post("/refresh", authController.Refresh)
	baseAuth.Post("/logout", authController.Logout)

	// Protected
	protected := app.Group("/api/auth", authMw.AuthMiddleware(db))
	protected.Get("/me", authController.Me)
	protected.Post("/change-password", authController.ChangePassword)
}
