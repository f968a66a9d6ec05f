package middlewares

import (
	"log"

	"github.com/gofiber/fiber/v2"

	loggermw "studioku_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the app-wide chain, in order:
// recovery, CORS, access log, global rate limit.
func SetupMiddlewares(app *fiber.App) {
	log.Println("[INFO] Registering global middlewares...")
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggermw.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
