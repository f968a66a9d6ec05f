package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the app-level fiber error handler. Handlers return
// fiber errors for auth and path-param failures; anything else becomes
// a 500 with the detail kept out of the response body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Внутренняя ошибка сервера"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	}
	return JsonError(c, code, message)
}
