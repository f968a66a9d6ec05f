// file: internals/helpers/pg_error.go
package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

/* ===============================
   Postgres error mapping
=================================*/

// SQLStateError is satisfied by both lib/pq and pgx driver errors.
type SQLStateError interface {
	SQLState() string
	Error() string
}

var _ SQLStateError = (*pq.Error)(nil)

// MapPGError translates constraint violations into client-facing statuses.
func MapPGError(err error) (int, string, bool) {
	var pe SQLStateError
	if errors.As(err, &pe) {
		switch pe.SQLState() {
		case "23P01": // exclusion
			return fiber.StatusConflict, "Конфликт с существующей записью", true
		case "23503": // foreign key
			return fiber.StatusBadRequest, "Неверная ссылка на связанную запись", true
		case "23505": // unique
			return fiber.StatusConflict, "Такая запись уже существует", true
		}
	}
	return 0, "", false
}

// WritePGError maps a DB error or falls back to a generic 500.
func WritePGError(c *fiber.Ctx, err error) error {
	if code, msg, ok := MapPGError(err); ok {
		return JsonError(c, code, msg)
	}
	return JsonError(c, fiber.StatusInternalServerError, "Внутренняя ошибка сервера")
}

// IsUniqueViolation reports whether err is a 23505 unique violation.
func IsUniqueViolation(err error) bool {
	var pe SQLStateError
	return errors.As(err, &pe) && pe.SQLState() == "23505"
}

// IsForeignKeyViolation reports whether err is a 23503 FK violation.
func IsForeignKeyViolation(err error) bool {
	var pe SQLStateError
	return errors.As(err, &pe) && pe.SQLState() == "23503"
}
