// file: internals/helpers/validation.go
package helper

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

/* ===============================
   validator.v10 → field error map
=================================*/

// BuildFieldErrors converts validator errors into the envelope's
// errors map. Field names are lowercased JSON-style.
func BuildFieldErrors(err error) map[string][]string {
	out := map[string][]string{}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		out["body"] = []string{"Некорректные данные запроса"}
		return out
	}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		out[field] = append(out[field], messageForTag(fe))
	}
	return out
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обязательное поле"
	case "email":
		return "Некорректный email"
	case "min":
		return fmt.Sprintf("Минимальная длина %s", fe.Param())
	case "max":
		return fmt.Sprintf("Максимальная длина %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Значение должно быть не меньше %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Значение должно быть не больше %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Допустимые значения: %s", fe.Param())
	case "uuid":
		return "Некорректный идентификатор"
	default:
		return "Некорректное значение"
	}
}
