package helper

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestBuildFieldErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=2"`
		Role  string `validate:"omitempty,oneof=student teacher admin"`
	}

	v := validator.New()
	err := v.Struct(form{Email: "not-an-email", Name: "a", Role: "boss"})
	if err == nil {
		t.Fatalf("expected validation to fail")
	}

	fields := BuildFieldErrors(err)
	if got := fields["email"]; len(got) != 1 || got[0] != "Некорректный email" {
		t.Fatalf("email errors = %v", got)
	}
	if got := fields["name"]; len(got) != 1 || got[0] != "Минимальная длина 2" {
		t.Fatalf("name errors = %v", got)
	}
	if got := fields["role"]; len(got) != 1 || got[0] != "Допустимые значения: student teacher admin" {
		t.Fatalf("role errors = %v", got)
	}
}

func TestBuildFieldErrorsRequired(t *testing.T) {
	type form struct {
		Email string `validate:"required"`
	}
	err := validator.New().Struct(form{})
	fields := BuildFieldErrors(err)
	if got := fields["email"]; len(got) != 1 || got[0] != "Обязательное поле" {
		t.Fatalf("email errors = %v", got)
	}
}

func TestBuildFieldErrorsNonValidator(t *testing.T) {
	fields := BuildFieldErrors(errors.New("broken body"))
	if got := fields["body"]; len(got) != 1 {
		t.Fatalf("body errors = %v", got)
	}
}
