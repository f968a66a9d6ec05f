package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt operates on at most 72 bytes, longer inputs are truncated.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password is empty")
	}
	raw := []byte(plain)
	if len(raw) > 72 {
		raw = raw[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(raw, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(hash, plain string) error {
	raw := []byte(plain)
	if len(raw) > 72 {
		raw = raw[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), raw)
}
