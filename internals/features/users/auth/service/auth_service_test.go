package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"studioku_backend/internals/configs"
	usermodel "studioku_backend/internals/features/users/user/model"
)

func setTestSecrets() {
	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"
}

func TestAccessTokenClaims(t *testing.T) {
	setTestSecrets()

	user := usermodel.UserModel{ID: uuid.New(), Name: "Анна", Role: "teacher"}
	raw, err := signAccessToken(&user, nowUTC())
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	tok, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return []byte(configs.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse error: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["id"] != user.ID.String() || claims["sub"] != user.ID.String() {
		t.Fatalf("unexpected subject claims: %v", claims)
	}
	if claims["role"] != "teacher" || claims["type"] != "access" {
		t.Fatalf("unexpected role/type claims: %v", claims)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	setTestSecrets()

	userID := uuid.New()
	raw, err := signRefreshToken(userID, nowUTC())
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	got, err := parseRefreshToken(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got != userID {
		t.Fatalf("parsed id = %s, want %s", got, userID)
	}
}

func TestParseRefreshTokenRejections(t *testing.T) {
	setTestSecrets()

	// Access tokens are signed with the other secret.
	user := usermodel.UserModel{ID: uuid.New(), Name: "T", Role: "student"}
	accessToken, err := signAccessToken(&user, nowUTC())
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	// Right secret, wrong type claim.
	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   uuid.New().String(),
		"type": "access",
		"exp":  nowUTC().Add(time.Hour).Unix(),
	}).SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	// Right secret and type, unparseable subject.
	badID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   "not-a-uuid",
		"type": "refresh",
		"exp":  nowUTC().Add(time.Hour).Unix(),
	}).SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	for name, token := range map[string]string{
		"garbage":       "not.a.token",
		"access token":  accessToken,
		"wrong type":    wrongType,
		"malformed sub": badID,
	} {
		if _, err := parseRefreshToken(token); err == nil {
			t.Fatalf("%s: expected rejection", name)
		}
	}
}

func TestComputeRefreshHash(t *testing.T) {
	a := computeRefreshHash("token-1", "secret")
	b := computeRefreshHash("token-1", "secret")
	if !bytes.Equal(a, b) {
		t.Fatalf("hash is not deterministic")
	}
	if bytes.Equal(a, computeRefreshHash("token-2", "secret")) {
		t.Fatalf("different tokens hash equal")
	}
	if bytes.Equal(a, computeRefreshHash("token-1", "other")) {
		t.Fatalf("different secrets hash equal")
	}
}

func TestBlacklistTTL(t *testing.T) {
	setTestSecrets()

	user := usermodel.UserModel{ID: uuid.New(), Name: "T", Role: "student"}
	raw, err := signAccessToken(&user, nowUTC())
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	if ttl := blacklistTTL(raw); ttl < 5*time.Minute {
		t.Fatalf("ttl %v does not cover the token lifetime", ttl)
	}

	// Unreadable tokens fall back to the configured floor.
	fallback := blacklistTTL("")
	if fallback <= 0 {
		t.Fatalf("fallback ttl = %v", fallback)
	}
	if got := blacklistTTL("not.a.token"); got != fallback {
		t.Fatalf("garbage token ttl = %v, want fallback %v", got, fallback)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("корректный пароль")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPasswordHash(hash, "корректный пароль"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPasswordHash(hash, "другой пароль"); err == nil {
		t.Fatalf("expected mismatch")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestPasswordTruncation(t *testing.T) {
	long := strings.Repeat("a", 80)
	hash, err := HashPassword(long)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	// bcrypt only reads the first 72 bytes.
	if err := CheckPasswordHash(hash, strings.Repeat("a", 72)); err != nil {
		t.Fatalf("expected 72-byte prefix to match: %v", err)
	}
}
