package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studioku_backend/internals/configs"
	"studioku_backend/internals/constants"
	"studioku_backend/internals/features/studio/students/model"
	authdto "studioku_backend/internals/features/users/auth/dto"
	authmodel "studioku_backend/internals/features/users/auth/model"
	authrepo "studioku_backend/internals/features/users/auth/repository"
	usermodel "studioku_backend/internals/features/users/user/model"
	settingssvc "studioku_backend/internals/features/system/settings/service"
	helper "studioku_backend/internals/helpers"
)

const refreshCookieName = "refresh_token"

var validate = validator.New()

func accessTTL() time.Duration {
	return time.Duration(configs.GetEnvInt("ACCESS_TOKEN_MINUTES", 10)) * time.Minute
}

func refreshTTL() time.Duration {
	return time.Duration(configs.GetEnvInt("REFRESH_TOKEN_DAYS", 30)) * 24 * time.Hour
}

func nowUTC() time.Time { return time.Now().UTC() }

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/* ==========================
   Tokens
========================== */

func signAccessToken(user *usermodel.UserModel, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID.String(),
		"sub":  user.ID.String(),
		"name": user.Name,
		"role": user.Role,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(accessTTL()).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
}

func signRefreshToken(userID uuid.UUID, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID.String(),
		"sub":  userID.String(),
		"type": "refresh",
		"iat":  now.Unix(),
		"exp":  now.Add(refreshTTL()).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTRefreshSecret))
}

// Refresh tokens are stored hashed so a DB leak does not leak live tokens.
func computeRefreshHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}

func parseRefreshToken(raw string) (uuid.UUID, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Недействительный токен обновления")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Недействительный токен обновления")
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Недействительный токен обновления")
	}
	idStr, _ := claims["id"].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Недействительный токен обновления")
	}
	return userID, nil
}

func setRefreshCookie(c *fiber.Ctx, token string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   configs.GetEnv("COOKIE_SECURE", "true") == "true",
		SameSite: "Lax",
		Path:     "/api/auth",
		Expires:  now.Add(refreshTTL()),
	})
}

func clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		HTTPOnly: true,
		Secure:   configs.GetEnv("COOKIE_SECURE", "true") == "true",
		SameSite: "Lax",
		Path:     "/api/auth",
		Expires:  nowUTC().Add(-time.Hour),
		MaxAge:   -1,
	})
}

func issueTokens(c *fiber.Ctx, db *gorm.DB, user *usermodel.UserModel, message string) error {
	now := nowUTC()

	accessToken, err := signAccessToken(user, now)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось создать токен доступа")
	}
	refreshToken, err := signRefreshToken(user.ID, now)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось создать токен обновления")
	}

	rt := &authmodel.RefreshTokenModel{
		UserID:    user.ID,
		TokenHash: computeRefreshHash(refreshToken, configs.JWTRefreshSecret),
		ExpiresAt: now.Add(refreshTTL()),
		UserAgent: strptr(string(c.Request().Header.UserAgent())),
		IP:        strptr(c.IP()),
	}
	if err := authrepo.CreateRefreshToken(db, rt); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось сохранить токен обновления")
	}

	setRefreshCookie(c, refreshToken, now)

	return helper.JsonOK(c, message, fiber.Map{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(accessTTL().Seconds()),
		"user":         authdto.NewUserResponse(user),
	})
}

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input authdto.RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Некорректное тело запроса")
	}

	if err := validate.Struct(input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	if input.Password != input.PasswordConfirm {
		return helper.JsonValidationError(c, map[string][]string{
			"password_confirm": {"Пароли не совпадают"},
		})
	}

	if !settingssvc.GetBool(db, constants.SettingRegistrationEnabled, true) {
		return helper.JsonError(c, fiber.StatusForbidden, "Регистрация новых пользователей отключена")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось обработать пароль")
	}

	user := usermodel.UserModel{
		Name:     strings.TrimSpace(input.FullName),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hash,
		Role:     constants.RoleStudent,
		IsActive: true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := authrepo.CreateUser(tx, &user); err != nil {
			return err
		}
		student := model.StudentModel{
			UserID:      user.ID,
			PhoneNumber: strings.TrimSpace(input.Phone),
		}
		return tx.Create(&student).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonValidationError(c, map[string][]string{
				"email": {"Email уже зарегистрирован"},
			})
		}
		return helper.WritePGError(c, err)
	}

	log.Printf("[AUTH] registered student email=%s user_id=%s", user.Email, user.ID)
	return helper.JsonCreated(c, "Регистрация прошла успешно", authdto.NewUserResponse(&user))
}

/* ==========================
   LOGIN
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input authdto.LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Некорректное тело запроса")
	}
	if err := validate.Struct(input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := authrepo.FindUserByEmailLight(db, email)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Неверный email или пароль")
	}
	if err := CheckPasswordHash(user.Password, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Неверный email или пароль")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Ваш аккаунт деактивирован")
	}

	log.Printf("[AUTH] login email=%s role=%s", user.Email, user.Role)
	return issueTokens(c, db, user, "Вход выполнен")
}

/* ==========================
   LOGIN GOOGLE
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var input authdto.GoogleLoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Некорректное тело запроса")
	}
	if strings.TrimSpace(input.IDToken) == "" {
		return helper.JsonValidationError(c, map[string][]string{
			"id_token": {"Обязательное поле"},
		})
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(input.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Недействительный Google ID Token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(input.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось разобрать Google ID Token")
	}
	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	googleID := claimSet.Sub

	user, err := authrepo.FindUserByGoogleID(db, googleID)
	if err != nil {
		// Link to an existing account by email, otherwise create a student.
		if existing, lookupErr := authrepo.FindUserByEmail(db, email); lookupErr == nil {
			if err := db.Model(existing).Update("google_id", googleID).Error; err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось привязать Google аккаунт")
			}
			user = existing
		} else {
			dummy, hashErr := HashPassword(uuid.NewString())
			if hashErr != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось обработать пароль")
			}
			newUser := usermodel.UserModel{
				Name:     claimSet.Name,
				Email:    email,
				Password: dummy,
				GoogleID: &googleID,
				Role:     constants.RoleStudent,
				IsActive: true,
			}
			err = db.Transaction(func(tx *gorm.DB) error {
				if err := authrepo.CreateUser(tx, &newUser); err != nil {
					return err
				}
				return tx.Create(&model.StudentModel{UserID: newUser.ID}).Error
			})
			if err != nil {
				if helper.IsUniqueViolation(err) {
					return helper.JsonError(c, fiber.StatusBadRequest, "Email уже зарегистрирован")
				}
				return helper.WritePGError(c, err)
			}
			user = &newUser
		}
	}

	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Ваш аккаунт деактивирован")
	}

	return issueTokens(c, db, user, "Вход выполнен")
}

/* ==========================
   REFRESH
========================== */

func Refresh(db *gorm.DB, c *fiber.Ctx) error {
	raw := helper.GetRefreshTokenFromCookie(c)
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Требуется вход в систему")
	}

	userID, err := parseRefreshToken(raw)
	if err != nil {
		clearRefreshCookie(c)
		return err
	}

	hash := computeRefreshHash(raw, configs.JWTRefreshSecret)
	stored, err := authrepo.FindRefreshTokenByHashActive(db, hash)
	if err != nil || stored.UserID != userID {
		clearRefreshCookie(c)
		return helper.JsonError(c, fiber.StatusUnauthorized, "Недействительный токен обновления")
	}

	user, err := authrepo.FindUserByID(db, userID)
	if err != nil {
		clearRefreshCookie(c)
		return helper.JsonError(c, fiber.StatusUnauthorized, "Пользователь не найден")
	}
	if !user.IsActive {
		clearRefreshCookie(c)
		return helper.JsonError(c, fiber.StatusForbidden, "Ваш аккаунт деактивирован")
	}

	// Rotation: the presented token is spent even if issuing below fails.
	if err := authrepo.RevokeRefreshTokenByID(db, stored.ID); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось обновить сессию")
	}

	return issueTokens(c, db, user, "Сессия обновлена")
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	accessToken := helper.GetRawAccessToken(c)
	if accessToken != "" {
		if err := authrepo.BlacklistToken(db, accessToken, blacklistTTL(accessToken)); err != nil {
			log.Printf("[WARN] blacklist access token: %v", err)
		}
	}

	if raw := helper.GetRefreshTokenFromCookie(c); raw != "" {
		hash := computeRefreshHash(raw, configs.JWTRefreshSecret)
		if err := authrepo.RevokeRefreshTokenByHash(db, hash); err != nil {
			log.Printf("[WARN] revoke refresh token: %v", err)
		}
	}

	// Piggyback housekeeping on logout instead of a background job.
	if n, err := authrepo.CleanupExpiredBlacklist(db); err == nil && n > 0 {
		log.Printf("[AUTH] purged %d expired blacklist rows", n)
	}

	clearRefreshCookie(c)
	return helper.JsonOK(c, "Выход выполнен", nil)
}

// Blacklist rows only need to outlive the token itself.
func blacklistTTL(accessToken string) time.Duration {
	fallback := time.Duration(configs.GetEnvInt("BLACKLIST_TTL_SECONDS", 120)) * time.Second
	if accessToken == "" {
		return fallback
	}
	parser := jwt.Parser{SkipClaimsValidation: true}
	tok, err := parser.Parse(accessToken, func(t *jwt.Token) (any, error) {
		return []byte(configs.JWTSecret), nil
	})
	if err != nil {
		return fallback
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return fallback
	}
	if exp, ok := claims["exp"].(float64); ok {
		if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
			return until + time.Minute
		}
	}
	return fallback
}

/* ==========================
   CHANGE PASSWORD
========================== */

func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var input authdto.ChangePasswordRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Некорректное тело запроса")
	}
	if err := validate.Struct(input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	user, err := authrepo.FindUserByID(db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Пользователь не найден")
	}
	if err := CheckPasswordHash(user.Password, input.CurrentPassword); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Текущий пароль неверен")
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось обработать пароль")
	}
	if err := authrepo.UpdateUserPassword(db, userID, hash); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Не удалось обновить пароль")
	}

	// Other sessions must log in again with the new password.
	if err := db.Model(&authmodel.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", nowUTC()).Error; err != nil {
		log.Printf("[WARN] revoke refresh tokens after password change: %v", err)
	}

	return helper.JsonUpdated(c, "Пароль обновлён", nil)
}
