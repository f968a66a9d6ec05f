// file: internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authmodel "studioku_backend/internals/features/users/auth/model"
	usermodel "studioku_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByEmail(db *gorm.DB, email string) (*usermodel.UserModel, error) {
	var user usermodel.UserModel
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmailLight loads only the columns the login hot path needs.
func FindUserByEmailLight(db *gorm.DB, email string) (*usermodel.UserModel, error) {
	var user usermodel.UserModel
	if err := db.Select("id", "password", "is_active").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(db *gorm.DB, googleID string) (*usermodel.UserModel, error) {
	var user usermodel.UserModel
	if err := db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*usermodel.UserModel, error) {
	var user usermodel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(db *gorm.DB, user *usermodel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, newHash string) error {
	return db.Model(&usermodel.UserModel{}).
		Where("id = ?", userID).
		Update("password", newHash).Error
}

/* ====================== REFRESH TOKEN ====================== */

func CreateRefreshToken(db *gorm.DB, token *authmodel.RefreshTokenModel) error {
	return db.Create(token).Error
}

// FindRefreshTokenByHashActive returns the stored row only while it is
// neither revoked nor expired.
func FindRefreshTokenByHashActive(db *gorm.DB, hash []byte) (*authmodel.RefreshTokenModel, error) {
	var rt authmodel.RefreshTokenModel
	if err := db.
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > NOW()", hash).
		Limit(1).
		Find(&rt).Error; err != nil {
		return nil, err
	}
	if rt.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &rt, nil
}

func RevokeRefreshTokenByID(db *gorm.DB, id uuid.UUID) error {
	res := db.Model(&authmodel.RefreshTokenModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now().UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func RevokeRefreshTokenByHash(db *gorm.DB, hash []byte) error {
	return db.Model(&authmodel.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", time.Now().UTC()).Error
}

/* ====================== BLACKLIST TOKEN ====================== */

func BlacklistToken(db *gorm.DB, token string, ttl time.Duration) error {
	return db.Create(&authmodel.TokenBlacklist{
		Token:     token,
		ExpiredAt: time.Now().UTC().Add(ttl),
	}).Error
}

// CleanupExpiredBlacklist drops rows whose retention window has passed.
// Runs opportunistically during logout, not on a scheduler.
func CleanupExpiredBlacklist(db *gorm.DB) (int64, error) {
	res := db.Exec(`DELETE FROM token_blacklist WHERE expired_at <= ?`, time.Now().UTC())
	return res.RowsAffected, res.Error
}
