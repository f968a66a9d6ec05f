package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel stores one row per issued refresh token. Only the
// HMAC of the token is kept; the raw value never touches the database.
type RefreshTokenModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash []byte     `gorm:"type:bytea;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	UserAgent *string    `gorm:"size:400" json:"user_agent,omitempty"`
	IP        *string    `gorm:"type:inet" json:"ip,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
