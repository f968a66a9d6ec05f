package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklist holds access tokens invalidated by logout until their
// natural expiry passes.
type TokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"type:text;uniqueIndex;not null" json:"token"`
	ExpiredAt time.Time      `gorm:"not null" json:"expired_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
