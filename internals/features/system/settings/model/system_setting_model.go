package model

import (
	"time"

	"gorm.io/datatypes"
)

// SystemSettingModel maps system_settings. Key/value store where the
// value is arbitrary JSON; missing keys fall back to hardcoded defaults
// in the settings service.
type SystemSettingModel struct {
	Key       string         `gorm:"primaryKey;size:100" json:"key"`
	ValueJSON datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemSettingModel) TableName() string {
	return "system_settings"
}
