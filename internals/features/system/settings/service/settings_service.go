package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"studioku_backend/internals/constants"
	"studioku_backend/internals/features/system/settings/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* =========================
   Read side
========================= */

// GetValues reads the requested keys (all known keys when none given),
// decodes their JSON values and fills hardcoded defaults for missing
// rows. A row that fails to decode falls back to its default too.
func GetValues(db *gorm.DB, keys ...string) (map[string]any, error) {
	out := make(map[string]any)

	q := db.Model(&model.SystemSettingModel{})
	if len(keys) > 0 {
		q = q.Where("key IN ?", keys)
	}

	var rows []model.SystemSettingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		var v any
		if err := json.Unmarshal(r.ValueJSON, &v); err != nil {
			log.Printf("[WARN] settings: unreadable value for key %q: %v", r.Key, err)
			continue
		}
		out[r.Key] = v
	}

	if len(keys) == 0 {
		for k, dv := range constants.DefaultSettings {
			if _, ok := out[k]; !ok {
				out[k] = dv
			}
		}
		return out, nil
	}
	for _, k := range keys {
		if _, ok := out[k]; !ok {
			if dv, has := constants.DefaultSettings[k]; has {
				out[k] = dv
			}
		}
	}
	return out, nil
}

// GetBool reads one key and coerces it to bool. Read errors fall back
// to the given default so feature flags never take a page down.
func GetBool(db *gorm.DB, key string, fallback bool) bool {
	vals, err := GetValues(db, key)
	if err != nil {
		log.Printf("[WARN] settings: read %q failed: %v", key, err)
		return fallback
	}
	v, ok := vals[key]
	if !ok {
		return fallback
	}
	return CoerceBool(v, fallback)
}

// GetString reads one key as a string.
func GetString(db *gorm.DB, key string, fallback string) string {
	vals, err := GetValues(db, key)
	if err != nil {
		log.Printf("[WARN] settings: read %q failed: %v", key, err)
		return fallback
	}
	v, ok := vals[key]
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) != "" {
			return t
		}
		return fallback
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CoerceBool accepts the value shapes that have historically ended up
// in the settings table: bools, numbers and a handful of string forms.
func CoerceBool(v any, fallback bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off", "":
			return false
		}
	}
	return fallback
}

/* =========================
   Write side
========================= */

// Set upserts one key. The value is stored as JSON, so scalars, arrays
// and objects all round-trip.
func Set(db *gorm.DB, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("settings: encode %q: %w", key, err)
	}
	row := model.SystemSettingModel{
		Key:       key,
		ValueJSON: datatypes.JSON(raw),
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value_json": datatypes.JSON(raw),
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(&row).Error
}
