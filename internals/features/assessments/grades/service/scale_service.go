package service

import (
	"database/sql"
	"math"
	"strings"

	"studioku_backend/internals/constants"
	"studioku_backend/internals/features/assessments/grades/model"
	settingssvc "studioku_backend/internals/features/system/settings/service"

	"gorm.io/gorm"
)

/* =========================
   Scale arithmetic
========================= */

// conversionFactor is the multiplier taking a value from one scale to
// the other; 1 means no conversion applies.
func conversionFactor(from, to string) float64 {
	switch {
	case from == constants.GradeScaleFive && to == constants.GradeScaleHundred:
		return 20
	case from == constants.GradeScaleHundred && to == constants.GradeScaleFive:
		return 0.05
	}
	return 1
}

// ScaleMax is the inclusive upper bound used for input validation.
func ScaleMax(scale string) float64 {
	if scale == constants.GradeScaleHundred {
		return 100
	}
	return 5
}

// ConvertValue renders a stored value in the requested scale, rounded
// to two decimals the way the SQL conversion rounds.
func ConvertValue(v float64, from, to string) float64 {
	f := conversionFactor(from, to)
	if f == 1 {
		return v
	}
	return math.Round(v*f*100) / 100
}

func normalizeScale(v any, fallback string) string {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	switch strings.TrimSpace(s) {
	case constants.GradeScaleFive:
		return constants.GradeScaleFive
	case constants.GradeScaleHundred:
		return constants.GradeScaleHundred
	}
	return fallback
}

/* =========================
   Versioned data migration
========================= */

// EnsureGradesScaleApplied brings stored grade values in line with the
// configured grades.scale. The grades.scale_applied marker records what
// scale the data is in; when it differs from the setting, every value
// is converted and the marker is advanced inside one transaction. A
// missing marker is inferred from the data (any value above 5.5 means
// the rows are 0-100). Returns the scale values are stored in after
// the call. Runs before every grade read/write path.
func EnsureGradesScaleApplied(db *gorm.DB) (string, error) {
	vals, err := settingssvc.GetValues(db,
		constants.SettingGradesScale, constants.SettingGradesScaleApplied)
	if err != nil {
		return constants.GradeScaleFive, err
	}
	current := normalizeScale(vals[constants.SettingGradesScale], constants.GradeScaleFive)

	appliedRaw, hasMarker := vals[constants.SettingGradesScaleApplied]
	if !hasMarker {
		// First run ever: look at the data, soft-deleted rows included,
		// since a restore would bring their values back.
		var maxVal sql.NullFloat64
		if err := db.Model(&model.GradeModel{}).Unscoped().
			Select("MAX(value)").
			Scan(&maxVal).Error; err != nil {
			return current, err
		}
		applied := constants.GradeScaleFive
		if maxVal.Valid && maxVal.Float64 > 5.5 {
			applied = constants.GradeScaleHundred
		}
		return current, db.Transaction(func(tx *gorm.DB) error {
			if applied != current {
				if err := convertStoredGrades(tx, applied, current); err != nil {
					return err
				}
			}
			return settingssvc.Set(tx, constants.SettingGradesScaleApplied, current)
		})
	}

	applied := normalizeScale(appliedRaw, current)
	if applied == current {
		return current, nil
	}
	return current, db.Transaction(func(tx *gorm.DB) error {
		if err := convertStoredGrades(tx, applied, current); err != nil {
			return err
		}
		return settingssvc.Set(tx, constants.SettingGradesScaleApplied, current)
	})
}

func convertStoredGrades(tx *gorm.DB, from, to string) error {
	f := conversionFactor(from, to)
	if f == 1 {
		return nil
	}
	return tx.Exec(
		"UPDATE grades SET value = ROUND((value * ?::numeric), 2) WHERE value IS NOT NULL",
		f,
	).Error
}
