package service

import (
	"sort"
	"strings"
	"time"

	lessonmodel "studioku_backend/internals/features/academics/lessons/model"
	"studioku_backend/internals/features/academics/schedules/model"

	"studioku_backend/internals/constants"
	"studioku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleNotSet is shown when a group has no derived schedule.
const ScheduleNotSet = "Не назначено"

/* =========================
   Sync derivation
========================= */

type patternKey struct {
	dow   int
	clock string // "HH:MM", studio wall time
}

// SyncGroupSchedules rebuilds a group's weekly pattern from its actual
// lessons: delete everything, re-insert one row per distinct
// (weekday, start clock). Must run inside the same transaction as the
// lesson mutation that made the patterns stale.
func SyncGroupSchedules(tx *gorm.DB, groupID uuid.UUID) error {
	var starts []time.Time
	if err := tx.Model(&lessonmodel.LessonModel{}).
		Where("group_id = ?", groupID).
		Pluck("start_time", &starts).Error; err != nil {
		return err
	}

	if err := tx.Where("group_id = ?", groupID).
		Delete(&model.GroupScheduleModel{}).Error; err != nil {
		return err
	}
	if len(starts) == 0 {
		return nil
	}

	seen := make(map[patternKey]bool, 8)
	keys := make([]patternKey, 0, 8)
	for _, st := range starts {
		local := dbtime.ToStudio(st)
		k := patternKey{dow: int(local.Weekday()), clock: local.Format("15:04")}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dow != keys[j].dow {
			return keys[i].dow < keys[j].dow
		}
		return keys[i].clock < keys[j].clock
	})

	// One row per weekday: a second time on the same day overwrites the
	// first, same as the original derivation.
	for _, k := range keys {
		tod, err := dbtime.Parse(k.clock)
		if err != nil {
			continue
		}
		row := model.GroupScheduleModel{
			GroupID:   groupID,
			DayOfWeek: k.dow,
			StartTime: tod,
			IsActive:  true,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "group_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"start_time": tod,
				"is_active":  true,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

/* =========================
   Pattern replacement
========================= */

// PatternInput is one admin-provided weekly slot.
type PatternInput struct {
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required"`
}

// ReplacePatterns swaps a group's pattern set for the given one. Blank
// or unparseable times are skipped, matching the original save path.
func ReplacePatterns(tx *gorm.DB, groupID uuid.UUID, patterns []PatternInput) error {
	if err := tx.Where("group_id = ?", groupID).
		Delete(&model.GroupScheduleModel{}).Error; err != nil {
		return err
	}
	for _, p := range patterns {
		if p.DayOfWeek < 0 || p.DayOfWeek > 6 {
			continue
		}
		raw := strings.TrimSpace(p.StartTime)
		if raw == "" {
			continue
		}
		tod, err := dbtime.Parse(raw)
		if err != nil {
			continue
		}
		row := model.GroupScheduleModel{
			GroupID:   groupID,
			DayOfWeek: p.DayOfWeek,
			StartTime: tod,
			IsActive:  true,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "group_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"start_time": tod,
				"is_active":  true,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

/* =========================
   Formatted view
========================= */

// FormatPatterns renders active patterns as "Пн 10:00, Ср 18:30". An
// empty set renders as "Не назначено".
func FormatPatterns(patterns []model.GroupScheduleModel) string {
	if len(patterns) == 0 {
		return ScheduleNotSet
	}
	byDay := make(map[int][]string, 7)
	for _, p := range patterns {
		if !p.IsActive {
			continue
		}
		clock := p.StartTime.Clock()
		dup := false
		for _, c := range byDay[p.DayOfWeek] {
			if c == clock {
				dup = true
				break
			}
		}
		if !dup {
			byDay[p.DayOfWeek] = append(byDay[p.DayOfWeek], clock)
		}
	}
	parts := make([]string, 0, len(byDay))
	for dow := 0; dow < 7; dow++ {
		times, ok := byDay[dow]
		if !ok || len(times) == 0 {
			continue
		}
		sort.Strings(times)
		parts = append(parts, constants.DayNameShort(dow)+" "+strings.Join(times, ", "))
	}
	if len(parts) == 0 {
		return ScheduleNotSet
	}
	return strings.Join(parts, ", ")
}

// FormattedSchedule is the per-group string used by group cards. A
// group with zero lessons reads as not assigned even when pattern rows
// linger.
func FormattedSchedule(db *gorm.DB, groupID uuid.UUID) (string, error) {
	var lessonCount int64
	if err := db.Model(&lessonmodel.LessonModel{}).
		Where("group_id = ?", groupID).
		Count(&lessonCount).Error; err != nil {
		return "", err
	}
	if lessonCount == 0 {
		return ScheduleNotSet, nil
	}
	var patterns []model.GroupScheduleModel
	if err := db.Where("group_id = ? AND is_active = TRUE", groupID).
		Order("day_of_week, start_time").
		Find(&patterns).Error; err != nil {
		return "", err
	}
	return FormatPatterns(patterns), nil
}

// FormattedScheduleMap resolves schedule strings for many groups in two
// queries; used by list endpoints.
func FormattedScheduleMap(db *gorm.DB, groupIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(groupIDs))
	for _, id := range groupIDs {
		out[id] = ScheduleNotSet
	}
	if len(groupIDs) == 0 {
		return out, nil
	}

	var counted []struct {
		GroupID uuid.UUID
		N       int64
	}
	if err := db.Model(&lessonmodel.LessonModel{}).
		Select("group_id, COUNT(*) AS n").
		Where("group_id IN ?", groupIDs).
		Group("group_id").
		Scan(&counted).Error; err != nil {
		return nil, err
	}
	withLessons := make(map[uuid.UUID]bool, len(counted))
	for _, c := range counted {
		if c.N > 0 {
			withLessons[c.GroupID] = true
		}
	}

	var patterns []model.GroupScheduleModel
	if err := db.Where("group_id IN ? AND is_active = TRUE", groupIDs).
		Order("day_of_week, start_time").
		Find(&patterns).Error; err != nil {
		return nil, err
	}
	byGroup := make(map[uuid.UUID][]model.GroupScheduleModel, len(groupIDs))
	for _, p := range patterns {
		byGroup[p.GroupID] = append(byGroup[p.GroupID], p)
	}
	for gid, ps := range byGroup {
		if withLessons[gid] {
			out[gid] = FormatPatterns(ps)
		}
	}
	return out, nil
}
