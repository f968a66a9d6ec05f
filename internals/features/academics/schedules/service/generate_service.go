package service

import (
	"fmt"
	"time"

	lessonmodel "studioku_backend/internals/features/academics/lessons/model"
	lessonservice "studioku_backend/internals/features/academics/lessons/service"
	"studioku_backend/internals/features/academics/schedules/model"
	groupmodel "studioku_backend/internals/features/studio/groups/model"
	"studioku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* =========================
   Generator + Options
========================= */

const (
	PeriodicityWeekly   = "weekly"
	PeriodicityBiweekly = "biweekly"
	PeriodicityMonthly  = "monthly"

	// Hard instance caps per call.
	MaxGeneratedGeneral     = 100
	MaxGeneratedAddSchedule = 20

	defaultWeeksAhead = 4
)

// GenerateOptions controls one generation run.
type GenerateOptions struct {
	// Periodicity between instances of one pattern: weekly (default),
	// biweekly, monthly (calendar month, day clamped).
	Periodicity string

	// WeeksAhead bounds the horizon when the group has no
	// recurring_until. Default 4.
	WeeksAhead int

	// MaxInstances caps rows created in this call. Callers pass
	// MaxGeneratedGeneral or MaxGeneratedAddSchedule.
	MaxInstances int

	// OnlyDayOfWeek restricts generation to one pattern's weekday;
	// the add-schedule path sets it to the day just added.
	OnlyDayOfWeek *int
}

// GenerateResult reports what one run did.
type GenerateResult struct {
	Created   int         `json:"created"`
	Skipped   int         `json:"skipped"`   // exact slot already existed
	Conflicts []time.Time `json:"conflicts"` // rejected: overlaps a different lesson
}

/* =========================
   Generation
========================= */

// GenerateLessons expands a group's active patterns into concrete
// lesson rows. Idempotent: a lesson already sitting at the exact
// (group, start_time) slot is skipped; a candidate overlapping a
// different lesson of the group is rejected and reported. Runs the
// pattern sync afterwards so derived schedules match the new rows.
// Must be called inside a transaction.
func GenerateLessons(tx *gorm.DB, groupID uuid.UUID, opts GenerateOptions) (GenerateResult, error) {
	res := GenerateResult{}

	if opts.Periodicity == "" {
		opts.Periodicity = PeriodicityWeekly
	}
	switch opts.Periodicity {
	case PeriodicityWeekly, PeriodicityBiweekly, PeriodicityMonthly:
	default:
		return res, fmt.Errorf("generate: unknown periodicity %q", opts.Periodicity)
	}
	if opts.WeeksAhead <= 0 {
		opts.WeeksAhead = defaultWeeksAhead
	}
	if opts.MaxInstances <= 0 {
		opts.MaxInstances = MaxGeneratedGeneral
	}

	// 1) Group
	var group groupmodel.GroupModel
	if err := tx.Where("id = ?", groupID).Take(&group).Error; err != nil {
		return res, err
	}

	// 2) Active patterns
	pq := tx.Where("group_id = ? AND is_active = TRUE", groupID)
	if opts.OnlyDayOfWeek != nil {
		pq = pq.Where("day_of_week = ?", *opts.OnlyDayOfWeek)
	}
	var patterns []model.GroupScheduleModel
	if err := pq.Order("day_of_week, start_time").Find(&patterns).Error; err != nil {
		return res, err
	}
	if len(patterns) == 0 {
		return res, nil
	}

	// 3) Window: anchor = max(today, group.start_date); horizon =
	// recurring_until inclusive, else weeks_ahead from the anchor.
	loc := dbtime.StudioLocation()
	anchor := dateOnly(time.Now().In(loc))
	if group.StartDate != nil {
		if sd := dateOnly(group.StartDate.In(loc)); sd.After(anchor) {
			anchor = sd
		}
	}
	var horizon time.Time
	if group.RecurringUntil != nil {
		horizon = dateOnly(group.RecurringUntil.In(loc))
	} else {
		horizon = anchor.AddDate(0, 0, opts.WeeksAhead*7)
	}
	if horizon.Before(anchor) {
		return res, nil
	}

	// 4) Existing lessons, once, for the duplicate and overlap checks.
	var existing []lessonmodel.LessonModel
	if err := tx.Select("id, start_time, duration_minutes").
		Where("group_id = ?", groupID).
		Find(&existing).Error; err != nil {
		return res, err
	}
	occupied := make(map[int64]bool, len(existing))
	for _, l := range existing {
		occupied[l.StartTime.UTC().Unix()] = true
	}

	teacherID := mainTeacherID(tx, &group)
	duration := group.DurationMinutes
	if duration <= 0 {
		duration = 60
	}
	className := fmt.Sprintf("Занятие %s", group.Name)

	// 5) Expand each pattern from its first matching date.
	for _, p := range patterns {
		for _, day := range planSlots(anchor, horizon, p.DayOfWeek, opts.Periodicity) {
			if res.Created >= opts.MaxInstances {
				break
			}
			startUTC := combineInLoc(day, p.StartTime, loc).UTC()

			switch {
			case occupied[startUTC.Unix()]:
				res.Skipped++
			case overlapsAny(existing, startUTC, duration):
				res.Conflicts = append(res.Conflicts, startUTC)
			default:
				row := lessonmodel.LessonModel{
					GroupID:         groupID,
					ClassName:       className,
					TeacherID:       teacherID,
					HallID:          group.HallID,
					StartTime:       startUTC,
					DurationMinutes: &duration,
				}
				ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
				if ins.Error != nil {
					return res, ins.Error
				}
				if ins.RowsAffected == 0 {
					// Raced with a concurrent insert of the same slot.
					res.Skipped++
				} else {
					res.Created++
					existing = append(existing, row)
					occupied[startUTC.Unix()] = true
				}
			}
		}
	}

	// 6) Derived patterns follow the lesson set.
	if err := SyncGroupSchedules(tx, groupID); err != nil {
		return res, err
	}
	return res, nil
}

/* =========================
   Date helpers
========================= */

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// firstOnOrAfter walks forward from anchor to the first date whose
// weekday equals dow (0=Sunday..6=Saturday).
func firstOnOrAfter(anchor time.Time, dow int) time.Time {
	d := anchor
	for int(d.Weekday()) != dow {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// planSlots lists candidate dates for one pattern: the first matching
// date on or after anchor, then one periodicity step at a time, up to
// and including horizon. The 1000 ceiling only guards against absurd
// horizons.
func planSlots(anchor, horizon time.Time, dow int, periodicity string) []time.Time {
	var out []time.Time
	cur := firstOnOrAfter(anchor, dow)
	for !cur.After(horizon) && len(out) < 1000 {
		out = append(out, cur)
		cur = nextDate(cur, periodicity)
	}
	return out
}

// nextDate advances one periodicity step. Monthly steps keep the day
// of month (clamped), so the weekday is allowed to drift.
func nextDate(cur time.Time, periodicity string) time.Time {
	switch periodicity {
	case PeriodicityBiweekly:
		return cur.AddDate(0, 0, 14)
	case PeriodicityMonthly:
		return dbtime.AddMonths(cur, 1)
	default:
		return cur.AddDate(0, 0, 7)
	}
}

func combineInLoc(date time.Time, tod dbtime.Tod, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), 0, 0, loc)
}

func overlapsAny(existing []lessonmodel.LessonModel, start time.Time, durationMin int) bool {
	for i := range existing {
		l := &existing[i]
		if l.StartTime.UTC().Equal(start) {
			continue
		}
		if lessonservice.Overlaps(start, durationMin, l.StartTime.UTC(), l.EffectiveDuration()) {
			return true
		}
	}
	return false
}

// mainTeacherID resolves the group's lead teacher: the is_main row in
// group_teachers, falling back to groups.teacher_id.
func mainTeacherID(tx *gorm.DB, group *groupmodel.GroupModel) *uuid.UUID {
	var id uuid.UUID
	err := tx.Table("group_teachers").
		Select("teacher_id").
		Where("group_id = ? AND is_main = TRUE", group.ID).
		Limit(1).
		Scan(&id).Error
	if err == nil && id != uuid.Nil {
		return &id
	}
	return group.TeacherID
}
