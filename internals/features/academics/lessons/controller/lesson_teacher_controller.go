package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	hallmodel "studioku_backend/internals/features/studio/halls/model"
	teachersvc "studioku_backend/internals/features/studio/teachers/service"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

// LessonTeacherController serves the teacher-facing schedule views:
// the weekly grid, hall occupancy, and per-group lesson history.
type LessonTeacherController struct {
	DB *gorm.DB
}

func NewLessonTeacherController(db *gorm.DB) *LessonTeacherController {
	return &LessonTeacherController{DB: db}
}

type weekLessonRow struct {
	LessonID        uuid.UUID
	GroupID         uuid.UUID
	GroupName       string
	ClassName       string
	StartTime       time.Time
	DurationMinutes *int
	HallID          *uuid.UUID
	HallName        *string
	IsCancelled     bool
	IsRescheduled   bool
}

// GetWeeklySchedule returns the teacher's lessons for one Monday-based
// week. ?start= picks the week containing that date; default is the
// current week. Substitute assignments count as the teacher's lessons.
func (ctl *LessonTeacherController) GetWeeklySchedule(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	teacherID, err := teachersvc.ResolveTeacherID(db, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if teacherID == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher profile not found")
	}

	var anchor time.Time
	if q := c.Query("start"); q != "" {
		anchor, err = dbtime.ParseDate(q)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		}
	} else {
		now := dbtime.NowInStudio()
		anchor = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	weekStart := dbtime.WeekStart(anchor)

	loc := dbtime.StudioLocation()
	windowStart := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, loc).UTC()
	windowEnd := windowStart.AddDate(0, 0, 7)

	var rows []weekLessonRow
	if err := db.Raw(`
		SELECT l.id AS lesson_id, l.group_id, g.name AS group_name, l.class_name,
		       l.start_time, l.duration_minutes, l.hall_id, h.name AS hall_name,
		       l.is_cancelled, l.is_rescheduled
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		LEFT JOIN halls h ON h.id = l.hall_id
		WHERE l.start_time >= ? AND l.start_time < ?
		  AND (l.teacher_id = ? OR l.substitute_teacher_id = ?
		       OR EXISTS (
		           SELECT 1 FROM group_teachers gt
		           WHERE gt.group_id = l.group_id AND gt.teacher_id = ?
		       ))
		ORDER BY l.start_time`,
		windowStart, windowEnd, teacherID, teacherID, teacherID).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	entries := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		local := dbtime.ToStudio(r.StartTime)
		duration := durationOr60(r.DurationMinutes)
		hall := "Не указан"
		if r.HallName != nil && *r.HallName != "" {
			hall = *r.HallName
		}
		var status *string
		switch {
		case r.IsCancelled:
			s := "Отменено"
			status = &s
		case r.IsRescheduled:
			s := "Перенесено"
			status = &s
		}
		entries = append(entries, fiber.Map{
			"lesson_id":        r.LessonID,
			"group_id":         r.GroupID,
			"group_name":       r.GroupName,
			"class_name":       r.ClassName,
			"day_index":        (int(local.Weekday()) + 6) % 7,
			"date":             local.Format("2006-01-02"),
			"start_time":       local.Format("15:04"),
			"end_time":         dbtime.FormatClock(r.StartTime.Add(time.Duration(duration) * time.Minute)),
			"duration_minutes": duration,
			"hall_id":          r.HallID,
			"hall_name":        hall,
			"is_cancelled":     r.IsCancelled,
			"is_rescheduled":   r.IsRescheduled,
			"status":           status,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"week_start": dbtime.FormatDate(weekStart),
		"week_end":   dbtime.FormatDate(weekStart.AddDate(0, 0, 6)),
		"entries":    entries,
	})
}

// GetHallsOccupancy returns an hour-by-hour busy grid for every hall on
// one day (?date=, default today). Cancelled lessons do not occupy.
func (ctl *LessonTeacherController) GetHallsOccupancy(c *fiber.Ctx) error {
	var day time.Time
	if q := c.Query("date"); q != "" {
		var err error
		day, err = dbtime.ParseDate(q)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		}
	} else {
		now := dbtime.NowInStudio()
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	loc := dbtime.StudioLocation()
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	db := ctl.DB.WithContext(c.Context())

	var halls []hallmodel.HallModel
	if err := db.Order("name").Find(&halls).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []struct {
		HallID          uuid.UUID
		StartTime       time.Time
		DurationMinutes *int
	}
	if err := db.Raw(`
		SELECT l.hall_id, l.start_time, l.duration_minutes
		FROM lessons l
		WHERE l.hall_id IS NOT NULL
		  AND l.is_cancelled = FALSE
		  AND l.start_time >= ? AND l.start_time < ?`,
		dayStart.UTC(), dayEnd.UTC()).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	// Working hours of the studio, 08:00 through 21:00 slot starts.
	hours := make([]int, 0, 14)
	for h := 8; h <= 21; h++ {
		hours = append(hours, h)
	}

	occupied := make(map[uuid.UUID][]bool, len(halls))
	for _, h := range halls {
		occupied[h.ID] = make([]bool, len(hours))
	}
	for _, l := range rows {
		slots, ok := occupied[l.HallID]
		if !ok {
			continue
		}
		end := l.StartTime.Add(time.Duration(durationOr60(l.DurationMinutes)) * time.Minute)
		for i, hr := range hours {
			slotStart := time.Date(day.Year(), day.Month(), day.Day(), hr, 0, 0, 0, loc)
			slotEnd := slotStart.Add(time.Hour)
			if l.StartTime.Before(slotEnd) && end.After(slotStart) {
				slots[i] = true
			}
		}
	}

	hallGrids := make([]fiber.Map, 0, len(halls))
	for _, h := range halls {
		hallGrids = append(hallGrids, fiber.Map{
			"id":       h.ID,
			"name":     h.Name,
			"occupied": occupied[h.ID],
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"date":  day.Format("2006-01-02"),
		"hours": hours,
		"halls": hallGrids,
	})
}

type groupLessonRow struct {
	ID                 uuid.UUID
	ClassName          string
	StartTime          time.Time
	DurationMinutes    *int
	IsCancelled        bool
	IsRescheduled      bool
	HallName           *string
	AttendanceMarked   bool
	RescheduleStatus   *string
	RescheduleNewStart *time.Time
}

// GetGroupLessons returns the group's 20 most recent lessons with the
// attendance flag and the latest reschedule request, newest first.
func (ctl *LessonTeacherController) GetGroupLessons(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	teacherID, err := teachersvc.ResolveTeacherID(db, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if teacherID == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher profile not found")
	}
	assigned, err := teachersvc.AssignedToGroup(db, *teacherID, groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if !assigned {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this group")
	}

	var rows []groupLessonRow
	if err := db.Raw(`
		SELECT l.id, l.class_name, l.start_time, l.duration_minutes,
		       l.is_cancelled, l.is_rescheduled,
		       h.name AS hall_name,
		       EXISTS (
		           SELECT 1 FROM attendance_records ar WHERE ar.lesson_id = l.id
		       ) AS attendance_marked,
		       rr.status AS reschedule_status,
		       rr.new_start_time AS reschedule_new_start
		FROM lessons l
		LEFT JOIN halls h ON h.id = l.hall_id
		LEFT JOIN LATERAL (
		    SELECT status, new_start_time
		    FROM reschedule_requests
		    WHERE lesson_id = l.id
		    ORDER BY created_at DESC
		    LIMIT 1
		) rr ON TRUE
		WHERE l.group_id = ?
		ORDER BY l.start_time DESC
		LIMIT 20`, groupID).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	lessons := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		local := dbtime.ToStudio(r.StartTime)
		hall := "Не указан"
		if r.HallName != nil && *r.HallName != "" {
			hall = *r.HallName
		}
		entry := fiber.Map{
			"id":                  r.ID,
			"class_name":          r.ClassName,
			"lesson_date":         local.Format("2006-01-02"),
			"start_time":          local.Format("15:04"),
			"duration_minutes":    durationOr60(r.DurationMinutes),
			"hall_name":           hall,
			"is_cancelled":        r.IsCancelled,
			"is_rescheduled":      r.IsRescheduled,
			"attendance_marked":   r.AttendanceMarked,
			"reschedule_status":   r.RescheduleStatus,
			"reschedule_new_date": nil,
			"reschedule_new_time": nil,
		}
		if r.RescheduleNewStart != nil {
			newLocal := dbtime.ToStudio(*r.RescheduleNewStart)
			entry["reschedule_new_date"] = newLocal.Format("2006-01-02")
			entry["reschedule_new_time"] = newLocal.Format("15:04")
		}
		lessons = append(lessons, entry)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"lessons": lessons})
}
