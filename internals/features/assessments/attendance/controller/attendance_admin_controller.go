package controller

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	lessonmodel "studioku_backend/internals/features/academics/lessons/model"
	"studioku_backend/internals/features/assessments/attendance/dto"
	"studioku_backend/internals/features/assessments/attendance/model"
	"studioku_backend/internals/features/assessments/attendance/service"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

var validate = validator.New()

// AttendanceAdminController serves the admin attendance screens: the
// full per-group grid, per-lesson save/read and the group summary.
type AttendanceAdminController struct {
	DB *gorm.DB
}

func NewAttendanceAdminController(db *gorm.DB) *AttendanceAdminController {
	return &AttendanceAdminController{DB: db}
}

/* =========================
   Shared core
========================= */

// invalidStatus finds the first entry carrying an unknown code; the
// whole batch is rejected when one exists.
func invalidStatus(entries []dto.AttendanceEntry) (string, bool) {
	for _, e := range entries {
		if !model.ValidStatus(e.Status) {
			return e.Status, true
		}
	}
	return "", false
}

// saveAttendance replaces the lesson's attendance set in one
// transaction.
func saveAttendance(db *gorm.DB, lessonID uuid.UUID, entries []dto.AttendanceEntry) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lessonID).
			Delete(&model.AttendanceRecordModel{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		now := time.Now()
		records := make([]model.AttendanceRecordModel, 0, len(entries))
		for _, e := range entries {
			records = append(records, model.AttendanceRecordModel{
				LessonID:   lessonID,
				StudentID:  e.StudentID,
				Status:     e.Status,
				Attended:   model.StatusAttended(e.Status),
				RecordedAt: now,
			})
		}
		return tx.Create(&records).Error
	})
}

type rosterRow struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Status     *string
	RecordedAt *time.Time
}

// lessonRoster lists the group's non-trial members with their mark for
// one lesson, ordered by name.
func lessonRoster(db *gorm.DB, groupID, lessonID uuid.UUID) ([]fiber.Map, error) {
	var rows []rosterRow
	if err := db.Raw(`
		SELECT s.id, u.name, u.email, ar.status, ar.recorded_at
		FROM group_students gs
		JOIN students s ON s.id = gs.student_id
		JOIN users u ON u.id = s.user_id
		LEFT JOIN attendance_records ar ON ar.student_id = s.id AND ar.lesson_id = ?
		WHERE gs.group_id = ? AND gs.is_trial = FALSE
		ORDER BY u.name`, lessonID, groupID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	students := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		students = append(students, fiber.Map{
			"id":          r.ID,
			"name":        r.Name,
			"email":       r.Email,
			"status":      r.Status,
			"recorded_at": r.RecordedAt,
		})
	}
	return students, nil
}

type summaryRow struct {
	ID           uuid.UUID
	Name         string
	Email        string
	LessonsTotal int
	PresentCount int
	ExcusedCount int
	LateCount    int
	AbsentCount  int
}

// groupSummary aggregates per-student status counts and the attendance
// percentage for a group.
func groupSummary(db *gorm.DB, groupID uuid.UUID) ([]fiber.Map, error) {
	var rows []summaryRow
	if err := db.Raw(`
		SELECT
		    s.id, u.name, u.email,
		    COUNT(ar.id) AS lessons_total,
		    COUNT(CASE WHEN ar.status = 'P' THEN 1 END) AS present_count,
		    COUNT(CASE WHEN ar.status = 'E' THEN 1 END) AS excused_count,
		    COUNT(CASE WHEN ar.status = 'L' THEN 1 END) AS late_count,
		    COUNT(CASE WHEN ar.status = 'A' THEN 1 END) AS absent_count
		FROM group_students gs
		JOIN students s ON s.id = gs.student_id
		JOIN users u ON u.id = s.user_id
		LEFT JOIN lessons l ON l.group_id = gs.group_id
		LEFT JOIN attendance_records ar ON ar.lesson_id = l.id AND ar.student_id = s.id
		WHERE gs.group_id = ?
		GROUP BY s.id, u.name, u.email
		ORDER BY u.name`, groupID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	students := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		points := r.PresentCount*2 + r.ExcusedCount*2 + r.LateCount
		students = append(students, fiber.Map{
			"id":                    r.ID,
			"name":                  r.Name,
			"email":                 r.Email,
			"lessons_total":         r.LessonsTotal,
			"present_count":         r.PresentCount,
			"excused_count":         r.ExcusedCount,
			"late_count":            r.LateCount,
			"absent_count":          r.AbsentCount,
			"attendance_percentage": service.Percentage(points, r.LessonsTotal),
		})
	}
	return students, nil
}

/* =========================
   Admin handlers
========================= */

type gridLessonRow struct {
	ID              uuid.UUID
	ClassName       string
	StartTime       time.Time
	DurationMinutes *int
	TeacherName     *string
	IsRescheduled   bool
}

type gridMarkRow struct {
	LessonID  uuid.UUID
	StudentID uuid.UUID
	Status    string
}

type gridRescheduleRow struct {
	LessonID     uuid.UUID
	Status       string
	NewStartTime time.Time
}

// GetGroupLessonsAttendance returns the group's lessons oldest-first,
// each with the full member roster and its marks, plus the latest
// reschedule request per lesson.
func (ctl *AttendanceAdminController) GetGroupLessonsAttendance(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	var groupName string
	q := db.Table("groups").Select("name").Where("id = ?", groupID).Limit(1).Scan(&groupName)
	if q.Error != nil {
		return helper.WritePGError(c, q.Error)
	}
	if q.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	var lessons []gridLessonRow
	if err := db.Raw(`
		SELECT l.id, l.class_name, l.start_time, l.duration_minutes,
		       u.name AS teacher_name, l.is_rescheduled
		FROM lessons l
		LEFT JOIN teachers t ON t.id = l.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE l.group_id = ?
		ORDER BY l.start_time ASC`, groupID).Scan(&lessons).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var members []rosterRow
	if err := db.Raw(`
		SELECT s.id, u.name, u.email
		FROM group_students gs
		JOIN students s ON s.id = gs.student_id
		JOIN users u ON u.id = s.user_id
		WHERE gs.group_id = ?
		ORDER BY u.name`, groupID).Scan(&members).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var marks []gridMarkRow
	if err := db.Raw(`
		SELECT ar.lesson_id, ar.student_id, ar.status
		FROM attendance_records ar
		WHERE ar.lesson_id IN (SELECT id FROM lessons WHERE group_id = ?)`,
		groupID).Scan(&marks).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	type markKey struct{ lesson, student uuid.UUID }
	statusByKey := make(map[markKey]string, len(marks))
	markedLessons := make(map[uuid.UUID]bool)
	for _, m := range marks {
		statusByKey[markKey{m.LessonID, m.StudentID}] = m.Status
		markedLessons[m.LessonID] = true
	}

	var reschedules []gridRescheduleRow
	if err := db.Raw(`
		SELECT DISTINCT ON (lesson_id) lesson_id, status, new_start_time
		FROM reschedule_requests
		WHERE lesson_id IN (SELECT id FROM lessons WHERE group_id = ?)
		ORDER BY lesson_id, created_at DESC`, groupID).Scan(&reschedules).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	rescheduleByLesson := make(map[uuid.UUID]gridRescheduleRow, len(reschedules))
	for _, r := range reschedules {
		rescheduleByLesson[r.LessonID] = r
	}

	out := make([]fiber.Map, 0, len(lessons))
	for _, l := range lessons {
		students := make([]fiber.Map, 0, len(members))
		for _, m := range members {
			var status *string
			if s, ok := statusByKey[markKey{l.ID, m.ID}]; ok {
				status = &s
			}
			students = append(students, fiber.Map{
				"id":     m.ID,
				"name":   m.Name,
				"email":  m.Email,
				"status": status,
			})
		}
		entry := fiber.Map{
			"id":                  l.ID,
			"class_name":          l.ClassName,
			"start_time":          l.StartTime,
			"duration_minutes":    l.DurationMinutes,
			"teacher_name":        l.TeacherName,
			"students":            students,
			"attendance_marked":   markedLessons[l.ID],
			"is_rescheduled":      l.IsRescheduled,
			"reschedule_status":   nil,
			"reschedule_new_date": nil,
			"reschedule_new_time": nil,
		}
		if r, ok := rescheduleByLesson[l.ID]; ok {
			local := dbtime.ToStudio(r.NewStartTime)
			entry["reschedule_status"] = r.Status
			entry["reschedule_new_date"] = local.Format("2006-01-02")
			entry["reschedule_new_time"] = local.Format("15:04")
		}
		out = append(out, entry)
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"group_name": groupName,
		"lessons":    out,
	})
}

// SaveLessonAttendance stores the marks for one of the group's lessons.
func (ctl *AttendanceAdminController) SaveLessonAttendance(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return err
	}
	var req dto.SaveAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	db := ctl.DB.WithContext(c.Context())

	var lesson lessonmodel.LessonModel
	if err := db.Take(&lesson, "id = ? AND group_id = ?", lessonID, groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
		}
		return helper.WritePGError(c, err)
	}
	if s, bad := invalidStatus(req.Attendance); bad {
		return helper.JsonError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid status: %s", s))
	}
	if err := saveAttendance(db, lessonID, req.Attendance); err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Attendance saved successfully", nil)
}

// GetLessonAttendance returns the non-trial roster with marks for one
// of the group's lessons.
func (ctl *AttendanceAdminController) GetLessonAttendance(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	var lesson lessonmodel.LessonModel
	if err := db.Take(&lesson, "id = ? AND group_id = ?", lessonID, groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
		}
		return helper.WritePGError(c, err)
	}
	students, err := lessonRoster(db, groupID, lessonID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"students": students})
}

// GetGroupSummary returns per-student status counts and percentages.
func (ctl *AttendanceAdminController) GetGroupSummary(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	students, err := groupSummary(ctl.DB.WithContext(c.Context()), groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"students": students})
}
