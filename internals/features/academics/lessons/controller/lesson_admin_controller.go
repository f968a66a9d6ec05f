package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studioku_backend/internals/constants"
	"studioku_backend/internals/features/academics/lessons/dto"
	"studioku_backend/internals/features/academics/lessons/model"
	"studioku_backend/internals/features/academics/lessons/service"
	schedulesvc "studioku_backend/internals/features/academics/schedules/service"
	attendancemodel "studioku_backend/internals/features/assessments/attendance/model"
	grademodel "studioku_backend/internals/features/assessments/grades/model"
	groupmodel "studioku_backend/internals/features/studio/groups/model"
	notifysvc "studioku_backend/internals/features/system/notifications/service"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

var validate = validator.New()

func durationOr60(d *int) int {
	if d != nil && *d > 0 {
		return *d
	}
	return 60
}

func strOr(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}

// LessonAdminController manages concrete lesson instances under /api/a.
type LessonAdminController struct {
	DB *gorm.DB
}

func NewLessonAdminController(db *gorm.DB) *LessonAdminController {
	return &LessonAdminController{DB: db}
}

/* =========================
   Listing
========================= */

type adminLessonRow struct {
	ID              uuid.UUID
	GroupID         uuid.UUID
	ClassName       string
	StartTime       time.Time
	DurationMinutes *int
	IsCancelled     bool
	IsRescheduled   bool
	GroupName       *string
	HallName        *string
	TeacherName     *string
}

// GetLessons lists every lesson with its group, hall and teacher names,
// newest first.
func (ctl *LessonAdminController) GetLessons(c *fiber.Ctx) error {
	var rows []adminLessonRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT
		    l.id, l.group_id, l.class_name, l.start_time, l.duration_minutes,
		    l.is_cancelled, l.is_rescheduled,
		    g.name AS group_name,
		    h.name AS hall_name,
		    u.name AS teacher_name
		FROM lessons l
		LEFT JOIN groups g ON g.id = l.group_id
		LEFT JOIN halls h ON h.id = l.hall_id
		LEFT JOIN teachers t ON t.id = l.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		ORDER BY l.start_time DESC`).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	lessons := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		lessons = append(lessons, fiber.Map{
			"id":               r.ID,
			"group_id":         r.GroupID,
			"group_name":       r.GroupName,
			"class_name":       r.ClassName,
			"start_time":       r.StartTime,
			"duration_minutes": r.DurationMinutes,
			"is_cancelled":     r.IsCancelled,
			"is_rescheduled":   r.IsRescheduled,
			"hall_name":        r.HallName,
			"teacher_name":     r.TeacherName,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"lessons": lessons})
}

/* =========================
   CRUD
========================= */

// CreateLesson inserts one lesson. Teacher and hall fall back to the
// group's; the new slot must not collide with another lesson of the
// same group.
func (ctl *LessonAdminController) CreateLesson(c *fiber.Ctx) error {
	var req dto.CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	start, err := dbtime.ParseDateTime(req.StartTime)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid datetime format. Use YYYY-MM-DD HH:MM")
	}
	db := ctl.DB.WithContext(c.Context())

	var group groupmodel.GroupModel
	if err := db.Take(&group, "id = ?", req.GroupID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	duration := group.DurationMinutes
	if req.DurationMinutes != nil && *req.DurationMinutes > 0 {
		duration = *req.DurationMinutes
	}
	if duration <= 0 {
		duration = 60
	}
	if conflict, err := service.FindConflict(db, group.ID, start, duration, nil); err != nil {
		return helper.WritePGError(c, err)
	} else if conflict != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, service.ConflictMessage(conflict))
	}

	className := req.ClassName
	if className == "" {
		className = fmt.Sprintf("Занятие %s", group.Name)
	}
	teacherID := req.TeacherID
	if teacherID == nil {
		teacherID = group.TeacherID
	}
	hallID := req.HallID
	if hallID == nil {
		hallID = group.HallID
	}

	lesson := model.LessonModel{
		GroupID:         group.ID,
		ClassName:       className,
		TeacherID:       teacherID,
		HallID:          hallID,
		StartTime:       start,
		DurationMinutes: &duration,
	}
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lesson).Error; err != nil {
			return err
		}
		return schedulesvc.SyncGroupSchedules(tx, group.ID)
	}); err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Lesson created", fiber.Map{"lesson_id": lesson.ID})
}

// UpdateLesson patches the provided fields. A start_time change is
// conflict-checked like a reschedule and re-syncs the derived patterns.
func (ctl *LessonAdminController) UpdateLesson(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	db := ctl.DB.WithContext(c.Context())

	var lesson model.LessonModel
	if err := db.Take(&lesson, "id = ?", lessonID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
	}

	updates := map[string]interface{}{}
	if req.ClassName != nil {
		updates["class_name"] = *req.ClassName
	}
	if req.TeacherID != nil {
		updates["teacher_id"] = *req.TeacherID
	}
	if req.HallID != nil {
		updates["hall_id"] = *req.HallID
	}
	var newStart *time.Time
	if req.StartTime != nil {
		t, err := dbtime.ParseDateTime(*req.StartTime)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid datetime format. Use YYYY-MM-DD HH:MM")
		}
		newStart = &t
		updates["start_time"] = t
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.IsCancelled != nil {
		updates["is_cancelled"] = *req.IsCancelled
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "No fields to update")
	}

	if newStart != nil {
		duration := lesson.EffectiveDuration()
		if req.DurationMinutes != nil && *req.DurationMinutes > 0 {
			duration = *req.DurationMinutes
		}
		if conflict, err := service.FindConflict(db, lesson.GroupID, *newStart, duration, &lesson.ID); err != nil {
			return helper.WritePGError(c, err)
		} else if conflict != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, service.ConflictMessage(conflict))
		}
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.LessonModel{}).Where("id = ?", lessonID).Updates(updates).Error; err != nil {
			return err
		}
		if newStart != nil {
			return schedulesvc.SyncGroupSchedules(tx, lesson.GroupID)
		}
		return nil
	}); err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "Lesson updated", nil)
}

// lessonNotifyRow carries what the notification texts need about one
// lesson: its group and the display names involved.
type lessonNotifyRow struct {
	LessonID        uuid.UUID
	GroupID         uuid.UUID
	StartTime       time.Time
	DurationMinutes *int
	GroupName       string
	TeacherUserID   *uuid.UUID
	TeacherName     *string
}

func (ctl *LessonAdminController) lessonContext(db *gorm.DB, lessonID uuid.UUID) (*lessonNotifyRow, error) {
	var row lessonNotifyRow
	res := db.Raw(`
		SELECT l.id AS lesson_id, l.group_id, l.start_time, l.duration_minutes,
		       g.name AS group_name,
		       tu.id AS teacher_user_id, tu.name AS teacher_name
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		LEFT JOIN teachers t ON t.id = l.teacher_id
		LEFT JOIN users tu ON tu.id = t.user_id
		WHERE l.id = ?`, lessonID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// DeleteLesson removes a lesson and everything hanging off it, then
// re-syncs the group's derived patterns and tells the teacher and the
// students.
func (ctl *LessonAdminController) DeleteLesson(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	row, err := ctl.lessonContext(db, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
		}
		return helper.WritePGError(c, err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&model.RescheduleRequestModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&attendancemodel.AttendanceRecordModel{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("lesson_id = ?", lessonID).Delete(&grademodel.GradeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", lessonID).Delete(&model.LessonModel{}).Error; err != nil {
			return err
		}
		return schedulesvc.SyncGroupSchedules(tx, row.GroupID)
	}); err != nil {
		return helper.WritePGError(c, err)
	}

	message := fmt.Sprintf("Занятие группы \"%s\" на %s было удалено из расписания",
		row.GroupName, dbtime.FormatDateTime(row.StartTime))
	if row.TeacherUserID != nil {
		notifysvc.Notify(db, *row.TeacherUserID, constants.NotifLessonCancelled,
			"Занятие удалено", message,
			&notifysvc.Options{GroupID: &row.GroupID, RelatedType: "lesson"})
	}
	notifysvc.NotifyGroupStudents(db, row.GroupID, constants.NotifLessonCancelled,
		"Занятие удалено", message,
		&notifysvc.Options{RelatedType: "lesson"})
	return helper.JsonDeleted(c, "Lesson deleted", nil)
}

/* =========================
   Scheduling actions
========================= */

// CancelLesson flags the lesson cancelled, keeping the row for history.
func (ctl *LessonAdminController) CancelLesson(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	row, err := ctl.lessonContext(db, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
		}
		return helper.WritePGError(c, err)
	}

	if err := db.Model(&model.LessonModel{}).
		Where("id = ?", lessonID).
		Update("is_cancelled", true).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	message := fmt.Sprintf("Занятие группы \"%s\" на %s было отменено",
		row.GroupName, dbtime.FormatDateTime(row.StartTime))
	opts := &notifysvc.Options{GroupID: &row.GroupID, RelatedID: &lessonID, RelatedType: "lesson"}
	if row.TeacherUserID != nil {
		notifysvc.Notify(db, *row.TeacherUserID, constants.NotifLessonCancelled,
			"Занятие отменено", message, opts)
	}
	notifysvc.NotifyGroupStudents(db, row.GroupID, constants.NotifLessonCancelled,
		"Занятие отменено", message,
		&notifysvc.Options{RelatedID: &lessonID, RelatedType: "lesson"})
	return helper.JsonUpdated(c, "Lesson cancelled", nil)
}

// RescheduleLesson moves a lesson to a new slot after the same-group
// conflict check, then re-syncs patterns and notifies everyone.
func (ctl *LessonAdminController) RescheduleLesson(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.RescheduleLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	newStart, err := dbtime.ParseDateTime(req.NewStartTime)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid datetime format. Use YYYY-MM-DD HH:MM")
	}
	db := ctl.DB.WithContext(c.Context())

	row, err := ctl.lessonContext(db, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Урок не найден")
		}
		return helper.WritePGError(c, err)
	}

	if conflict, err := service.FindConflict(db, row.GroupID, newStart, durationOr60(row.DurationMinutes), &lessonID); err != nil {
		return helper.WritePGError(c, err)
	} else if conflict != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, service.ConflictMessage(conflict))
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.LessonModel{}).
			Where("id = ?", lessonID).
			Updates(map[string]interface{}{
				"start_time":     newStart,
				"is_rescheduled": true,
			}).Error; err != nil {
			return err
		}
		return schedulesvc.SyncGroupSchedules(tx, row.GroupID)
	}); err != nil {
		return helper.WritePGError(c, err)
	}

	message := fmt.Sprintf("Занятие группы '%s' перенесено с %s на %s",
		row.GroupName, dbtime.FormatDateTime(row.StartTime), dbtime.FormatDateTime(newStart))
	opts := &notifysvc.Options{GroupID: &row.GroupID, RelatedID: &lessonID, RelatedType: "lesson"}
	if row.TeacherUserID != nil {
		notifysvc.Notify(db, *row.TeacherUserID, constants.NotifLessonRescheduled,
			"Занятие перенесено", message, opts)
	}
	notifysvc.NotifyGroupStudents(db, row.GroupID, constants.NotifLessonRescheduled,
		"Занятие перенесено", message,
		&notifysvc.Options{RelatedID: &lessonID, RelatedType: "lesson"})
	return helper.JsonUpdated(c, "Lesson rescheduled", nil)
}

type substituteRow struct {
	GroupID       uuid.UUID
	StartTime     time.Time
	GroupName     string
	TeacherUserID *uuid.UUID
	TeacherName   *string
	SubUserID     *uuid.UUID
	SubName       *string
}

// SetSubstitute assigns a stand-in teacher for one lesson and notifies
// both teachers plus the group.
func (ctl *LessonAdminController) SetSubstitute(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SubstituteTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	db := ctl.DB.WithContext(c.Context())

	var row substituteRow
	res := db.Raw(`
		SELECT l.group_id, l.start_time,
		       g.name AS group_name,
		       tu.id AS teacher_user_id, tu.name AS teacher_name,
		       stu.id AS sub_user_id, stu.name AS sub_name
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		LEFT JOIN teachers t ON t.id = l.teacher_id
		LEFT JOIN users tu ON tu.id = t.user_id
		LEFT JOIN teachers st ON st.id = ?
		LEFT JOIN users stu ON stu.id = st.user_id
		WHERE l.id = ?`, req.SubstituteTeacherID, lessonID).Scan(&row)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
	}
	if row.SubUserID == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
	}

	if err := db.Model(&model.LessonModel{}).
		Where("id = ?", lessonID).
		Update("substitute_teacher_id", req.SubstituteTeacherID).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	when := dbtime.FormatDateTime(row.StartTime)
	opts := &notifysvc.Options{GroupID: &row.GroupID, RelatedID: &lessonID, RelatedType: "lesson"}
	if row.TeacherUserID != nil {
		notifysvc.Notify(db, *row.TeacherUserID, constants.NotifSystem,
			"Назначена замена",
			fmt.Sprintf("Ваше занятие в группе \"%s\" в %s, было передано учителю %s",
				row.GroupName, when, strOr(row.SubName)),
			opts)
	}
	notifysvc.Notify(db, *row.SubUserID, constants.NotifSystem,
		"Вы назначены на замену",
		fmt.Sprintf("Вам было передано занятие учителя %s в группе \"%s\" %s",
			strOr(row.TeacherName), row.GroupName, when),
		opts)
	notifysvc.NotifyGroupStudents(db, row.GroupID, constants.NotifSystem,
		"Замена преподавателя",
		fmt.Sprintf("На занятии группы '%s' (%s) будет замена: %s",
			row.GroupName, when, strOr(row.SubName)),
		&notifysvc.Options{RelatedID: &lessonID, RelatedType: "lesson"})
	return helper.JsonUpdated(c, "Substitute teacher assigned", nil)
}

/* =========================
   Bulk generation
========================= */

// GenerateInstances expands the active patterns of every open group
// into concrete lessons over the default horizon.
func (ctl *LessonAdminController) GenerateInstances(c *fiber.Ctx) error {
	db := ctl.DB.WithContext(c.Context())

	var groupIDs []uuid.UUID
	if err := db.Table("groups g").
		Distinct().
		Joins("JOIN group_schedules gs ON gs.group_id = g.id AND gs.is_active = TRUE").
		Where("g.is_closed = FALSE").
		Pluck("g.id", &groupIDs).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var created, skipped int
	if err := db.Transaction(func(tx *gorm.DB) error {
		for _, id := range groupIDs {
			res, err := schedulesvc.GenerateLessons(tx, id, schedulesvc.GenerateOptions{
				MaxInstances: schedulesvc.MaxGeneratedGeneral,
			})
			if err != nil {
				return err
			}
			created += res.Created
			skipped += res.Skipped
		}
		return nil
	}); err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, fmt.Sprintf("Generated %d lesson instances", created), fiber.Map{
		"created": created,
		"skipped": skipped,
	})
}

// CreateGroupLessons creates a single slot or a recurring series for a
// group. Slots colliding with existing lessons are skipped in series
// mode and rejected in single mode.
func (ctl *LessonAdminController) CreateGroupLessons(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateGroupLessonsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	lessonDate, err := dbtime.ParseDate(req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
	}
	startTod, err := dbtime.Parse(req.StartTime)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid time format. Use HH:MM")
	}
	endTod, err := dbtime.Parse(req.EndTime)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid time format. Use HH:MM")
	}
	startMin := startTod.Hour()*60 + startTod.Minute()
	endMin := endTod.Hour()*60 + endTod.Minute()
	if startMin >= endMin {
		return helper.JsonError(c, fiber.StatusBadRequest, "Start time must be before end time")
	}
	duration := endMin - startMin

	db := ctl.DB.WithContext(c.Context())
	var group groupmodel.GroupModel
	if err := db.Take(&group, "id = ?", groupID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	className := fmt.Sprintf("Занятие %s", group.Name)
	loc := dbtime.StudioLocation()
	buildStart := func(day time.Time) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(),
			startTod.Hour(), startTod.Minute(), 0, 0, loc).UTC()
	}
	newLesson := func(start time.Time) model.LessonModel {
		d := duration
		return model.LessonModel{
			GroupID:         group.ID,
			ClassName:       className,
			TeacherID:       group.TeacherID,
			HallID:          group.HallID,
			StartTime:       start,
			DurationMinutes: &d,
		}
	}

	created := 0
	if !req.RepeatEnabled {
		start := buildStart(lessonDate)
		if conflict, err := service.FindConflict(db, group.ID, start, duration, nil); err != nil {
			return helper.WritePGError(c, err)
		} else if conflict != nil {
			return helper.JsonError(c, fiber.StatusBadRequest,
				"Время занятия пересекается с уже существующим занятием. Выберите другое время.")
		}
		lesson := newLesson(start)
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&lesson).Error; err != nil {
				return err
			}
			return schedulesvc.SyncGroupSchedules(tx, group.ID)
		}); err != nil {
			return helper.WritePGError(c, err)
		}
		created = 1
		return helper.JsonCreated(c, fmt.Sprintf("Created %d lesson(s) successfully", created),
			fiber.Map{"created": created})
	}

	if req.RepeatUntil == "" {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"repeat_until is required for all recurring lessons. Please specify an end date.")
	}
	endDate, err := dbtime.ParseDate(req.RepeatUntil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid repeat_until date format. Use YYYY-MM-DD")
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
	series:
		for day := lessonDate; !day.After(endDate) && created < schedulesvc.MaxGeneratedGeneral; {
			start := buildStart(day)
			conflict, err := service.FindConflict(tx, group.ID, start, duration, nil)
			if err != nil {
				return err
			}
			if conflict == nil {
				lesson := newLesson(start)
				if err := tx.Create(&lesson).Error; err != nil {
					return err
				}
				created++
			}
			switch req.RepeatFrequency {
			case schedulesvc.PeriodicityWeekly:
				day = day.AddDate(0, 0, 7)
			case schedulesvc.PeriodicityBiweekly:
				day = day.AddDate(0, 0, 14)
			case schedulesvc.PeriodicityMonthly:
				day = dbtime.AddMonths(day, 1)
			default:
				break series
			}
		}
		return schedulesvc.SyncGroupSchedules(tx, group.ID)
	}); err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, fmt.Sprintf("Created %d lesson(s) successfully", created),
		fiber.Map{"created": created})
}
