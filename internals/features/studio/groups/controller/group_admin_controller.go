package controller

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	lessonmodel "studioku_backend/internals/features/academics/lessons/model"
	schedulemodel "studioku_backend/internals/features/academics/schedules/model"
	schedulesvc "studioku_backend/internals/features/academics/schedules/service"
	attendancemodel "studioku_backend/internals/features/assessments/attendance/model"
	grademodel "studioku_backend/internals/features/assessments/grades/model"
	"studioku_backend/internals/features/studio/groups/dto"
	"studioku_backend/internals/features/studio/groups/model"
	studentmodel "studioku_backend/internals/features/studio/students/model"
	notifysvc "studioku_backend/internals/features/system/notifications/service"
	settingssvc "studioku_backend/internals/features/system/settings/service"
	"studioku_backend/internals/constants"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

var validate = validator.New()

// Lowercase day names as the schedules dict keys them, index = weekday
// with Sunday 0.
var dayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func dayNumber(name string) (int, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for i, n := range dayNames {
		if n == needle {
			return i, true
		}
	}
	return 0, false
}

// GroupAdminController serves group management under /api/a.
type GroupAdminController struct {
	DB *gorm.DB
}

func NewGroupAdminController(db *gorm.DB) *GroupAdminController {
	return &GroupAdminController{DB: db}
}

/* =========================
   Listing
========================= */

type adminGroupRow struct {
	ID              uuid.UUID
	Name            string
	Capacity        *int
	DurationMinutes int
	IsAdditional    bool
	IsClosed        bool
	IsTrial         bool
	TrialPrice      *float64
	Comment         string
	HallID          *uuid.UUID
	HallName        *string
	TeacherName     *string
	CategoryID      *uuid.UUID
	CategoryName    *string
	CategoryColor   *string
	Enrolled        int
}

// GetGroups lists every group with its main teacher, hall, enrollment
// and derived schedule string.
func (ctl *GroupAdminController) GetGroups(c *fiber.Ctx) error {
	var rows []adminGroupRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT
		    g.id, g.name, g.capacity, g.duration_minutes,
		    g.is_additional, g.is_closed, g.is_trial_available AS is_trial,
		    g.trial_price, g.comment,
		    h.id AS hall_id, h.name AS hall_name,
		    u.name AS teacher_name,
		    c.id AS category_id, c.name AS category_name, c.color AS category_color,
		    (SELECT COUNT(*) FROM group_students gs WHERE gs.group_id = g.id) AS enrolled
		FROM groups g
		LEFT JOIN halls h ON h.id = g.hall_id
		LEFT JOIN categories c ON c.id = g.category_id
		LEFT JOIN group_teachers gt ON gt.group_id = g.id AND gt.is_main = TRUE
		LEFT JOIN teachers t ON t.id = gt.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		ORDER BY g.created_at, g.id`).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	schedules, err := schedulesvc.FormattedScheduleMap(ctl.DB.WithContext(c.Context()), ids)
	if err != nil {
		return helper.WritePGError(c, err)
	}

	groups := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		teacherName := "Не назначен"
		if r.TeacherName != nil && *r.TeacherName != "" {
			teacherName = *r.TeacherName
		}
		hallName := "Не указан"
		var hall fiber.Map
		if r.HallID != nil {
			if r.HallName != nil {
				hallName = *r.HallName
			}
			hall = fiber.Map{"id": *r.HallID, "name": hallName}
		}
		var category fiber.Map
		if r.CategoryID != nil {
			category = fiber.Map{"id": *r.CategoryID, "name": r.CategoryName, "color": r.CategoryColor}
		}
		var freeSlots *int
		if r.Capacity != nil {
			fs := *r.Capacity - r.Enrolled
			freeSlots = &fs
		}
		groups = append(groups, fiber.Map{
			"id":               r.ID,
			"name":             r.Name,
			"teacher_name":     teacherName,
			"schedule":         schedules[r.ID],
			"hall":             hall,
			"hall_name":        hallName,
			"category":         category,
			"capacity":         r.Capacity,
			"duration_minutes": r.DurationMinutes,
			"is_additional":    r.IsAdditional,
			"is_closed":        r.IsClosed,
			"is_active":        !r.IsClosed,
			"is_trial":         r.IsTrial,
			"trial_price":      r.TrialPrice,
			"comment":          r.Comment,
			"enrolled":         r.Enrolled,
			"free_slots":       freeSlots,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"groups": groups})
}

/* =========================
   Details
========================= */

type groupStudentStatRow struct {
	ID          uuid.UUID
	Name        string
	Email       string
	PhoneNumber *string
	Marked      int
	Points      float64
}

type groupTeacherRow struct {
	ID     uuid.UUID
	Name   string
	IsMain bool
}

// GetGroupDetails returns one group with its roster, per-student
// attendance points, teachers and weekly schedule.
func (ctl *GroupAdminController) GetGroupDetails(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	var row adminGroupRow
	q := db.Raw(`
		SELECT
		    g.id, g.name, g.capacity, g.duration_minutes,
		    g.is_additional, g.is_closed, g.is_trial_available AS is_trial,
		    g.trial_price, g.comment,
		    g.start_date, g.recurring_until,
		    h.id AS hall_id, h.name AS hall_name,
		    t.id AS teacher_id, u.name AS teacher_name,
		    c.id AS category_id, c.name AS category_name, c.color AS category_color,
		    0 AS enrolled
		FROM groups g
		LEFT JOIN halls h ON h.id = g.hall_id
		LEFT JOIN group_teachers gt ON gt.group_id = g.id AND gt.is_main = TRUE
		LEFT JOIN teachers t ON t.id = gt.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		LEFT JOIN categories c ON c.id = g.category_id
		WHERE g.id = ?`, groupID).Scan(&row)
	if q.Error != nil {
		return helper.WritePGError(c, q.Error)
	}
	if q.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	// The Raw above cannot populate extra fields, pull the dates and
	// main teacher id separately via the model row.
	var group model.GroupModel
	if err := db.Take(&group, "id = ?", groupID).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	var mainTeacherID *uuid.UUID
	{
		var gt model.GroupTeacherModel
		if err := db.Where("group_id = ? AND is_main = TRUE", groupID).Limit(1).Take(&gt).Error; err == nil {
			id := gt.TeacherID
			mainTeacherID = &id
		}
	}

	var totalLessons int64
	if err := db.Model(&lessonmodel.LessonModel{}).
		Where("group_id = ?", groupID).
		Count(&totalLessons).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var studentRows []groupStudentStatRow
	if err := db.Raw(`
		SELECT
		    s.id, u.name, u.email, s.phone_number,
		    COUNT(ar.id) AS marked,
		    COALESCE(SUM(
		        CASE ar.status
		            WHEN 'P' THEN 2
		            WHEN 'E' THEN 2
		            WHEN 'L' THEN 1
		            ELSE 0
		        END
		    ), 0) AS points
		FROM group_students gs
		JOIN students s ON s.id = gs.student_id
		JOIN users u ON u.id = s.user_id
		LEFT JOIN lessons l ON l.group_id = gs.group_id
		LEFT JOIN attendance_records ar ON ar.lesson_id = l.id AND ar.student_id = s.id
		WHERE gs.group_id = ?
		GROUP BY s.id, u.name, u.email, s.phone_number
		ORDER BY u.name`, groupID).Scan(&studentRows).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	students := make([]fiber.Map, 0, len(studentRows))
	for _, s := range studentRows {
		phone := ""
		if s.PhoneNumber != nil {
			phone = *s.PhoneNumber
		}
		percentage := 0.0
		if s.Marked > 0 {
			percentage = math.Round(s.Points/float64(s.Marked*2)*1000) / 10
		}
		students = append(students, fiber.Map{
			"id":                    s.ID,
			"name":                  s.Name,
			"email":                 s.Email,
			"phone":                 phone,
			"attendance_count":      s.Marked,
			"attendance_percentage": percentage,
			"total_points":          s.Points,
			"max_points":            totalLessons * 2,
		})
	}

	var teacherRows []groupTeacherRow
	if err := db.Raw(`
		SELECT t.id, u.name, gt.is_main
		FROM group_teachers gt
		JOIN teachers t ON t.id = gt.teacher_id
		JOIN users u ON u.id = t.user_id
		WHERE gt.group_id = ?
		ORDER BY gt.is_main DESC, u.name`, groupID).Scan(&teacherRows).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	teachers := make([]fiber.Map, 0, len(teacherRows))
	for _, t := range teacherRows {
		teachers = append(teachers, fiber.Map{"id": t.ID, "name": t.Name, "is_main": t.IsMain})
	}

	schedule, err := schedulesvc.FormattedSchedule(db, groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	var patterns []schedulemodel.GroupScheduleModel
	if err := db.Where("group_id = ? AND is_active = TRUE", groupID).
		Order("day_of_week").
		Find(&patterns).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	schedulesDict := fiber.Map{}
	for _, p := range patterns {
		if p.DayOfWeek >= 0 && p.DayOfWeek <= 6 {
			schedulesDict[dayNames[p.DayOfWeek]] = p.StartTime.Clock()
		}
	}

	teacherName := "Не назначен"
	if row.TeacherName != nil && *row.TeacherName != "" {
		teacherName = *row.TeacherName
	}
	hallName := "Не указан"
	if row.HallName != nil {
		hallName = *row.HallName
	}
	startDate := ""
	if group.StartDate != nil {
		startDate = group.StartDate.Format("2006-01-02")
	}
	recurringUntil := ""
	if group.RecurringUntil != nil {
		recurringUntil = group.RecurringUntil.Format("2006-01-02")
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"id":               row.ID,
		"name":             row.Name,
		"teacher_id":       mainTeacherID,
		"teacher_name":     teacherName,
		"teachers":         teachers,
		"schedule":         schedule,
		"schedules":        schedulesDict,
		"hall_id":          row.HallID,
		"hall_name":        hallName,
		"capacity":         row.Capacity,
		"duration_minutes": row.DurationMinutes,
		"category_id":      row.CategoryID,
		"category_name":    row.CategoryName,
		"is_closed":        row.IsClosed,
		"is_active":        !row.IsClosed,
		"is_additional":    row.IsAdditional,
		"is_trial":         row.IsTrial,
		"trial_price":      row.TrialPrice,
		"comment":          row.Comment,
		"start_date":       startDate,
		"recurring_until":  recurringUntil,
		"total_lessons":    totalLessons,
		"students":         students,
	})
}

/* =========================
   Create / Update
========================= */

// CreateGroup inserts a group, optionally with its main teacher. The
// groups.require_teacher and groups.require_hall settings make those
// references mandatory.
func (ctl *GroupAdminController) CreateGroup(c *fiber.Ctx) error {
	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	if settingssvc.GetBool(ctl.DB, constants.SettingGroupsRequireTeacher, false) && req.MainTeacherID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Main teacher is required")
	}
	if settingssvc.GetBool(ctl.DB, constants.SettingGroupsRequireHall, false) && req.HallID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Hall is required")
	}

	startDate, err := dbtime.ParseDate(req.StartDate)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
	}
	var endDate *time.Time
	if req.EndDate != "" {
		ed, err := dbtime.ParseDate(req.EndDate)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		}
		endDate = &ed
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 60
	}
	capacity := req.Capacity
	if capacity == nil {
		def := 12
		capacity = &def
	}
	var trialPrice *float64
	if req.IsTrial {
		trialPrice = req.TrialPrice
	}

	group := model.GroupModel{
		Name:             strings.TrimSpace(req.Name),
		CategoryID:       req.CategoryID,
		HallID:           req.HallID,
		TeacherID:        req.MainTeacherID,
		Capacity:         capacity,
		DurationMinutes:  duration,
		IsTrialAvailable: req.IsTrial,
		TrialPrice:       trialPrice,
		StartDate:        &startDate,
		RecurringUntil:   endDate,
		IsAdditional:     req.IsAdditional,
		Comment:          req.Comment,
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		if req.MainTeacherID != nil {
			gt := model.GroupTeacherModel{
				GroupID:   group.ID,
				TeacherID: *req.MainTeacherID,
				IsMain:    true,
			}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "group_id"}, {Name: "teacher_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"is_main": true}),
			}).Create(&gt).Error
		}
		return nil
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Group created successfully", fiber.Map{"group_id": group.ID})
}

// UpdateGroup applies a partial update. A hall change propagates to the
// group's lessons; a main teacher change rewrites the assignment and
// retargets the lessons; a schedules dict replaces the weekly pattern.
func (ctl *GroupAdminController) UpdateGroup(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	var group model.GroupModel
	if err := ctl.DB.WithContext(c.Context()).Take(&group, "id = ?", groupID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	updates := map[string]interface{}{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.CategoryID.Set {
		updates["category_id"] = req.CategoryID.Ptr()
	}
	if req.HallID.Set {
		updates["hall_id"] = req.HallID.Ptr()
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.StartDate != nil {
		v, err := parseDateOrClear(*req.StartDate)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		}
		updates["start_date"] = v
	}
	if req.RecurringUntil != nil {
		v, err := parseDateOrClear(*req.RecurringUntil)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		}
		updates["recurring_until"] = v
	}
	if req.IsClosed != nil {
		updates["is_closed"] = *req.IsClosed
	}
	if req.IsAdditional != nil {
		updates["is_additional"] = *req.IsAdditional
	}
	if req.IsTrial != nil {
		updates["is_trial_available"] = *req.IsTrial
		// Turning trials off without touching the price drops it.
		if !*req.IsTrial && !req.TrialPrice.Set {
			updates["trial_price"] = nil
		}
	}
	if req.TrialPrice.Set {
		updates["trial_price"] = req.TrialPrice.Ptr()
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}
	if req.MainTeacherID.Set {
		updates["teacher_id"] = req.MainTeacherID.Ptr()
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.GroupModel{}).Where("id = ?", groupID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.HallID.Set {
			if err := tx.Model(&lessonmodel.LessonModel{}).
				Where("group_id = ?", groupID).
				Update("hall_id", req.HallID.Ptr()).Error; err != nil {
				return err
			}
		}
		if req.MainTeacherID.Set {
			if err := tx.Model(&model.GroupTeacherModel{}).
				Where("group_id = ?", groupID).
				Update("is_main", false).Error; err != nil {
				return err
			}
			if req.MainTeacherID.Valid {
				gt := model.GroupTeacherModel{
					GroupID:   groupID,
					TeacherID: req.MainTeacherID.Value,
					IsMain:    true,
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "group_id"}, {Name: "teacher_id"}},
					DoUpdates: clause.Assignments(map[string]interface{}{"is_main": true}),
				}).Create(&gt).Error; err != nil {
					return err
				}
				if err := tx.Model(&lessonmodel.LessonModel{}).
					Where("group_id = ?", groupID).
					Update("teacher_id", req.MainTeacherID.Value).Error; err != nil {
					return err
				}
			}
		}
		if req.Schedules != nil {
			patterns := make([]schedulesvc.PatternInput, 0, len(req.Schedules))
			for dayName, clock := range req.Schedules {
				num, ok := dayNumber(dayName)
				if !ok {
					continue
				}
				patterns = append(patterns, schedulesvc.PatternInput{DayOfWeek: num, StartTime: clock})
			}
			if err := schedulesvc.ReplacePatterns(tx, groupID, patterns); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "Group updated", nil)
}

// parseDateOrClear maps "" to NULL and anything else through the strict
// date parser.
func parseDateOrClear(s string) (interface{}, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := dbtime.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return d, nil
}

/* =========================
   Delete / Close / Open
========================= */

// DeleteGroup removes the group and everything hanging off it. Without
// force=true a non-empty roster blocks the delete.
func (ctl *GroupAdminController) DeleteGroup(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	force := c.QueryBool("force", false)

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if !force {
			var members int64
			if err := tx.Model(&model.GroupStudentModel{}).
				Where("group_id = ?", groupID).
				Count(&members).Error; err != nil {
				return err
			}
			if members > 0 {
				return badRequestErr{fmt.Sprintf(
					"Cannot delete group - it has %d students enrolled. Use force=true to delete anyway or remove all students first.",
					members,
				)}
			}
		}

		lessonIDs := tx.Model(&lessonmodel.LessonModel{}).
			Select("id").
			Where("group_id = ?", groupID)
		if err := tx.Where("lesson_id IN (?)", lessonIDs).
			Delete(&attendancemodel.AttendanceRecordModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id IN (?)", lessonIDs).
			Delete(&lessonmodel.RescheduleRequestModel{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("group_id = ?", groupID).
			Delete(&grademodel.GradeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).
			Delete(&model.GroupStudentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).
			Delete(&model.GroupTeacherModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).
			Delete(&schedulemodel.GroupScheduleModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).
			Delete(&lessonmodel.LessonModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", groupID).Delete(&model.GroupModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if br, ok := err.(badRequestErr); ok {
			return helper.JsonError(c, fiber.StatusBadRequest, br.msg)
		}
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonDeleted(c, "Group deleted", nil)
}

type badRequestErr struct{ msg string }

func (e badRequestErr) Error() string { return e.msg }

// CloseGroup stops enrollment and hides the group from signup.
func (ctl *GroupAdminController) CloseGroup(c *fiber.Ctx) error {
	return ctl.setClosed(c, true, "Group closed")
}

// OpenGroup makes the group visible for signup again.
func (ctl *GroupAdminController) OpenGroup(c *fiber.Ctx) error {
	return ctl.setClosed(c, false, "Group opened")
}

func (ctl *GroupAdminController) setClosed(c *fiber.Ctx, closed bool, message string) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	res := ctl.DB.WithContext(c.Context()).
		Model(&model.GroupModel{}).
		Where("id = ?", groupID).
		Update("is_closed", closed)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}
	return helper.JsonUpdated(c, message, nil)
}

/* =========================
   Roster
========================= */

type rosterRow struct {
	ID          uuid.UUID
	Name        string
	Email       string
	PhoneNumber *string
	IsTrial     bool
	JoinedAt    time.Time
}

// GetGroupStudents lists the group's members, trials included.
func (ctl *GroupAdminController) GetGroupStudents(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var rows []rosterRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT s.id, u.name, u.email, s.phone_number, gs.is_trial, gs.created_at AS joined_at
		FROM group_students gs
		JOIN students s ON s.id = gs.student_id
		JOIN users u ON u.id = s.user_id
		WHERE gs.group_id = ?
		ORDER BY u.name`, groupID).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	students := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		students = append(students, fiber.Map{
			"id":           r.ID,
			"name":         r.Name,
			"email":        r.Email,
			"phone_number": r.PhoneNumber,
			"is_trial":     r.IsTrial,
			"joined_at":    r.JoinedAt,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"students": students})
}

// AddStudentToGroup enrolls a student; re-adding is a no-op. The
// student gets an added_to_group notification on a fresh insert.
func (ctl *GroupAdminController) AddStudentToGroup(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AddStudentToGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	var group model.GroupModel
	if err := ctl.DB.WithContext(c.Context()).Take(&group, "id = ?", groupID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}
	var student studentmodel.StudentModel
	if err := ctl.DB.WithContext(c.Context()).Take(&student, "id = ?", req.StudentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	member := model.GroupStudentModel{
		GroupID:   groupID,
		StudentID: req.StudentID,
		IsTrial:   req.IsTrial,
	}
	res := ctl.DB.WithContext(c.Context()).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected > 0 {
		notifysvc.Notify(ctl.DB, student.UserID,
			constants.NotifAddedToGroup,
			"Добавление в группу",
			fmt.Sprintf("Вы были добавлены в группу \"%s\"", group.Name),
			&notifysvc.Options{
				GroupID:     &groupID,
				StudentID:   &student.ID,
				RelatedID:   &groupID,
				RelatedType: "group",
				ActionURL:   "/my-groups",
			})
	}
	return helper.JsonOK(c, "Student added to group", nil)
}

// RemoveStudentFromGroup drops the membership row and tells the student.
func (ctl *GroupAdminController) RemoveStudentFromGroup(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	studentID, err := helper.ParseUUIDParam(c, "studentId")
	if err != nil {
		return err
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("group_id = ? AND student_id = ?", groupID, studentID).
		Delete(&model.GroupStudentModel{})
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected > 0 {
		var group model.GroupModel
		var student studentmodel.StudentModel
		if ctl.DB.Take(&group, "id = ?", groupID).Error == nil &&
			ctl.DB.Take(&student, "id = ?", studentID).Error == nil {
			notifysvc.Notify(ctl.DB, student.UserID,
				constants.NotifRemovedFromGroup,
				"Исключение из группы",
				fmt.Sprintf("Вы были исключены из группы \"%s\"", group.Name),
				&notifysvc.Options{
					GroupID:     &groupID,
					StudentID:   &student.ID,
					RelatedID:   &groupID,
					RelatedType: "group",
				})
		}
	}
	return helper.JsonOK(c, "Student removed from group", nil)
}

// UpdateGroupLimit changes the capacity only.
func (ctl *GroupAdminController) UpdateGroupLimit(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.GroupLimitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.GroupModel{}).
		Where("id = ?", groupID).
		Update("capacity", req.Capacity).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "Group capacity updated", nil)
}

/* =========================
   Teacher assignment
========================= */

// AssignMainTeacher makes the teacher the group's lead and backfills
// lessons that have no teacher yet.
func (ctl *GroupAdminController) AssignMainTeacher(c *fiber.Ctx) error {
	teacherID, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return err
	}
	groupID, err := helper.ParseUUIDParam(c, "groupId")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.GroupTeacherModel{}).
			Where("group_id = ?", groupID).
			Update("is_main", false).Error; err != nil {
			return err
		}
		gt := model.GroupTeacherModel{GroupID: groupID, TeacherID: teacherID, IsMain: true}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "teacher_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_main": true}),
		}).Create(&gt).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.GroupModel{}).
			Where("id = ?", groupID).
			Update("teacher_id", teacherID).Error; err != nil {
			return err
		}
		// Only orphaned lessons; reassigned ones keep their teacher.
		return tx.Model(&lessonmodel.LessonModel{}).
			Where("group_id = ? AND teacher_id IS NULL", groupID).
			Update("teacher_id", teacherID).Error
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Teacher assigned to group", nil)
}

// AddTeacherToGroup adds a secondary teacher. The first teacher of a
// group becomes its lead; more than one requires the
// groups.allow_multi_teachers setting.
func (ctl *GroupAdminController) AddTeacherToGroup(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	teacherID, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return err
	}

	var existing int64
	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.GroupTeacherModel{}).
		Where("group_id = ?", groupID).
		Count(&existing).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if existing > 0 && !settingssvc.GetBool(ctl.DB, constants.SettingGroupsAllowMultiTeachers, true) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Group already has a teacher")
	}

	gt := model.GroupTeacherModel{
		GroupID:   groupID,
		TeacherID: teacherID,
		IsMain:    existing == 0,
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&gt).Error; err != nil {
			return err
		}
		if gt.IsMain {
			return tx.Model(&model.GroupModel{}).
				Where("id = ?", groupID).
				Update("teacher_id", teacherID).Error
		}
		return nil
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Teacher added to group", nil)
}

// RemoveTeacherFromGroup detaches the teacher; the denormalized lead
// reference clears when the lead leaves.
func (ctl *GroupAdminController) RemoveTeacherFromGroup(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	teacherID, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ? AND teacher_id = ?", groupID, teacherID).
			Delete(&model.GroupTeacherModel{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.GroupModel{}).
			Where("id = ? AND teacher_id = ?", groupID, teacherID).
			Update("teacher_id", nil).Error
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Teacher removed from group", nil)
}
