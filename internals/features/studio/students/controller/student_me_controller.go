package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	schedulesvc "studioku_backend/internals/features/academics/schedules/service"
	attendancemodel "studioku_backend/internals/features/assessments/attendance/model"
	statssvc "studioku_backend/internals/features/assessments/attendance/service"
	"studioku_backend/internals/features/studio/students/dto"
	"studioku_backend/internals/features/studio/students/model"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

// StudentMeController serves the student's own profile, group and
// attendance views under /api/s.
type StudentMeController struct {
	DB *gorm.DB
}

func NewStudentMeController(db *gorm.DB) *StudentMeController {
	return &StudentMeController{DB: db}
}

// resolveStudentID maps the token's user id to the students row.
func resolveStudentID(db *gorm.DB, userID uuid.UUID) (uuid.UUID, error) {
	var student model.StudentModel
	if err := db.Select("id").First(&student, "user_id = ?", userID).Error; err != nil {
		return uuid.Nil, err
	}
	return student.ID, nil
}

// GetMe returns the student profile joined with the account fields.
func (ctl *StudentMeController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var row struct {
		ID                uuid.UUID
		UserID            uuid.UUID
		Name              string
		Email             string
		PhoneNumber       string
		Comment           string
		TrialUsed         bool
		TrialsAllowed     int
		TrialsUsed        int
		SubscriptionUntil *string
	}
	res := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT s.id, s.user_id, u.name, u.email, s.phone_number, s.comment,
		       s.trial_used, s.trials_allowed, s.trials_used,
		       TO_CHAR(s.subscription_until, 'YYYY-MM-DD') AS subscription_until
		FROM students s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = ?`, userID).Scan(&row)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Профиль студента не найден")
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"id":                 row.ID,
		"user_id":            row.UserID,
		"name":               row.Name,
		"email":              row.Email,
		"phone_number":       row.PhoneNumber,
		"comment":            row.Comment,
		"trial_used":         row.TrialUsed,
		"trials_allowed":     row.TrialsAllowed,
		"trials_used":        row.TrialsUsed,
		"subscription_until": row.SubscriptionUntil,
	})
}

// UpdateMe upserts the profile. Phone is required; a missing comment
// keeps the stored one.
func (ctl *StudentMeController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var input dto.ProfileUpdateRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	phone := strings.TrimSpace(input.PhoneNumber)
	if phone == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "phone_number is required")
	}

	assignments := map[string]any{"phone_number": phone}
	if input.Comment != nil {
		assignments["comment"] = *input.Comment
	}

	student := model.StudentModel{UserID: userID, PhoneNumber: phone}
	if input.Comment != nil {
		student.Comment = *input.Comment
	}
	if err := ctl.DB.WithContext(c.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(&student).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var stored model.StudentModel
	if err := ctl.DB.WithContext(c.Context()).First(&stored, "user_id = ?", userID).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Профиль сохранён", fiber.Map{"student": stored})
}

type myGroupRow struct {
	ID              uuid.UUID
	Name            string
	DurationMinutes int
	IsClosed        bool
	IsTrial         bool
	StartDate       *time.Time
	RecurringUntil  *time.Time
	HallName        *string
	TeacherName     *string
	CategoryName    *string
	Capacity        *int
	Enrolled        int
}

// GetMyGroups lists the groups the student belongs to.
func (ctl *StudentMeController) GetMyGroups(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	studentID, err := resolveStudentID(ctl.DB.WithContext(c.Context()), userID)
	if err != nil {
		return helper.JsonOK(c, "OK", fiber.Map{"groups": []fiber.Map{}})
	}

	var rows []myGroupRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT
		    g.id, g.name, g.duration_minutes, g.is_closed,
		    g.is_trial_available AS is_trial, g.start_date, g.recurring_until,
		    h.name AS hall_name, u.name AS teacher_name, c.name AS category_name,
		    g.capacity,
		    (SELECT COUNT(*) FROM group_students WHERE group_id = g.id) AS enrolled
		FROM group_students gs
		JOIN groups g ON g.id = gs.group_id
		LEFT JOIN halls h ON h.id = g.hall_id
		LEFT JOIN categories c ON c.id = g.category_id
		LEFT JOIN group_teachers gt ON gt.group_id = g.id AND gt.is_main = TRUE
		LEFT JOIN teachers t ON t.id = gt.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE gs.student_id = ?
		ORDER BY g.name`, studentID).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	groupIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		groupIDs = append(groupIDs, r.ID)
	}
	scheduleMap, err := schedulesvc.FormattedScheduleMap(ctl.DB.WithContext(c.Context()), groupIDs)
	if err != nil {
		return helper.WritePGError(c, err)
	}

	groups := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		hallName := "Не указан"
		if r.HallName != nil && *r.HallName != "" {
			hallName = *r.HallName
		}
		teacherName := "Не назначен"
		if r.TeacherName != nil && *r.TeacherName != "" {
			teacherName = *r.TeacherName
		}
		var freeSlots *int
		if r.Capacity != nil {
			fs := *r.Capacity - r.Enrolled
			freeSlots = &fs
		}
		var startDate, endDate *string
		if r.StartDate != nil {
			s := r.StartDate.Format("2006-01-02")
			startDate = &s
		}
		if r.RecurringUntil != nil {
			s := r.RecurringUntil.Format("2006-01-02")
			endDate = &s
		}
		groups = append(groups, fiber.Map{
			"id":               r.ID,
			"name":             r.Name,
			"duration_minutes": r.DurationMinutes,
			"hall_name":        hallName,
			"teacher_name":     teacherName,
			"category_name":    r.CategoryName,
			"capacity":         r.Capacity,
			"enrolled":         r.Enrolled,
			"free_slots":       freeSlots,
			"schedule":         scheduleMap[r.ID],
			"is_active":        !r.IsClosed,
			"is_trial":         r.IsTrial,
			"start_date":       startDate,
			"end_date":         endDate,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"groups": groups})
}

type myLessonRow struct {
	LessonID        uuid.UUID
	ClassName       string
	StartTime       time.Time
	DurationMinutes *int
	IsCancelled     bool
	GroupID         uuid.UUID
	GroupName       string
	CategoryName    *string
	HallName        *string
	TeacherName     *string
	AttendanceID    *uuid.UUID
	Status          *string
	RecordedAt      *time.Time
}

// GetMyAttendance returns the full lesson history plus folded per-group
// statistics.
func (ctl *StudentMeController) GetMyAttendance(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	studentID, err := resolveStudentID(ctl.DB.WithContext(c.Context()), userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Профиль студента не найден")
	}

	var lessonRows []myLessonRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT
		    l.id AS lesson_id, l.class_name, l.start_time, l.duration_minutes,
		    l.is_cancelled,
		    g.id AS group_id, g.name AS group_name,
		    c.name AS category_name, h.name AS hall_name, u.name AS teacher_name,
		    ar.id AS attendance_id, ar.status, ar.recorded_at
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		LEFT JOIN categories c ON c.id = g.category_id
		LEFT JOIN halls h ON h.id = l.hall_id
		LEFT JOIN teachers t ON t.id = l.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		LEFT JOIN attendance_records ar ON ar.lesson_id = l.id AND ar.student_id = ?
		WHERE g.id IN (SELECT DISTINCT group_id FROM group_students WHERE student_id = ?)
		ORDER BY l.start_time DESC`, studentID, studentID).Scan(&lessonRows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	lessons := make([]fiber.Map, 0, len(lessonRows))
	for _, r := range lessonRows {
		duration := 60
		if r.DurationMinutes != nil && *r.DurationMinutes > 0 {
			duration = *r.DurationMinutes
		}
		status := ""
		if r.Status != nil {
			status = *r.Status
		}
		start := dbtime.ToStudio(r.StartTime)
		lessons = append(lessons, fiber.Map{
			"id":               r.AttendanceID,
			"lesson_id":        r.LessonID,
			"class_name":       r.ClassName,
			"start_time":       start,
			"end_time":         start.Add(time.Duration(duration) * time.Minute),
			"duration_minutes": duration,
			"is_cancelled":     r.IsCancelled,
			"status":           r.Status,
			"status_display":   attendancemodel.StatusDisplay(status),
			"points":           attendancemodel.StatusPoints(status),
			"group_id":         r.GroupID,
			"group_name":       r.GroupName,
			"category_name":    r.CategoryName,
			"hall_name":        r.HallName,
			"teacher_name":     r.TeacherName,
			"recorded_at":      r.RecordedAt,
		})
	}

	stats, err := ctl.groupStats(c, studentID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"lessons": lessons, "attendance": stats})
}

type membershipRow struct {
	GroupID      uuid.UUID
	GroupName    string
	CategoryName *string
	IsTrial      bool
	TotalLessons int
}

// groupStats folds the student's marked statuses per group.
func (ctl *StudentMeController) groupStats(c *fiber.Ctx, studentID uuid.UUID) ([]fiber.Map, error) {
	var memberships []membershipRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT gs.group_id, g.name AS group_name, c.name AS category_name, gs.is_trial,
		       (SELECT COUNT(*) FROM lessons l WHERE l.group_id = gs.group_id) AS total_lessons
		FROM group_students gs
		JOIN groups g ON g.id = gs.group_id
		LEFT JOIN categories c ON c.id = g.category_id
		WHERE gs.student_id = ?
		ORDER BY g.name`, studentID).Scan(&memberships).Error; err != nil {
		return nil, err
	}

	var marks []struct {
		GroupID uuid.UUID
		Status  string
	}
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT l.group_id, ar.status
		FROM attendance_records ar
		JOIN lessons l ON l.id = ar.lesson_id
		WHERE ar.student_id = ?`, studentID).Scan(&marks).Error; err != nil {
		return nil, err
	}
	byGroup := map[uuid.UUID][]string{}
	for _, m := range marks {
		byGroup[m.GroupID] = append(byGroup[m.GroupID], m.Status)
	}

	stats := make([]fiber.Map, 0, len(memberships))
	for _, m := range memberships {
		st := statssvc.Fold(byGroup[m.GroupID], m.TotalLessons, m.IsTrial)
		stats = append(stats, fiber.Map{
			"id":         m.GroupID,
			"title":      m.GroupName,
			"category":   m.CategoryName,
			"total":      st.TotalLessons,
			"attended":   st.Attended,
			"present":    st.Present,
			"excused":    st.Excused,
			"late":       st.Late,
			"missed":     st.Absent,
			"percentage": st.Percentage,
			"points":     st.Points,
			"max_points": st.MaxPoints,
		})
	}
	return stats, nil
}
