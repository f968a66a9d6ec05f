package controller

import (
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studioku_backend/internals/features/assessments/attendance/dto"
	teachersvc "studioku_backend/internals/features/studio/teachers/service"
	helper "studioku_backend/internals/helpers"
)

// AttendanceTeacherController serves the teacher-side attendance
// endpoints. Everything is scoped to groups the teacher is assigned to.
type AttendanceTeacherController struct {
	DB *gorm.DB
}

func NewAttendanceTeacherController(db *gorm.DB) *AttendanceTeacherController {
	return &AttendanceTeacherController{DB: db}
}

// lessonGroup resolves a lesson's group, gorm.ErrRecordNotFound when
// the lesson does not exist.
func lessonGroup(db *gorm.DB, lessonID uuid.UUID) (uuid.UUID, error) {
	var groupID uuid.UUID
	res := db.Table("lessons").Select("group_id").Where("id = ?", lessonID).Limit(1).Scan(&groupID)
	if res.Error != nil {
		return uuid.Nil, res.Error
	}
	if res.RowsAffected == 0 {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return groupID, nil
}

// SaveLessonAttendance stores the marks for a lesson of an assigned
// group.
func (ctl *AttendanceTeacherController) SaveLessonAttendance(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
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

	groupID, err := lessonGroup(db, lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
		}
		return helper.WritePGError(c, err)
	}
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

	if s, bad := invalidStatus(req.Attendance); bad {
		return helper.JsonError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid status: %s", s))
	}
	if err := saveAttendance(db, lessonID, req.Attendance); err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Attendance saved successfully", nil)
}

// GetLessonAttendance returns the non-trial roster with marks for a
// lesson of an assigned group.
func (ctl *AttendanceTeacherController) GetLessonAttendance(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	groupID, err := lessonGroup(db, lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
		}
		return helper.WritePGError(c, err)
	}
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

	students, err := lessonRoster(db, groupID, lessonID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"students": students})
}

// GetGroupSummary returns the per-student summary for an assigned
// group.
func (ctl *AttendanceTeacherController) GetGroupSummary(c *fiber.Ctx) error {
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

	students, err := groupSummary(db, groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"students": students})
}

type averageRow struct {
	ID            uuid.UUID
	Name          string
	TotalRecords  int
	AttendedCount int
}

// GetAverage returns the attended share per assigned group, null when
// nothing is marked yet.
func (ctl *AttendanceTeacherController) GetAverage(c *fiber.Ctx) error {
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

	var rows []averageRow
	if err := db.Raw(`
		SELECT
		    g.id, g.name,
		    COUNT(ar.id) AS total_records,
		    COALESCE(SUM(CASE WHEN ar.attended THEN 1 ELSE 0 END), 0) AS attended_count
		FROM groups g
		INNER JOIN group_teachers gt ON gt.group_id = g.id AND gt.teacher_id = ?
		LEFT JOIN lessons l ON l.group_id = g.id
		LEFT JOIN attendance_records ar ON ar.lesson_id = l.id
		GROUP BY g.id, g.name
		ORDER BY g.name`, teacherID).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	summary := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		var avg *float64
		if r.TotalRecords > 0 {
			v := math.Round(float64(r.AttendedCount)/float64(r.TotalRecords)*1000) / 10
			avg = &v
		}
		summary = append(summary, fiber.Map{
			"group_id":           r.ID,
			"group_name":         r.Name,
			"total_lessons":      r.TotalRecords,
			"average_attendance": avg,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"summary": summary})
}
