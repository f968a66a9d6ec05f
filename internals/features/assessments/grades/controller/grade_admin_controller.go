package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	scalesvc "studioku_backend/internals/features/assessments/grades/service"
	helper "studioku_backend/internals/helpers"
)

// GradeAdminController serves the read-only grade board for admins.
type GradeAdminController struct {
	DB *gorm.DB
}

func NewGradeAdminController(db *gorm.DB) *GradeAdminController {
	return &GradeAdminController{DB: db}
}

type gradeListRow struct {
	ID                 uuid.UUID
	StudentID          uuid.UUID
	StudentName        *string
	GroupID            uuid.UUID
	GroupName          string
	AttendanceRecordID *uuid.UUID
	LessonID           uuid.UUID
	Value              *float64
	Comment            string
	GradeDate          *time.Time
	RecordedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	TeacherName        *string
}

func gradeRowMap(r gradeListRow) fiber.Map {
	var gradeDate *string
	if r.GradeDate != nil {
		s := r.GradeDate.Format("2006-01-02")
		gradeDate = &s
	}
	return fiber.Map{
		"id":                   r.ID,
		"student_id":           r.StudentID,
		"student_name":         r.StudentName,
		"group_id":             r.GroupID,
		"group_name":           r.GroupName,
		"attendance_record_id": r.AttendanceRecordID,
		"lesson_id":            r.LessonID,
		"value":                r.Value,
		"comment":              r.Comment,
		"grade_date":           gradeDate,
		"recorded_at":          r.RecordedAt,
		"created_at":           r.CreatedAt,
		"updated_at":           r.UpdatedAt,
		"teacher_name":         r.TeacherName,
	}
}

// listGroupGrades reads the group's live grades ordered the way the
// grade board renders them.
func listGroupGrades(db *gorm.DB, groupID uuid.UUID) ([]fiber.Map, error) {
	var rows []gradeListRow
	if err := db.Raw(`
		SELECT
		    gr.id, gr.student_id, u_student.name AS student_name,
		    gr.group_id, g.name AS group_name,
		    ar.id AS attendance_record_id, gr.lesson_id,
		    gr.value, gr.comment, gr.grade_date,
		    ar.recorded_at, gr.recorded_at AS created_at, gr.updated_at,
		    u_teacher.name AS teacher_name
		FROM grades gr
		JOIN students s ON s.id = gr.student_id
		JOIN users u_student ON u_student.id = s.user_id
		JOIN groups g ON g.id = gr.group_id
		LEFT JOIN teachers t ON t.id = gr.teacher_id
		LEFT JOIN users u_teacher ON u_teacher.id = t.user_id
		LEFT JOIN attendance_records ar
		    ON ar.lesson_id = gr.lesson_id AND ar.student_id = gr.student_id
		WHERE gr.group_id = ? AND gr.deleted_at IS NULL
		ORDER BY u_student.name, ar.recorded_at NULLS LAST,
		         gr.grade_date NULLS LAST, gr.updated_at DESC`,
		groupID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	grades := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, gradeRowMap(r))
	}
	return grades, nil
}

// ListGroupGrades returns every live grade of a group.
func (ctl *GradeAdminController) ListGroupGrades(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	if _, err := scalesvc.EnsureGradesScaleApplied(db); err != nil {
		return helper.WritePGError(c, err)
	}
	grades, err := listGroupGrades(db, groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"grades": grades})
}
