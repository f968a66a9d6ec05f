package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	scalesvc "studioku_backend/internals/features/assessments/grades/service"
	studentmodel "studioku_backend/internals/features/studio/students/model"
	helper "studioku_backend/internals/helpers"
)

// GradeStudentController serves the student's own grade history.
type GradeStudentController struct {
	DB *gorm.DB
}

func NewGradeStudentController(db *gorm.DB) *GradeStudentController {
	return &GradeStudentController{DB: db}
}

// ListMyGrades returns the student's live grades across all groups,
// with the teacher who set each one.
func (ctl *GradeStudentController) ListMyGrades(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	var student studentmodel.StudentModel
	if err := db.Select("id").First(&student, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
		}
		return helper.WritePGError(c, err)
	}

	if _, err := scalesvc.EnsureGradesScaleApplied(db); err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []gradeListRow
	if err := db.Raw(`
		SELECT
		    gr.id, gr.student_id,
		    gr.group_id, g.name AS group_name,
		    ar.id AS attendance_record_id, gr.lesson_id,
		    gr.value, gr.comment, gr.grade_date,
		    ar.recorded_at, gr.recorded_at AS created_at, gr.updated_at,
		    u_teacher.name AS teacher_name
		FROM grades gr
		JOIN groups g ON g.id = gr.group_id
		LEFT JOIN teachers t ON t.id = gr.teacher_id
		LEFT JOIN users u_teacher ON u_teacher.id = t.user_id
		LEFT JOIN attendance_records ar
		    ON ar.lesson_id = gr.lesson_id AND ar.student_id = gr.student_id
		WHERE gr.student_id = ? AND gr.deleted_at IS NULL
		ORDER BY ar.recorded_at NULLS LAST, gr.grade_date NULLS LAST,
		         gr.updated_at DESC`,
		student.ID).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	grades := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		entry := gradeRowMap(r)
		delete(entry, "student_name")
		grades = append(grades, entry)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"grades": grades})
}
