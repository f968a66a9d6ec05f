package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"studioku_backend/internals/constants"
	settingssvc "studioku_backend/internals/features/system/settings/service"
	helper "studioku_backend/internals/helpers"
)

// TranscriptStudentController serves a student's own published
// transcript records.
type TranscriptStudentController struct {
	DB *gorm.DB
}

func NewTranscriptStudentController(db *gorm.DB) *TranscriptStudentController {
	return &TranscriptStudentController{DB: db}
}

// GetMyTranscript lists the caller's published transcript records,
// newest publication first.
func (ctl *TranscriptStudentController) GetMyTranscript(c *fiber.Ctx) error {
	db := ctl.DB.WithContext(c.Context())
	if !settingssvc.GetBool(db, constants.SettingTranscriptEnabled, true) {
		return helper.JsonError(c, fiber.StatusForbidden, "Транскрипт отключен в настройках")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var studentID uuid.UUID
	res := db.Table("students").Select("id").Where("user_id = ?", userID).Limit(1).Scan(&studentID)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
	}

	var rows []struct {
		ID           uuid.UUID
		GroupID      uuid.UUID
		GroupName    *string
		SubjectID    uuid.UUID
		SubjectName  *string
		SubjectColor *string
		AverageValue float64
		GradeCount   int
		GradesJSON   datatypes.JSON
		PublishedAt  time.Time
		UpdatedAt    time.Time
	}
	err = db.Raw(`
		SELECT
			tr.id,
			tr.group_id,
			COALESCE(NULLIF(tr.group_name, ''), g.name) AS group_name,
			tr.subject_id,
			COALESCE(NULLIF(tr.subject_name, ''), c.name) AS subject_name,
			COALESCE(NULLIF(tr.subject_color, ''), c.color) AS subject_color,
			tr.average_value,
			tr.grade_count,
			tr.grades_json,
			tr.published_at,
			tr.updated_at
		FROM transcript_records tr
		LEFT JOIN groups g ON g.id = tr.group_id
		LEFT JOIN subjects c ON c.id = tr.subject_id
		WHERE tr.student_id = ?
		ORDER BY tr.published_at DESC`, studentID).Scan(&rows).Error
	if err != nil {
		return helper.WritePGError(c, err)
	}

	items := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		items = append(items, fiber.Map{
			"id":            r.ID,
			"group_id":      r.GroupID,
			"group_name":    r.GroupName,
			"subject_id":    r.SubjectID,
			"subject_name":  r.SubjectName,
			"subject_color": r.SubjectColor,
			"average_value": r.AverageValue,
			"grade_count":   r.GradeCount,
			"grades":        rawGrades(r.GradesJSON),
			"published_at":  r.PublishedAt,
			"updated_at":    r.UpdatedAt,
		})
	}

	return helper.JsonOK(c, "OK", fiber.Map{"items": items})
}
