package controller

import (
	"encoding/json"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studioku_backend/internals/constants"
	scalesvc "studioku_backend/internals/features/assessments/grades/service"
	"studioku_backend/internals/features/assessments/transcripts/model"
	auditsvc "studioku_backend/internals/features/system/audit/service"
	settingssvc "studioku_backend/internals/features/system/settings/service"
	helper "studioku_backend/internals/helpers"
)

// TranscriptAdminController serves the transcript board and publishes
// frozen grade snapshots per (group, subject).
type TranscriptAdminController struct {
	DB *gorm.DB
}

func NewTranscriptAdminController(db *gorm.DB) *TranscriptAdminController {
	return &TranscriptAdminController{DB: db}
}

type subjectOption struct {
	SubjectID    uuid.UUID `json:"subject_id"`
	SubjectName  string    `json:"subject_name"`
	SubjectColor string    `json:"subject_color"`
}

// groupSubjects lists the subjects attached to a group, ordered by name.
func groupSubjects(db *gorm.DB, groupID uuid.UUID) ([]subjectOption, error) {
	subjects := []subjectOption{}
	err := db.Raw(`
		SELECT cs.subject_id, c.name AS subject_name, c.color AS subject_color
		FROM class_subjects cs
		JOIN subjects c ON c.id = cs.subject_id
		WHERE cs.group_id = ?
		ORDER BY c.name`, groupID).Scan(&subjects).Error
	return subjects, err
}

func totalLessons(db *gorm.DB, groupID uuid.UUID, excludeCancelled bool) (int64, error) {
	q := db.Table("lessons").Where("group_id = ?", groupID)
	if excludeCancelled {
		q = q.Where("COALESCE(is_cancelled, FALSE) = FALSE")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

type missingStudent struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	MissingLessons int64     `json:"missing_lessons"`
}

type gradeCoverage struct {
	TotalLessons        int64
	TotalStudents       int
	MissingLessonsTotal int64
	Missing             []missingStudent
}

// gradeCoverageFor compares each enrolled student's graded lesson count
// against the group's lesson total. A student is "missing" when at
// least one lesson has no live grade for them.
func gradeCoverageFor(db *gorm.DB, groupID uuid.UUID, excludeCancelled bool) (gradeCoverage, error) {
	cov := gradeCoverage{Missing: []missingStudent{}}

	total, err := totalLessons(db, groupID, excludeCancelled)
	if err != nil {
		return cov, err
	}
	cov.TotalLessons = total

	query := `
		SELECT
			s.id          AS student_id,
			u.name        AS student_name,
			COUNT(DISTINCT gr.lesson_id) AS graded_lessons
		FROM group_students gs
		JOIN students s ON s.id = gs.student_id
		JOIN users u ON u.id = s.user_id
		LEFT JOIN grades gr ON gr.student_id = s.id
			AND gr.group_id = gs.group_id
			AND gr.deleted_at IS NULL
		LEFT JOIN lessons l ON l.id = gr.lesson_id
		WHERE gs.group_id = ?`
	if excludeCancelled {
		query += ` AND (gr.lesson_id IS NULL OR COALESCE(l.is_cancelled, FALSE) = FALSE)`
	}
	query += `
		GROUP BY s.id, u.name
		ORDER BY u.name`

	var rows []struct {
		StudentID     uuid.UUID
		StudentName   string
		GradedLessons int64
	}
	if err := db.Raw(query, groupID).Scan(&rows).Error; err != nil {
		return cov, err
	}

	cov.TotalStudents = len(rows)
	for _, r := range rows {
		if total > 0 && r.GradedLessons < total {
			missing := total - r.GradedLessons
			cov.Missing = append(cov.Missing, missingStudent{
				ID:             r.StudentID,
				Name:           r.StudentName,
				MissingLessons: missing,
			})
			cov.MissingLessonsTotal += missing
		}
	}
	return cov, nil
}

// publicationHistory returns the last 20 publish actions for the group,
// optionally narrowed to one subject.
func publicationHistory(db *gorm.DB, groupID uuid.UUID, subjectID *uuid.UUID) ([]fiber.Map, error) {
	query := `
		SELECT
			tp.id,
			tp.subject_id,
			COALESCE(tp.subject_name, c.name) AS subject_name,
			tp.total_students,
			tp.total_lessons,
			tp.published_at,
			u.name AS actor_name
		FROM transcript_publications tp
		LEFT JOIN subjects c ON c.id = tp.subject_id
		LEFT JOIN users u ON u.id = tp.published_by
		WHERE tp.group_id = ?`
	args := []any{groupID}
	if subjectID != nil {
		query += ` AND tp.subject_id = ?`
		args = append(args, *subjectID)
	}
	query += `
		ORDER BY tp.published_at DESC
		LIMIT 20`

	var rows []struct {
		ID            uuid.UUID
		SubjectID     uuid.UUID
		SubjectName   *string
		TotalStudents int
		TotalLessons  int
		PublishedAt   time.Time
		ActorName     *string
	}
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	history := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		history = append(history, fiber.Map{
			"id":             r.ID,
			"subject_id":     r.SubjectID,
			"subject_name":   r.SubjectName,
			"total_students": r.TotalStudents,
			"total_lessons":  r.TotalLessons,
			"published_at":   r.PublishedAt,
			"actor_name":     r.ActorName,
		})
	}
	return history, nil
}

// rawGrades passes a stored grades_json column through as-is, with an
// empty array for rows published before the column was filled.
func rawGrades(b datatypes.JSON) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("[]")
	}
	return json.RawMessage(b)
}

// GetGroupTranscript returns the transcript board for a group:
// attached subjects, published records for the selected subject,
// publish readiness status and recent publication history.
func (ctl *TranscriptAdminController) GetGroupTranscript(c *fiber.Ctx) error {
	db := ctl.DB.WithContext(c.Context())
	if !settingssvc.GetBool(db, constants.SettingTranscriptEnabled, true) {
		return helper.JsonError(c, fiber.StatusForbidden, "Транскрипт отключен в настройках")
	}
	excludeCancelled := settingssvc.GetBool(db, constants.SettingTranscriptExcludeCancelled, true)

	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	subjects, err := groupSubjects(db, groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}

	var selected *uuid.UUID
	if raw := c.Query("subject_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Некорректный идентификатор")
		}
		selected = &id
	}
	if selected == nil && len(subjects) == 1 {
		selected = &subjects[0].SubjectID
	}

	cov, err := gradeCoverageFor(db, groupID, excludeCancelled)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	requireComplete := settingssvc.GetBool(db, constants.SettingTranscriptRequireComplete, true)
	canPublish := cov.TotalLessons > 0 && (!requireComplete || len(cov.Missing) == 0)

	records := []fiber.Map{}
	if selected != nil && (len(subjects) == 0 || subjectAttached(subjects, *selected)) {
		var rows []struct {
			ID           uuid.UUID
			StudentID    uuid.UUID
			StudentName  string
			AverageValue float64
			GradeCount   int
			GradesJSON   datatypes.JSON
			PublishedAt  time.Time
			UpdatedAt    time.Time
			GroupName    *string
			SubjectName  *string
			SubjectColor *string
		}
		err := db.Raw(`
			SELECT
				tr.id,
				tr.student_id,
				u.name AS student_name,
				tr.average_value,
				tr.grade_count,
				tr.grades_json,
				tr.published_at,
				tr.updated_at,
				COALESCE(NULLIF(tr.group_name, ''), g.name) AS group_name,
				COALESCE(NULLIF(tr.subject_name, ''), c.name) AS subject_name,
				COALESCE(NULLIF(tr.subject_color, ''), c.color) AS subject_color
			FROM transcript_records tr
			JOIN students s ON s.id = tr.student_id
			JOIN users u ON u.id = s.user_id
			LEFT JOIN groups g ON g.id = tr.group_id
			LEFT JOIN subjects c ON c.id = tr.subject_id
			WHERE tr.group_id = ? AND tr.subject_id = ?
			ORDER BY u.name`, groupID, *selected).Scan(&rows).Error
		if err != nil {
			return helper.WritePGError(c, err)
		}
		for _, r := range rows {
			records = append(records, fiber.Map{
				"id":            r.ID,
				"student_id":    r.StudentID,
				"student_name":  r.StudentName,
				"average_value": r.AverageValue,
				"grade_count":   r.GradeCount,
				"grades":        rawGrades(r.GradesJSON),
				"published_at":  r.PublishedAt,
				"updated_at":    r.UpdatedAt,
				"group_name":    r.GroupName,
				"subject_name":  r.SubjectName,
				"subject_color": r.SubjectColor,
			})
		}
	}

	history, err := publicationHistory(db, groupID, selected)
	if err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"subjects":   subjects,
		"subject_id": selected,
		"records":    records,
		"status": fiber.Map{
			"can_publish":           canPublish,
			"missing_students":      cov.Missing,
			"total_lessons":         cov.TotalLessons,
			"total_students":        cov.TotalStudents,
			"missing_lessons_total": cov.MissingLessonsTotal,
			"require_complete":      requireComplete,
		},
		"history": history,
	})
}

func subjectAttached(subjects []subjectOption, id uuid.UUID) bool {
	for _, s := range subjects {
		if s.SubjectID == id {
			return true
		}
	}
	return false
}

// transcriptGradeEntry is one grade inside a published grades_json
// snapshot. The snapshot is frozen as of publication and is not
// affected by later grade edits.
type transcriptGradeEntry struct {
	LessonID    *uuid.UUID `json:"lesson_id"`
	Value       float64    `json:"value"`
	Comment     string     `json:"comment"`
	GradeDate   *string    `json:"grade_date"`
	RecordedAt  *time.Time `json:"recorded_at"`
	LessonStart *time.Time `json:"lesson_start"`
	TeacherName *string    `json:"teacher_name"`
}

type publishResult struct {
	Subject subjectOption `json:"subject"`
	Records []fiber.Map   `json:"records"`
}

// publishSubject freezes the group's live grades into transcript
// records for one subject and appends a publication history row.
// Callers check the readiness gates and run this inside a transaction.
func publishSubject(tx *gorm.DB, groupID uuid.UUID, subj subjectOption, groupName string, actorID uuid.UUID, cov gradeCoverage) (publishResult, error) {
	result := publishResult{Subject: subj, Records: []fiber.Map{}}

	var rows []struct {
		StudentID   uuid.UUID
		StudentName string
		LessonID    *uuid.UUID
		Value       *float64
		Comment     string
		GradeDate   *time.Time
		RecordedAt  *time.Time
		LessonStart *time.Time
		TeacherName *string
	}
	err := tx.Raw(`
		SELECT
			gr.student_id,
			u_student.name AS student_name,
			gr.lesson_id,
			gr.value,
			gr.comment,
			gr.grade_date,
			ar.recorded_at,
			l.start_time AS lesson_start,
			u_teacher.name AS teacher_name
		FROM grades gr
		JOIN students s ON s.id = gr.student_id
		JOIN users u_student ON u_student.id = s.user_id
		JOIN teachers t ON t.id = gr.teacher_id
		JOIN users u_teacher ON u_teacher.id = t.user_id
		LEFT JOIN attendance_records ar ON ar.lesson_id = gr.lesson_id AND ar.student_id = gr.student_id
		LEFT JOIN lessons l ON l.id = gr.lesson_id
		WHERE gr.group_id = ? AND gr.deleted_at IS NULL
		ORDER BY u_student.name, l.start_time NULLS LAST, gr.grade_date NULLS LAST, gr.updated_at DESC`,
		groupID).Scan(&rows).Error
	if err != nil {
		return result, err
	}

	type studentGrades struct {
		Name    string
		Entries []transcriptGradeEntry
	}
	order := make([]uuid.UUID, 0)
	byStudent := make(map[uuid.UUID]*studentGrades)
	for _, r := range rows {
		entry, ok := byStudent[r.StudentID]
		if !ok {
			entry = &studentGrades{Name: r.StudentName}
			byStudent[r.StudentID] = entry
			order = append(order, r.StudentID)
		}
		if r.Value == nil {
			continue
		}
		var gradeDate *string
		if r.GradeDate != nil {
			s := r.GradeDate.Format("2006-01-02")
			gradeDate = &s
		}
		entry.Entries = append(entry.Entries, transcriptGradeEntry{
			LessonID:    r.LessonID,
			Value:       *r.Value,
			Comment:     r.Comment,
			GradeDate:   gradeDate,
			RecordedAt:  r.RecordedAt,
			LessonStart: r.LessonStart,
			TeacherName: r.TeacherName,
		})
	}

	for _, studentID := range order {
		entry := byStudent[studentID]
		if len(entry.Entries) == 0 {
			continue
		}
		var sum float64
		for _, g := range entry.Entries {
			sum += g.Value
		}
		average := math.Round(sum/float64(len(entry.Entries))*100) / 100
		payload, err := json.Marshal(entry.Entries)
		if err != nil {
			return result, err
		}

		rec := model.TranscriptRecordModel{
			StudentID:    studentID,
			GroupID:      groupID,
			SubjectID:    subj.SubjectID,
			GroupName:    groupName,
			SubjectName:  subj.SubjectName,
			SubjectColor: subj.SubjectColor,
			AverageValue: average,
			GradeCount:   len(entry.Entries),
			GradesJSON:   datatypes.JSON(payload),
			PublishedBy:  &actorID,
			PublishedAt:  time.Now().UTC(),
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "group_id"}, {Name: "subject_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"group_name":    groupName,
				"subject_name":  subj.SubjectName,
				"subject_color": subj.SubjectColor,
				"average_value": average,
				"grade_count":   len(entry.Entries),
				"grades_json":   datatypes.JSON(payload),
				"published_by":  actorID,
				"published_at":  gorm.Expr("NOW()"),
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).Create(&rec).Error
		if err != nil {
			return result, err
		}

		result.Records = append(result.Records, fiber.Map{
			"student_id":    studentID,
			"student_name":  entry.Name,
			"average_value": average,
			"grade_count":   len(entry.Entries),
			"grades":        entry.Entries,
		})
	}

	pub := model.TranscriptPublicationModel{
		GroupID:       groupID,
		SubjectID:     subj.SubjectID,
		GroupName:     groupName,
		SubjectName:   subj.SubjectName,
		SubjectColor:  subj.SubjectColor,
		PublishedBy:   &actorID,
		TotalStudents: cov.TotalStudents,
		TotalLessons:  int(cov.TotalLessons),
	}
	if err := tx.Create(&pub).Error; err != nil {
		return result, err
	}
	return result, nil
}

// PublishSubject publishes the transcript for one subject of a group.
func (ctl *TranscriptAdminController) PublishSubject(c *fiber.Ctx) error {
	db := ctl.DB.WithContext(c.Context())
	if !settingssvc.GetBool(db, constants.SettingTranscriptEnabled, true) {
		return helper.JsonError(c, fiber.StatusForbidden, "Транскрипт отключен в настройках")
	}
	requireComplete := settingssvc.GetBool(db, constants.SettingTranscriptRequireComplete, true)
	excludeCancelled := settingssvc.GetBool(db, constants.SettingTranscriptExcludeCancelled, true)

	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	subjectID, err := helper.ParseUUIDParam(c, "sid")
	if err != nil {
		return err
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var group struct {
		ID   uuid.UUID
		Name string
	}
	res := db.Raw(`SELECT id, name FROM groups WHERE id = ?`, groupID).Scan(&group)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
	}

	subjects, err := groupSubjects(db, groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if len(subjects) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Для класса не указан предмет")
	}
	var subj *subjectOption
	for i := range subjects {
		if subjects[i].SubjectID == subjectID {
			subj = &subjects[i]
			break
		}
	}
	if subj == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Предмет не относится к этому классу")
	}

	if _, err := scalesvc.EnsureGradesScaleApplied(db); err != nil {
		return helper.WritePGError(c, err)
	}
	cov, err := gradeCoverageFor(db, groupID, excludeCancelled)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if cov.TotalLessons == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "В классе нет уроков. Публикация недоступна.")
	}
	if requireComplete && len(cov.Missing) > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Не у всех учеников есть оценки. Публикация недоступна.")
	}

	var result publishResult
	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = publishSubject(tx, groupID, *subj, group.Name, actorID, cov)
		return txErr
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}

	auditsvc.LogAction(db, auditsvc.EntryFromCtx(c, constants.AuditTranscriptPublished,
		"Публикация оценок в транскрипт", map[string]any{
			"group_id":         groupID,
			"subject_id":       subj.SubjectID,
			"subject_name":     subj.SubjectName,
			"student_count":    len(result.Records),
			"missing_students": len(cov.Missing),
			"total_lessons":    cov.TotalLessons,
		}))

	return helper.JsonOK(c, "Transcript published", fiber.Map{
		"subject": result.Subject,
		"records": result.Records,
	})
}

// PublishAll publishes the transcript for every subject attached to
// the group in one transaction.
func (ctl *TranscriptAdminController) PublishAll(c *fiber.Ctx) error {
	db := ctl.DB.WithContext(c.Context())
	if !settingssvc.GetBool(db, constants.SettingTranscriptEnabled, true) {
		return helper.JsonError(c, fiber.StatusForbidden, "Транскрипт отключен в настройках")
	}
	requireComplete := settingssvc.GetBool(db, constants.SettingTranscriptRequireComplete, true)
	excludeCancelled := settingssvc.GetBool(db, constants.SettingTranscriptExcludeCancelled, true)

	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var group struct {
		ID   uuid.UUID
		Name string
	}
	res := db.Raw(`SELECT id, name FROM groups WHERE id = ?`, groupID).Scan(&group)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
	}

	subjects, err := groupSubjects(db, groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if len(subjects) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Для класса не указан предмет")
	}

	if _, err := scalesvc.EnsureGradesScaleApplied(db); err != nil {
		return helper.WritePGError(c, err)
	}
	cov, err := gradeCoverageFor(db, groupID, excludeCancelled)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if cov.TotalLessons == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "В классе нет уроков. Публикация недоступна.")
	}
	if requireComplete && len(cov.Missing) > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Не у всех учеников есть оценки. Публикация недоступна.")
	}

	results := make([]publishResult, 0, len(subjects))
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, subj := range subjects {
			result, txErr := publishSubject(tx, groupID, subj, group.Name, actorID, cov)
			if txErr != nil {
				return txErr
			}
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}

	auditsvc.LogAction(db, auditsvc.EntryFromCtx(c, constants.AuditTranscriptPublishedAll,
		"Публикация транскрипта по всем предметам", map[string]any{
			"group_id":       groupID,
			"group_name":     group.Name,
			"subjects_count": len(subjects),
		}))

	return helper.JsonOK(c, "Transcript published for all subjects", fiber.Map{
		"subjects": subjects,
		"results":  results,
	})
}
