package controller

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studioku_backend/internals/constants"
	"studioku_backend/internals/features/assessments/grades/dto"
	"studioku_backend/internals/features/assessments/grades/model"
	scalesvc "studioku_backend/internals/features/assessments/grades/service"
	teachersvc "studioku_backend/internals/features/studio/teachers/service"
	auditsvc "studioku_backend/internals/features/system/audit/service"
	settingssvc "studioku_backend/internals/features/system/settings/service"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

var validate = validator.New()

// GradeTeacherController serves grade editing and the teacher's group
// listing. Editing is governed by the grades.teacher_edit_enabled
// setting.
type GradeTeacherController struct {
	DB *gorm.DB
}

func NewGradeTeacherController(db *gorm.DB) *GradeTeacherController {
	return &GradeTeacherController{DB: db}
}

/* =========================
   Target resolution
========================= */

type gradeTarget struct {
	GroupID   uuid.UUID
	StudentID uuid.UUID
	LessonID  uuid.UUID
}

// resolveTarget turns either targeting shape into the concrete triple.
// fiber errors carry the original status codes so handlers return them
// as-is.
func resolveTarget(db *gorm.DB, recordID, groupID, studentID, lessonID *uuid.UUID) (*gradeTarget, error) {
	if recordID != nil {
		var row struct {
			StudentID uuid.UUID
			LessonID  uuid.UUID
			GroupID   uuid.UUID
		}
		res := db.Raw(`
			SELECT ar.student_id, ar.lesson_id, l.group_id
			FROM attendance_records ar
			JOIN lessons l ON l.id = ar.lesson_id
			WHERE ar.id = ?`, recordID).Scan(&row)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, fiber.NewError(fiber.StatusNotFound, "Attendance record not found")
		}
		return &gradeTarget{GroupID: row.GroupID, StudentID: row.StudentID, LessonID: row.LessonID}, nil
	}
	if groupID == nil || studentID == nil || lessonID == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"Provide attendance_record_id or group_id+student_id+lesson_id")
	}
	return &gradeTarget{GroupID: *groupID, StudentID: *studentID, LessonID: *lessonID}, nil
}

func formatGrade(v *float64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

type gradeAuditContext struct {
	GroupName    string
	StudentName  string
	StudentEmail string
	LessonStart  *time.Time
}

// auditContext collects the display names the audit label carries.
// Best-effort: ids stand in when lookups come back empty.
func auditContext(db *gorm.DB, t *gradeTarget) gradeAuditContext {
	ctx := gradeAuditContext{
		GroupName:   t.GroupID.String(),
		StudentName: t.StudentID.String(),
	}
	var name string
	if err := db.Table("groups").Select("name").Where("id = ?", t.GroupID).Limit(1).
		Scan(&name).Error; err == nil && name != "" {
		ctx.GroupName = name
	}
	var student struct {
		Name  string
		Email string
	}
	if err := db.Raw(`
		SELECT u.name, u.email
		FROM students s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?`, t.StudentID).Scan(&student).Error; err == nil && student.Name != "" {
		ctx.StudentName = student.Name
		ctx.StudentEmail = student.Email
	}
	var start time.Time
	res := db.Table("lessons").Select("start_time").Where("id = ?", t.LessonID).Limit(1).Scan(&start)
	if res.Error == nil && res.RowsAffected > 0 {
		ctx.LessonStart = &start
	}
	return ctx
}

func (ctx gradeAuditContext) identity() string {
	if ctx.StudentEmail != "" {
		return fmt.Sprintf("%s <%s>", ctx.StudentName, ctx.StudentEmail)
	}
	return ctx.StudentName
}

func (ctx gradeAuditContext) dateLabel(fallback *time.Time) string {
	if ctx.LessonStart != nil {
		return dbtime.ToStudio(*ctx.LessonStart).Format("2006-01-02 15:04")
	}
	if fallback != nil {
		return fallback.Format("2006-01-02")
	}
	return "—"
}

/* =========================
   Handlers
========================= */

// Upsert creates or replaces the grade for one (student, lesson) pair.
func (ctl *GradeTeacherController) Upsert(c *fiber.Ctx) error {
	db := ctl.DB.WithContext(c.Context())
	if !settingssvc.GetBool(db, constants.SettingGradesTeacherEditEnabled, true) {
		return helper.JsonError(c, fiber.StatusForbidden, "Редактирование оценок отключено")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	teacherID, err := teachersvc.ResolveTeacherID(db, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if teacherID == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher profile not found")
	}

	var req dto.UpsertGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	target, err := resolveTarget(db, req.AttendanceRecordID, req.GroupID, req.StudentID, req.LessonID)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.WritePGError(c, err)
	}

	assigned, err := teachersvc.AssignedToGroup(db, *teacherID, target.GroupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if !assigned {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this group")
	}

	var enrolled int64
	if err := db.Table("group_students").
		Where("group_id = ? AND student_id = ?", target.GroupID, target.StudentID).
		Count(&enrolled).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if enrolled == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Student is not enrolled in this group")
	}

	var gradeDate time.Time
	if req.GradeDate != "" {
		gradeDate, err = dbtime.ParseDate(req.GradeDate)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "grade_date must be YYYY-MM-DD")
		}
	} else {
		now := dbtime.NowInStudio()
		gradeDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	scale, err := scalesvc.EnsureGradesScaleApplied(db)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	max := scalesvc.ScaleMax(scale)
	if req.Value < 0 || req.Value > max {
		return helper.JsonError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Оценка должна быть от 0 до %s", strconv.FormatFloat(max, 'g', -1, 64)))
	}

	var before *model.GradeModel
	{
		var row model.GradeModel
		if err := db.Take(&row, "student_id = ? AND lesson_id = ?",
			target.StudentID, target.LessonID).Error; err == nil {
			before = &row
		}
	}

	grade := model.GradeModel{
		StudentID: target.StudentID,
		LessonID:  target.LessonID,
		GroupID:   target.GroupID,
		TeacherID: *teacherID,
		Value:     &req.Value,
		Comment:   req.Comment,
		GradeDate: &gradeDate,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"group_id":   target.GroupID,
			"teacher_id": *teacherID,
			"value":      req.Value,
			"comment":    req.Comment,
			"grade_date": gradeDate,
			"deleted_at": nil,
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(&grade).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	actx := auditContext(db, target)
	label := fmt.Sprintf("Изменение оценки: группа: %s: %s: студент: %s",
		actx.GroupName, actx.dateLabel(&gradeDate), actx.identity())
	key := constants.AuditGradeUpdated
	switch {
	case before == nil:
		key = constants.AuditGradeCreated
		label += fmt.Sprintf(": оценка: %s", formatGrade(&req.Value))
	case before.Value == nil || *before.Value != req.Value:
		label += fmt.Sprintf(": оценка: %s → %s", formatGrade(before.Value), formatGrade(&req.Value))
	}
	meta := map[string]any{
		"group_id":      target.GroupID,
		"group_name":    actx.GroupName,
		"student_id":    target.StudentID,
		"student_name":  actx.StudentName,
		"student_email": actx.StudentEmail,
		"lesson_id":     target.LessonID,
		"grade_date":    gradeDate.Format("2006-01-02"),
		"after":         map[string]any{"value": req.Value, "comment": req.Comment},
	}
	if actx.LessonStart != nil {
		meta["lesson_start"] = actx.LessonStart
	}
	if before != nil {
		meta["before"] = map[string]any{"value": before.Value, "comment": before.Comment}
	}
	auditsvc.LogAction(db, auditsvc.EntryFromCtx(c, key, label, meta))

	return helper.JsonOK(c, "Grade saved", fiber.Map{"grade_id": grade.ID})
}

// Delete soft-deletes the grade for one (student, lesson) pair.
func (ctl *GradeTeacherController) Delete(c *fiber.Ctx) error {
	db := ctl.DB.WithContext(c.Context())
	if !settingssvc.GetBool(db, constants.SettingGradesTeacherEditEnabled, true) {
		return helper.JsonError(c, fiber.StatusForbidden, "Редактирование оценок отключено")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	teacherID, err := teachersvc.ResolveTeacherID(db, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if teacherID == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher profile not found")
	}

	var req dto.DeleteGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	target, err := resolveTarget(db, req.AttendanceRecordID, req.GroupID, req.StudentID, req.LessonID)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.WritePGError(c, err)
	}

	assigned, err := teachersvc.AssignedToGroup(db, *teacherID, target.GroupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if !assigned {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this group")
	}

	var before *model.GradeModel
	{
		var row model.GradeModel
		if err := db.Take(&row, "student_id = ? AND lesson_id = ?",
			target.StudentID, target.LessonID).Error; err == nil {
			before = &row
		}
	}

	res := db.Model(&model.GradeModel{}).Unscoped().
		Where("group_id = ? AND student_id = ? AND lesson_id = ?",
			target.GroupID, target.StudentID, target.LessonID).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("NOW()"),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}

	actx := auditContext(db, target)
	var beforeValue *float64
	if before != nil {
		beforeValue = before.Value
	}
	label := fmt.Sprintf("Удаление оценки: группа: %s: %s: студент: %s: оценка: %s",
		actx.GroupName, actx.dateLabel(nil), actx.identity(), formatGrade(beforeValue))
	meta := map[string]any{
		"group_id":      target.GroupID,
		"group_name":    actx.GroupName,
		"student_id":    target.StudentID,
		"student_name":  actx.StudentName,
		"student_email": actx.StudentEmail,
		"lesson_id":     target.LessonID,
	}
	if actx.LessonStart != nil {
		meta["lesson_start"] = actx.LessonStart
	}
	if before != nil {
		meta["before"] = map[string]any{
			"value":      before.Value,
			"comment":    before.Comment,
			"grade_date": before.GradeDate,
		}
	}
	auditsvc.LogAction(db, auditsvc.EntryFromCtx(c, constants.AuditGradeDeleted, label, meta))

	return helper.JsonDeleted(c, "Grade deleted", fiber.Map{"deleted": res.RowsAffected})
}

// ListGroupGrades returns the group's live grades for the grade board.
func (ctl *GradeTeacherController) ListGroupGrades(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	if _, err := scalesvc.EnsureGradesScaleApplied(db); err != nil {
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

	grades, err := listGroupGrades(db, groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"grades": grades})
}
