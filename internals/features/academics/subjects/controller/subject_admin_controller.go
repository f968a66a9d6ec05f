package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studioku_backend/internals/features/academics/subjects/dto"
	"studioku_backend/internals/features/academics/subjects/model"
	helper "studioku_backend/internals/helpers"
)

var validate = validator.New()

// SubjectController serves subject listing (any role), the admin CRUD
// and the group attachment endpoints transcripts publish against.
type SubjectController struct {
	DB *gorm.DB
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{DB: db}
}

// GetSubjects lists subjects ordered by name. Readable by every
// authenticated role.
func (ctl *SubjectController) GetSubjects(c *fiber.Ctx) error {
	var subjects []model.SubjectModel
	if err := ctl.DB.WithContext(c.Context()).Order("name").Find(&subjects).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"subjects": subjects})
}

// CreateSubject inserts a subject; the name is unique.
func (ctl *SubjectController) CreateSubject(c *fiber.Ctx) error {
	var input dto.CreateSubjectRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	subject := model.SubjectModel{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	if input.Color != "" {
		subject.Color = input.Color
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&subject).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Subject with this name already exists")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Subject created", subject)
}

// UpdateSubject applies a partial edit and returns the stored row.
func (ctl *SubjectController) UpdateSubject(c *fiber.Ctx) error {
	subjectID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateSubjectRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	var subject model.SubjectModel
	if err := ctl.DB.WithContext(c.Context()).First(&subject, "id = ?", subjectID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Subject not found")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "OK", subject)
	}

	if err := ctl.DB.WithContext(c.Context()).Model(&subject).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Subject with this name already exists")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "Subject updated", subject)
}

// DeleteSubject removes a subject unless a class attachment or a
// published transcript still references it.
func (ctl *SubjectController) DeleteSubject(c *fiber.Ctx) error {
	subjectID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	var subject model.SubjectModel
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Subject not found")
	}

	var used int64
	err = db.Raw(`
		SELECT (SELECT COUNT(*) FROM class_subjects WHERE subject_id = ?)
		     + (SELECT COUNT(*) FROM transcript_records WHERE subject_id = ?)
		     + (SELECT COUNT(*) FROM transcript_publications WHERE subject_id = ?)`,
		subjectID, subjectID, subjectID).Scan(&used).Error
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if used > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Cannot delete subject. It is used in classes or transcripts")
	}

	if err := db.Delete(&subject).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonDeleted(c, "Subject deleted successfully", nil)
}

// GetGroupSubjects lists the subjects attached to a group with their
// dedicated teachers.
func (ctl *SubjectController) GetGroupSubjects(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var rows []struct {
		ID           uuid.UUID
		SubjectID    uuid.UUID
		SubjectName  string
		SubjectColor string
		Description  string
		TeacherID    *uuid.UUID
		TeacherName  *string
		CreatedAt    time.Time
	}
	err = ctl.DB.WithContext(c.Context()).Raw(`
		SELECT
			cs.id,
			cs.subject_id,
			c.name AS subject_name,
			c.color AS subject_color,
			c.description,
			cs.teacher_id,
			u.name AS teacher_name,
			cs.created_at
		FROM class_subjects cs
		JOIN subjects c ON c.id = cs.subject_id
		LEFT JOIN teachers t ON t.id = cs.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE cs.group_id = ?
		ORDER BY c.name`, groupID).Scan(&rows).Error
	if err != nil {
		return helper.WritePGError(c, err)
	}

	subjects := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, fiber.Map{
			"id":            r.ID,
			"subject_id":    r.SubjectID,
			"subject_name":  r.SubjectName,
			"subject_color": r.SubjectColor,
			"description":   r.Description,
			"teacher_id":    r.TeacherID,
			"teacher_name":  r.TeacherName,
			"created_at":    r.CreatedAt,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"subjects": subjects})
}

// AttachSubject links a subject to a group. The pair is unique.
func (ctl *SubjectController) AttachSubject(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input dto.AttachSubjectRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	db := ctl.DB.WithContext(c.Context())

	var groupCount int64
	if err := db.Table("groups").Where("id = ?", groupID).Count(&groupCount).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if groupCount == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	var subject model.SubjectModel
	if err := db.First(&subject, "id = ?", *input.SubjectID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Subject not found")
	}

	if input.TeacherID != nil {
		var teacherCount int64
		if err := db.Table("teachers").Where("id = ?", *input.TeacherID).Count(&teacherCount).Error; err != nil {
			return helper.WritePGError(c, err)
		}
		if teacherCount == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
		}
	}

	link := model.ClassSubjectModel{
		GroupID:   groupID,
		SubjectID: subject.ID,
		TeacherID: input.TeacherID,
	}
	if err := db.Create(&link).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Subject is already attached to this group")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Subject attached to group", link)
}

// DetachSubject removes a group's subject attachment. Published
// transcript records keep their denormalized subject snapshot.
func (ctl *SubjectController) DetachSubject(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	subjectID, err := helper.ParseUUIDParam(c, "sid")
	if err != nil {
		return err
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("group_id = ? AND subject_id = ?", groupID, subjectID).
		Delete(&model.ClassSubjectModel{})
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Subject is not attached to this group")
	}
	return helper.JsonDeleted(c, "Subject detached from group", nil)
}
