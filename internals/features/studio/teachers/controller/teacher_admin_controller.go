package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	schedulesvc "studioku_backend/internals/features/academics/schedules/service"
	"studioku_backend/internals/features/studio/teachers/dto"
	"studioku_backend/internals/features/studio/teachers/model"
	authservice "studioku_backend/internals/features/users/auth/service"
	usermodel "studioku_backend/internals/features/users/user/model"
	"studioku_backend/internals/constants"
	helper "studioku_backend/internals/helpers"
)

var validate = validator.New()

// TeacherAdminController serves the /api/a/teachers endpoints.
type TeacherAdminController struct {
	DB *gorm.DB
}

func NewTeacherAdminController(db *gorm.DB) *TeacherAdminController {
	return &TeacherAdminController{DB: db}
}

type teacherRow struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	TeacherID  *uuid.UUID
	HourlyRate *float64
	Bio        *string
}

// GetTeachers lists all teacher-role accounts with their profile.
func (ctl *TeacherAdminController) GetTeachers(c *fiber.Ctx) error {
	var rows []teacherRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT
		    u.id AS user_id, u.name, u.email,
		    t.id AS teacher_id, t.hourly_rate, t.bio
		FROM users u
		LEFT JOIN teachers t ON t.user_id = u.id
		WHERE u.role = 'teacher'
		ORDER BY u.name`).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	teachers := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		id := r.UserID
		if r.TeacherID != nil {
			id = *r.TeacherID
		}
		bio := ""
		if r.Bio != nil {
			bio = *r.Bio
		}
		teachers = append(teachers, fiber.Map{
			"id":          id,
			"user_id":     r.UserID,
			"name":        r.Name,
			"email":       r.Email,
			"hourly_rate": r.HourlyRate,
			"bio":         bio,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"teachers": teachers})
}

type teacherGroupRow struct {
	ID              uuid.UUID
	Name            string
	DurationMinutes int
	HallName        *string
	IsMain          bool
}

// GetTeacherGroups lists the open groups a teacher is assigned to,
// with the formatted weekly schedule of each.
func (ctl *TeacherAdminController) GetTeacherGroups(c *fiber.Ctx) error {
	teacherID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var rows []teacherGroupRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT g.id, g.name, g.duration_minutes, h.name AS hall_name, gt.is_main
		FROM groups g
		INNER JOIN group_teachers gt ON gt.group_id = g.id AND gt.teacher_id = ?
		LEFT JOIN halls h ON h.id = g.hall_id
		WHERE g.is_closed = FALSE
		ORDER BY g.name`, teacherID).Scan(&rows).Error; err != nil {
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

	schedules := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		hallName := "Не указан"
		if r.HallName != nil && *r.HallName != "" {
			hallName = *r.HallName
		}
		schedules = append(schedules, fiber.Map{
			"group_id":   r.ID,
			"group_name": r.Name,
			"schedule":   scheduleMap[r.ID],
			"hall_name":  hallName,
			"duration":   r.DurationMinutes,
			"is_main":    r.IsMain,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"schedules": schedules})
}

// CreateTeacher inserts the users row and teachers profile together.
func (ctl *TeacherAdminController) CreateTeacher(c *fiber.Ctx) error {
	var input dto.CreateTeacherRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	hash, err := authservice.HashPassword(input.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Внутренняя ошибка сервера")
	}

	var teacher model.TeacherModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		user := usermodel.UserModel{
			Name:     strings.TrimSpace(input.Name),
			Email:    strings.ToLower(strings.TrimSpace(input.Email)),
			Password: hash,
			Role:     constants.RoleTeacher,
			IsActive: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		teacher = model.TeacherModel{
			UserID:     user.ID,
			HourlyRate: input.HourlyRate,
			Bio:        strings.TrimSpace(input.Bio),
		}
		return tx.Create(&teacher).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Email is already in use by another user")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Teacher created", fiber.Map{"teacher_id": teacher.ID})
}

// UpdateTeacher partially edits the account and profile rows.
func (ctl *TeacherAdminController) UpdateTeacher(c *fiber.Ctx) error {
	teacherID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateTeacherRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	var teacher model.TeacherModel
	if err := ctl.DB.WithContext(c.Context()).First(&teacher, "id = ?", teacherID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		userUpdates := map[string]any{}
		if input.Name != nil {
			userUpdates["name"] = strings.TrimSpace(*input.Name)
		}
		if input.Email != nil {
			userUpdates["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
		}
		if input.Password != nil {
			hash, err := authservice.HashPassword(*input.Password)
			if err != nil {
				return err
			}
			userUpdates["password"] = hash
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&usermodel.UserModel{}).Where("id = ?", teacher.UserID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}

		teacherUpdates := map[string]any{}
		if input.HourlyRate != nil {
			teacherUpdates["hourly_rate"] = *input.HourlyRate
		}
		if input.Bio != nil {
			teacherUpdates["bio"] = strings.TrimSpace(*input.Bio)
		}
		if len(teacherUpdates) > 0 {
			if err := tx.Model(&model.TeacherModel{}).Where("id = ?", teacherID).Updates(teacherUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Email is already in use by another user")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "Teacher updated", nil)
}

// DeleteTeacher removes the profile and account when the teacher has
// no group assignments left.
func (ctl *TeacherAdminController) DeleteTeacher(c *fiber.Ctx) error {
	teacherID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var assigned int64
	if err := ctl.DB.WithContext(c.Context()).Table("group_teachers").Where("teacher_id = ?", teacherID).Count(&assigned).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if assigned > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Cannot delete teacher - they are currently assigned to one or more groups")
	}

	var teacher model.TeacherModel
	if err := ctl.DB.WithContext(c.Context()).First(&teacher, "id = ?", teacherID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.TeacherModel{}, "id = ?", teacherID).Error; err != nil {
			return err
		}
		return tx.Delete(&usermodel.UserModel{}, "id = ?", teacher.UserID).Error
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonDeleted(c, "Teacher deleted", nil)
}
