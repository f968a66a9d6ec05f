package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studioku_backend/internals/features/studio/students/dto"
	"studioku_backend/internals/features/studio/students/model"
	authservice "studioku_backend/internals/features/users/auth/service"
	usermodel "studioku_backend/internals/features/users/user/model"
	"studioku_backend/internals/constants"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

var validate = validator.New()

// StudentAdminController serves the /api/a/students endpoints.
type StudentAdminController struct {
	DB *gorm.DB
}

func NewStudentAdminController(db *gorm.DB) *StudentAdminController {
	return &StudentAdminController{DB: db}
}

type studentRow struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	Email             string
	PhoneNumber       string
	TrialUsed         bool
	SubscriptionUntil *string
}

// GetStudents lists all student profiles with their account fields.
func (ctl *StudentAdminController) GetStudents(c *fiber.Ctx) error {
	var rows []studentRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT s.id, u.id AS user_id, u.name, u.email, s.phone_number,
		       s.trial_used, TO_CHAR(s.subscription_until, 'YYYY-MM-DD') AS subscription_until
		FROM students s
		JOIN users u ON u.id = s.user_id
		WHERE u.role = 'student'
		ORDER BY u.name`).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	students := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		students = append(students, fiber.Map{
			"id":                 r.ID,
			"user_id":            r.UserID,
			"name":               r.Name,
			"email":              r.Email,
			"phone_number":       r.PhoneNumber,
			"trial_used":         r.TrialUsed,
			"subscription_until": r.SubscriptionUntil,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"students": students})
}

// CreateStudent inserts the users row and students profile together.
func (ctl *StudentAdminController) CreateStudent(c *fiber.Ctx) error {
	var input dto.CreateStudentRequest
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

	var student model.StudentModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		user := usermodel.UserModel{
			Name:     strings.TrimSpace(input.Name),
			Email:    strings.ToLower(strings.TrimSpace(input.Email)),
			Password: hash,
			Role:     constants.RoleStudent,
			IsActive: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		student = model.StudentModel{
			UserID:      user.ID,
			PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		}
		return tx.Create(&student).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Email is already in use by another user")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Student created", fiber.Map{"student_id": student.ID})
}

// UpdateStudent partially edits the account and profile rows.
func (ctl *StudentAdminController) UpdateStudent(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateStudentRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	var student model.StudentModel
	if err := ctl.DB.WithContext(c.Context()).First(&student, "id = ?", studentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	studentUpdates := map[string]any{}
	if input.PhoneNumber != nil {
		studentUpdates["phone_number"] = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.Comment != nil {
		studentUpdates["comment"] = *input.Comment
	}
	if input.TrialUsed != nil {
		studentUpdates["trial_used"] = *input.TrialUsed
	}
	if input.SubscriptionUntil != nil {
		until, err := dbtime.ParseDate(*input.SubscriptionUntil)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid subscription_until format. Use YYYY-MM-DD")
		}
		studentUpdates["subscription_until"] = until
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
			if err := tx.Model(&usermodel.UserModel{}).Where("id = ?", student.UserID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(studentUpdates) > 0 {
			if err := tx.Model(&model.StudentModel{}).Where("id = ?", studentID).Updates(studentUpdates).Error; err != nil {
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
	return helper.JsonUpdated(c, "Student updated", nil)
}

// DeleteStudent removes the profile and account when the student has
// no group memberships left.
func (ctl *StudentAdminController) DeleteStudent(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var enrolled int64
	if err := ctl.DB.WithContext(c.Context()).Table("group_students").Where("student_id = ?", studentID).Count(&enrolled).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if enrolled > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Cannot delete student - they are currently enrolled in one or more groups")
	}

	var student model.StudentModel
	if err := ctl.DB.WithContext(c.Context()).First(&student, "id = ?", studentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.StudentModel{}, "id = ?", studentID).Error; err != nil {
			return err
		}
		return tx.Delete(&usermodel.UserModel{}, "id = ?", student.UserID).Error
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonDeleted(c, "Student deleted", nil)
}
