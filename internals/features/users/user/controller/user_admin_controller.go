package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	studentmodel "studioku_backend/internals/features/studio/students/model"
	teachermodel "studioku_backend/internals/features/studio/teachers/model"
	auditsvc "studioku_backend/internals/features/system/audit/service"
	authservice "studioku_backend/internals/features/users/auth/service"
	"studioku_backend/internals/features/users/user/dto"
	"studioku_backend/internals/features/users/user/model"
	"studioku_backend/internals/constants"
	helper "studioku_backend/internals/helpers"
)

var validate = validator.New()

// UserAdminController serves the /api/a/users endpoints.
type UserAdminController struct {
	DB *gorm.DB
}

func NewUserAdminController(db *gorm.DB) *UserAdminController {
	return &UserAdminController{DB: db}
}

type userJoinRow struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Role       string
	IsActive   bool
	CreatedAt  time.Time
	Phone      *string
	StudentID  *uuid.UUID
	TeacherID  *uuid.UUID
	HourlyRate *float64
	Bio        *string
}

const userJoinSelect = `
SELECT
    u.id, u.name, u.email, u.role, u.is_active, u.created_at,
    s.phone_number AS phone,
    s.id AS student_id,
    t.id AS teacher_id,
    t.hourly_rate,
    t.bio
FROM users u
LEFT JOIN students s ON s.user_id = u.id
LEFT JOIN teachers t ON t.user_id = u.id`

func toUserRow(r userJoinRow) dto.UserRow {
	row := dto.UserRow{
		ID:        r.ID.String(),
		Name:      r.Name,
		Email:     r.Email,
		Role:      r.Role,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.Phone != nil {
		row.Phone = *r.Phone
	}
	if r.StudentID != nil {
		s := r.StudentID.String()
		row.StudentID = &s
	}
	if r.TeacherID != nil {
		t := r.TeacherID.String()
		row.TeacherID = &t
	}
	row.HourlyRate = r.HourlyRate
	row.Bio = r.Bio
	return row
}

// GetUsers lists every account with its joined profile rows.
// Supports ?q= (name/email ILIKE), ?role= and page/per_page.
func (ctl *UserAdminController) GetUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)

	where := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		where = append(where, "(u.name ILIKE ? OR u.email ILIKE ?)")
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		if !constants.ValidRole(role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid role filter")
		}
		where = append(where, "u.role = ?")
		args = append(args, role)
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := ctl.DB.WithContext(c.Context()).
		Raw("SELECT COUNT(*) FROM users u"+whereSQL, args...).
		Scan(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []userJoinRow
	listArgs := append(append([]any{}, args...), paging.Limit, paging.Offset)
	if err := ctl.DB.WithContext(c.Context()).
		Raw(userJoinSelect+whereSQL+" ORDER BY u.created_at DESC LIMIT ? OFFSET ?", listArgs...).
		Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	users := make([]dto.UserRow, 0, len(rows))
	for _, r := range rows {
		users = append(users, toUserRow(r))
	}
	return helper.JsonList(c, "OK", fiber.Map{"users": users},
		helper.BuildPaginationFromOffset(total, paging.Offset, paging.Limit))
}

// GetUser returns a single account by id.
func (ctl *UserAdminController) GetUser(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var rows []userJoinRow
	if err := ctl.DB.WithContext(c.Context()).
		Raw(userJoinSelect+" WHERE u.id = ?", userID).
		Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if len(rows) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonOK(c, "OK", fiber.Map{"user": toUserRow(rows[0])})
}

// UpdateUser applies a partial edit. A role change provisions the
// matching profile row; the old profile rows are kept.
func (ctl *UserAdminController) UpdateUser(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateUserRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	var existing model.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&existing, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		var count int64
		if err := ctl.DB.WithContext(c.Context()).Model(&model.UserModel{}).
			Where("email = ? AND id <> ?", email, userID).
			Count(&count).Error; err != nil {
			return helper.WritePGError(c, err)
		}
		if count > 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Email is already in use by another user")
		}
		input.Email = &email
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{}
		if input.Name != nil {
			updates["name"] = strings.TrimSpace(*input.Name)
		}
		if input.Email != nil {
			updates["email"] = *input.Email
		}
		if input.Role != nil {
			updates["role"] = *input.Role
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if len(updates) > 0 {
			if err := tx.Model(&model.UserModel{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Role change provisions the missing profile row.
		if input.Role != nil && *input.Role != existing.Role {
			switch *input.Role {
			case constants.RoleStudent:
				var n int64
				if err := tx.Model(&studentmodel.StudentModel{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
					return err
				}
				if n == 0 {
					phone := ""
					if input.Phone != nil {
						phone = *input.Phone
					}
					if err := tx.Create(&studentmodel.StudentModel{UserID: userID, PhoneNumber: phone}).Error; err != nil {
						return err
					}
				}
			case constants.RoleTeacher:
				var n int64
				if err := tx.Model(&teachermodel.TeacherModel{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
					return err
				}
				if n == 0 {
					if err := tx.Create(&teachermodel.TeacherModel{UserID: userID}).Error; err != nil {
						return err
					}
				}
			}
		}

		if input.Phone != nil {
			res := tx.Model(&studentmodel.StudentModel{}).
				Where("user_id = ?", userID).
				Update("phone_number", *input.Phone)
			if res.Error != nil {
				return res.Error
			}
			becomesStudent := input.Role != nil && *input.Role == constants.RoleStudent
			if res.RowsAffected == 0 && (existing.Role == constants.RoleStudent || becomesStudent) {
				if err := tx.Create(&studentmodel.StudentModel{UserID: userID, PhoneNumber: *input.Phone}).Error; err != nil {
					return err
				}
			}
		}

		if input.Comment != nil {
			if err := tx.Model(&studentmodel.StudentModel{}).
				Where("user_id = ?", userID).
				Update("comment", *input.Comment).Error; err != nil {
				return err
			}
			if err := tx.Model(&teachermodel.TeacherModel{}).
				Where("user_id = ?", userID).
				Update("comment", *input.Comment).Error; err != nil {
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

	auditsvc.LogAction(ctl.DB, auditsvc.EntryFromCtx(c,
		constants.AuditUserUpdated,
		"Изменение пользователя: "+existing.Email,
		map[string]any{"user_id": userID.String()}))

	return helper.JsonUpdated(c, "User updated successfully", nil)
}

// DeleteUser removes an account. Deleting the caller's own account is
// rejected so an admin cannot lock themselves out.
func (ctl *UserAdminController) DeleteUser(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if userID == actorID {
		return helper.JsonError(c, fiber.StatusBadRequest, "Cannot delete yourself")
	}

	var existing model.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&existing, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(&model.UserModel{}, "id = ?", userID).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	auditsvc.LogAction(ctl.DB, auditsvc.EntryFromCtx(c,
		constants.AuditUserDeleted,
		"Удаление пользователя: "+existing.Email,
		map[string]any{"user_id": userID.String(), "email": existing.Email, "role": existing.Role}))

	return helper.JsonDeleted(c, "User deleted successfully", nil)
}

// ResetPassword force-sets a new password and revokes the user's
// refresh tokens.
func (ctl *UserAdminController) ResetPassword(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input dto.ResetPasswordRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	var existing model.UserModel
	if err := ctl.DB.WithContext(c.Context()).First(&existing, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	hash, err := authservice.HashPassword(input.NewPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Внутренняя ошибка сервера")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.UserModel{}).Where("id = ?", userID).Update("password", hash).Error; err != nil {
			return err
		}
		return tx.Table("refresh_tokens").
			Where("user_id = ? AND revoked_at IS NULL", userID).
			Update("revoked_at", time.Now().UTC()).Error
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonUpdated(c, "Password reset successfully", nil)
}
