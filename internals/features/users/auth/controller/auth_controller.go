package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentmodel "studioku_backend/internals/features/studio/students/model"
	teachermodel "studioku_backend/internals/features/studio/teachers/model"
	"studioku_backend/internals/features/users/auth/service"
	usermodel "studioku_backend/internals/features/users/user/model"
	helper "studioku_backend/internals/helpers"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	return service.Register(ac.DB, c)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, c)
}

func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	return service.LoginGoogle(ac.DB, c)
}

func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	return service.Refresh(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, c)
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	return service.ChangePassword(ac.DB, c)
}

// Me returns the authenticated user plus the profile ids the frontend
// needs to route between the student and teacher areas.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var user usermodel.UserModel
	if err := ac.DB.WithContext(c.Context()).First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Пользователь не найден")
	}

	resp := fiber.Map{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"is_active":  user.IsActive,
		"created_at": user.CreatedAt,
	}

	var student studentmodel.StudentModel
	if err := ac.DB.WithContext(c.Context()).
		Select("id", "phone_number", "trial_used", "subscription_until").
		First(&student, "user_id = ?", userID).Error; err == nil {
		resp["student_id"] = student.ID
		resp["phone_number"] = student.PhoneNumber
		resp["trial_used"] = student.TrialUsed
		resp["subscription_until"] = student.SubscriptionUntil
	}

	var teacher teachermodel.TeacherModel
	if err := ac.DB.WithContext(c.Context()).
		Select("id", "hourly_rate", "bio").
		First(&teacher, "user_id = ?", userID).Error; err == nil {
		resp["teacher_id"] = teacher.ID
		resp["hourly_rate"] = teacher.HourlyRate
		resp["bio"] = teacher.Bio
	}

	return helper.JsonOK(c, "OK", fiber.Map{"user": resp})
}
