package controller

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"studioku_backend/internals/features/studio/categories/dto"
	"studioku_backend/internals/features/studio/categories/model"
	helper "studioku_backend/internals/helpers"
)

var validate = validator.New()

// CategoryController serves category listing (any role) and the admin
// mutations.
type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// GetCategories lists categories ordered by name. Readable by every
// authenticated role.
func (ctl *CategoryController) GetCategories(c *fiber.Ctx) error {
	var categories []model.CategoryModel
	if err := ctl.DB.WithContext(c.Context()).Order("name").Find(&categories).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"categories": categories})
}

// CreateCategory inserts a category; the name is unique.
func (ctl *CategoryController) CreateCategory(c *fiber.Ctx) error {
	var input dto.CreateCategoryRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	category := model.CategoryModel{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	if input.Color != "" {
		category.Color = input.Color
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&category).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Category with this name already exists")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Category created", category)
}

// UpdateCategory applies a partial edit and returns the stored row.
func (ctl *CategoryController) UpdateCategory(c *fiber.Ctx) error {
	categoryID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateCategoryRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	var category model.CategoryModel
	if err := ctl.DB.WithContext(c.Context()).First(&category, "id = ?", categoryID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Category not found")
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
		return helper.JsonOK(c, "OK", category)
	}

	if err := ctl.DB.WithContext(c.Context()).Model(&category).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Category with this name already exists")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "Category updated", category)
}

// DeleteCategory removes a category unless a group still uses it.
func (ctl *CategoryController) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var category model.CategoryModel
	if err := ctl.DB.WithContext(c.Context()).First(&category, "id = ?", categoryID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Category not found")
	}

	var used int64
	if err := ctl.DB.WithContext(c.Context()).Table("groups").Where("category_id = ?", categoryID).Count(&used).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if used > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Cannot delete category. It is being used by %d group(s)", used))
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(&category).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonDeleted(c, "Category deleted successfully", nil)
}
