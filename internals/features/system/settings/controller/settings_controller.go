package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"studioku_backend/internals/constants"
	auditsvc "studioku_backend/internals/features/system/audit/service"
	"studioku_backend/internals/features/system/settings/dto"
	settingssvc "studioku_backend/internals/features/system/settings/service"
	helper "studioku_backend/internals/helpers"
)

var validate = validator.New()

// SettingsController serves the public feature flags and the admin
// settings panel.
type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

func allSettingKeys() []string {
	keys := make([]string, 0, len(constants.DefaultSettings))
	for k := range constants.DefaultSettings {
		keys = append(keys, k)
	}
	return keys
}

// GetPublicSettings exposes only the signup-related flags. No auth.
func (ctl *SettingsController) GetPublicSettings(c *fiber.Ctx) error {
	settings, err := settingssvc.GetValues(ctl.DB.WithContext(c.Context()),
		constants.SettingRegistrationEnabled,
		constants.SettingTrialLessonsEnabled)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"settings": settings})
}

// GetSettings returns the full resolved settings map for the admin
// panel, defaults filled in for keys without a stored row.
func (ctl *SettingsController) GetSettings(c *fiber.Ctx) error {
	settings, err := settingssvc.GetValues(ctl.DB.WithContext(c.Context()), allSettingKeys()...)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"settings": settings})
}

// UpdateSettings applies a partial settings patch and returns the full
// resolved map.
func (ctl *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	var input dto.UpdateSettingsRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	changes := map[string]any{}
	putBool := func(key string, v *bool) {
		if v != nil {
			changes[key] = *v
		}
	}
	putBool(constants.SettingRegistrationEnabled, input.RegistrationEnabled)
	putBool(constants.SettingTrialLessonsEnabled, input.TrialLessonsEnabled)
	putBool(constants.SettingGradesTeacherEditEnabled, input.GradesTeacherEditEnabled)
	putBool(constants.SettingElectivesEnabled, input.ElectivesEnabled)
	putBool(constants.SettingGroupsRequireTeacher, input.GroupsRequireTeacher)
	putBool(constants.SettingGroupsRequireHall, input.GroupsRequireHall)
	putBool(constants.SettingGroupsAllowMultiTeachers, input.GroupsAllowMultiTeachers)
	putBool(constants.SettingTranscriptEnabled, input.TranscriptEnabled)
	putBool(constants.SettingTranscriptRequireComplete, input.TranscriptRequireComplete)
	putBool(constants.SettingTranscriptExcludeCancelled, input.TranscriptExcludeCancelled)
	if input.GradesScale != nil {
		changes[constants.SettingGradesScale] = *input.GradesScale
	}
	if len(changes) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "No settings provided")
	}

	db := ctl.DB.WithContext(c.Context())
	for key, value := range changes {
		if err := settingssvc.Set(db, key, value); err != nil {
			return helper.WritePGError(c, err)
		}
	}

	auditsvc.LogAction(db, auditsvc.EntryFromCtx(c,
		constants.AuditSettingsUpdated,
		"Изменение настроек системы",
		map[string]any{"changed": changes}))

	settings, err := settingssvc.GetValues(db, allSettingKeys()...)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "Settings updated", fiber.Map{"settings": settings})
}
