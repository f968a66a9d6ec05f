package controller

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studioku_backend/internals/features/academics/schedules/dto"
	"studioku_backend/internals/features/academics/schedules/model"
	"studioku_backend/internals/features/academics/schedules/service"
	groupmodel "studioku_backend/internals/features/studio/groups/model"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

var validate = validator.New()

// ScheduleAdminController manages weekly patterns under /api/a.
type ScheduleAdminController struct {
	DB *gorm.DB
}

func NewScheduleAdminController(db *gorm.DB) *ScheduleAdminController {
	return &ScheduleAdminController{DB: db}
}

// GetGroupSchedules lists a group's active patterns with the rendered
// schedule string.
func (ctl *ScheduleAdminController) GetGroupSchedules(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	var group groupmodel.GroupModel
	if err := db.Take(&group, "id = ?", groupID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	var patterns []model.GroupScheduleModel
	if err := db.Where("group_id = ? AND is_active = TRUE", groupID).
		Order("day_of_week, start_time").
		Find(&patterns).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	formatted, err := service.FormattedSchedule(db, groupID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"schedules": patterns,
		"formatted": formatted,
	})
}

// ReplaceGroupSchedules swaps the whole weekly pattern set.
func (ctl *ScheduleAdminController) ReplaceGroupSchedules(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReplaceSchedulesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	var group groupmodel.GroupModel
	if err := ctl.DB.WithContext(c.Context()).Take(&group, "id = ?", groupID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	patterns := make([]service.PatternInput, 0, len(req.Schedules))
	for _, p := range req.Schedules {
		patterns = append(patterns, service.PatternInput{DayOfWeek: p.DayOfWeek, StartTime: p.StartTime})
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		return service.ReplacePatterns(tx, groupID, patterns)
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "Schedule updated", nil)
}

// AddGroupSchedule upserts one weekly slot and expands it into lessons
// right away, capped at 20 instances.
func (ctl *ScheduleAdminController) AddGroupSchedule(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AddScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid day_of_week. Must be 0-6 (Sunday-Saturday)")
	}
	start, err := dbtime.Parse(req.StartTime)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid time format. Use HH:MM")
	}
	end, err := dbtime.Parse(req.EndTime)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid time format. Use HH:MM")
	}
	if start.Hour()*60+start.Minute() >= end.Hour()*60+end.Minute() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Start time must be before end time")
	}

	var group groupmodel.GroupModel
	if err := ctl.DB.WithContext(c.Context()).Take(&group, "id = ?", groupID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	day := req.DayOfWeek
	var res service.GenerateResult
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := upsertPattern(tx, &group, day, start); err != nil {
			return err
		}
		res, err = service.GenerateLessons(tx, groupID, service.GenerateOptions{
			WeeksAhead:    13,
			MaxInstances:  service.MaxGeneratedAddSchedule,
			OnlyDayOfWeek: &day,
		})
		if err != nil {
			return err
		}
		// Generation re-derives patterns from lessons; re-assert the
		// new slot so an empty horizon cannot drop it.
		return upsertPattern(tx, &group, day, start)
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c,
		fmt.Sprintf("Schedule added successfully. Created %d lesson instances.", res.Created),
		fiber.Map{"created": res.Created, "skipped": res.Skipped},
	)
}

func upsertPattern(tx *gorm.DB, group *groupmodel.GroupModel, day int, start dbtime.Tod) error {
	row := model.GroupScheduleModel{
		GroupID:   group.ID,
		DayOfWeek: day,
		StartTime: start,
		IsActive:  true,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "group_id"}, {Name: "day_of_week"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"start_time": start,
			"is_active":  true,
		}),
	}).Create(&row).Error
}
