package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	schedulesvc "studioku_backend/internals/features/academics/schedules/service"
	"studioku_backend/internals/features/studio/halls/dto"
	"studioku_backend/internals/features/studio/halls/model"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

var validate = validator.New()

// HallAdminController serves the /api/a/halls endpoints.
type HallAdminController struct {
	DB *gorm.DB
}

func NewHallAdminController(db *gorm.DB) *HallAdminController {
	return &HallAdminController{DB: db}
}

// GetHalls lists all halls.
func (ctl *HallAdminController) GetHalls(c *fiber.Ctx) error {
	var halls []model.HallModel
	if err := ctl.DB.WithContext(c.Context()).Order("name").Find(&halls).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"halls": halls})
}

type hallGroupRow struct {
	ID              uuid.UUID
	Name            string
	Capacity        *int
	DurationMinutes int
	TeacherID       *uuid.UUID
	TeacherName     *string
	StudentCount    int
}

type hallLessonRow struct {
	ID              uuid.UUID
	StartTime       time.Time
	DurationMinutes *int
	ClassName       string
	GroupName       string
	TeacherName     *string
}

// GetHallDetails returns the hall with its active groups, today's
// lessons and occupancy stats.
func (ctl *HallAdminController) GetHallDetails(c *fiber.Ctx) error {
	hallID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var hall model.HallModel
	if err := ctl.DB.WithContext(c.Context()).First(&hall, "id = ?", hallID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Hall not found")
	}

	var groupRows []hallGroupRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT
		    g.id, g.name, g.capacity, g.duration_minutes,
		    t.id AS teacher_id, u.name AS teacher_name,
		    (SELECT COUNT(*) FROM group_students gs WHERE gs.group_id = g.id) AS student_count
		FROM groups g
		LEFT JOIN group_teachers gt ON gt.group_id = g.id AND gt.is_main = TRUE
		LEFT JOIN teachers t ON t.id = gt.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE g.hall_id = ? AND g.is_closed = FALSE
		ORDER BY g.name`, hallID).Scan(&groupRows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	groupIDs := make([]uuid.UUID, 0, len(groupRows))
	for _, g := range groupRows {
		groupIDs = append(groupIDs, g.ID)
	}
	schedules, err := schedulesvc.FormattedScheduleMap(ctl.DB.WithContext(c.Context()), groupIDs)
	if err != nil {
		return helper.WritePGError(c, err)
	}

	totalStudents := 0
	teacherSet := map[uuid.UUID]struct{}{}
	groups := make([]fiber.Map, 0, len(groupRows))
	for _, g := range groupRows {
		teacherName := "Не назначен"
		if g.TeacherName != nil && *g.TeacherName != "" {
			teacherName = *g.TeacherName
		}
		if g.TeacherID != nil {
			teacherSet[*g.TeacherID] = struct{}{}
		}
		totalStudents += g.StudentCount
		groups = append(groups, fiber.Map{
			"id":               g.ID,
			"name":             g.Name,
			"capacity":         g.Capacity,
			"student_count":    g.StudentCount,
			"duration_minutes": g.DurationMinutes,
			"teacher_id":       g.TeacherID,
			"teacher_name":     teacherName,
			"schedule":         schedules[g.ID],
		})
	}

	var lessonRows []hallLessonRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT
		    l.id, l.start_time, l.duration_minutes, l.class_name,
		    g.name AS group_name,
		    u.name AS teacher_name
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		LEFT JOIN teachers t ON t.id = l.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE l.hall_id = ?
		  AND DATE(l.start_time) = CURRENT_DATE
		  AND l.is_cancelled = FALSE
		ORDER BY l.start_time`, hallID).Scan(&lessonRows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	today := make([]fiber.Map, 0, len(lessonRows))
	for _, l := range lessonRows {
		duration := 60
		if l.DurationMinutes != nil && *l.DurationMinutes > 0 {
			duration = *l.DurationMinutes
		}
		teacherName := "Не назначен"
		if l.TeacherName != nil && *l.TeacherName != "" {
			teacherName = *l.TeacherName
		}
		today = append(today, fiber.Map{
			"id":           l.ID,
			"start_time":   dbtime.ToStudio(l.StartTime),
			"duration":     duration,
			"class_name":   l.ClassName,
			"group_name":   l.GroupName,
			"teacher_name": teacherName,
		})
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"id":            hall.ID,
		"name":          hall.Name,
		"capacity":      hall.Capacity,
		"address":       hall.Address,
		"groups":        groups,
		"today_lessons": today,
		"stats": fiber.Map{
			"total_groups":    len(groups),
			"total_students":  totalStudents,
			"unique_teachers": len(teacherSet),
		},
	})
}

// CreateHall inserts a hall; the name is unique.
func (ctl *HallAdminController) CreateHall(c *fiber.Ctx) error {
	var input dto.CreateHallRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	hall := model.HallModel{
		Name:     strings.TrimSpace(input.Name),
		Capacity: input.Capacity,
		Address:  strings.TrimSpace(input.Address),
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&hall).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Hall with this name already exists")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Hall created", fiber.Map{"hall_id": hall.ID})
}

// UpdateHall applies a partial edit.
func (ctl *HallAdminController) UpdateHall(c *fiber.Ctx) error {
	hallID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input dto.UpdateHallRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Capacity != nil {
		updates["capacity"] = *input.Capacity
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "No fields to update")
	}

	res := ctl.DB.WithContext(c.Context()).Model(&model.HallModel{}).Where("id = ?", hallID).Updates(updates)
	if res.Error != nil {
		if helper.IsUniqueViolation(res.Error) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Hall with this name already exists")
		}
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Hall not found")
	}
	return helper.JsonUpdated(c, "Hall updated", nil)
}

// DeleteHall removes a hall unless a group still points at it.
func (ctl *HallAdminController) DeleteHall(c *fiber.Ctx) error {
	hallID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var used int64
	if err := ctl.DB.WithContext(c.Context()).Table("groups").Where("hall_id = ?", hallID).Count(&used).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if used > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Cannot delete hall - it is currently assigned to one or more groups")
	}

	res := ctl.DB.WithContext(c.Context()).Delete(&model.HallModel{}, "id = ?", hallID)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Hall not found")
	}
	return helper.JsonDeleted(c, "Hall deleted", nil)
}
