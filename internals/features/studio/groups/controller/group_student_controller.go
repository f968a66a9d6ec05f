package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	schedulesvc "studioku_backend/internals/features/academics/schedules/service"
	"studioku_backend/internals/features/studio/groups/model"
	studentmodel "studioku_backend/internals/features/studio/students/model"
	settingssvc "studioku_backend/internals/features/system/settings/service"
	"studioku_backend/internals/constants"
	helper "studioku_backend/internals/helpers"
)

// GroupStudentController serves group browsing and signup under /api/s.
type GroupStudentController struct {
	DB *gorm.DB
}

func NewGroupStudentController(db *gorm.DB) *GroupStudentController {
	return &GroupStudentController{DB: db}
}

// GetFilters lists the teachers and halls that currently have open
// groups, for the signup filter dropdowns.
func (ctl *GroupStudentController) GetFilters(c *fiber.Ctx) error {
	type namedRow struct {
		ID   uuid.UUID
		Name string
	}
	var teachers []namedRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT DISTINCT t.id, u.name
		FROM users u
		INNER JOIN teachers t ON t.user_id = u.id
		WHERE EXISTS (
		    SELECT 1 FROM group_teachers gt
		    INNER JOIN groups g ON g.id = gt.group_id
		    WHERE gt.teacher_id = t.id AND g.is_closed = FALSE
		)
		ORDER BY u.name`).Scan(&teachers).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	var halls []namedRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT DISTINCT h.id, h.name
		FROM halls h
		WHERE EXISTS (SELECT 1 FROM groups g WHERE g.hall_id = h.id AND g.is_closed = FALSE)
		ORDER BY h.name`).Scan(&halls).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"teachers": teachers, "halls": halls})
}

type availableGroupRow struct {
	ID              uuid.UUID
	Name            string
	Capacity        *int
	DurationMinutes int
	IsTrial         bool
	TrialPrice      *float64
	CategoryID      *uuid.UUID
	CategoryName    *string
	HallID          *uuid.UUID
	HallName        *string
	HallCapacity    *int
	Enrolled        int
	TeacherIDs      pq.StringArray `gorm:"type:uuid[]"`
	TeacherNames    pq.StringArray `gorm:"type:text[]"`
}

// GetAvailableGroups lists open recruiting groups. Optional filters:
// ?category_id=, ?teacher_id=, ?day= (0=Sunday..6=Saturday).
func (ctl *GroupStudentController) GetAvailableGroups(c *fiber.Ctx) error {
	query := `
		SELECT
		    g.id, g.name, g.capacity, g.duration_minutes,
		    g.is_trial_available AS is_trial, g.trial_price,
		    g.category_id, cat.name AS category_name,
		    h.id AS hall_id, h.name AS hall_name, h.capacity AS hall_capacity,
		    (SELECT COUNT(*) FROM group_students gs WHERE gs.group_id = g.id AND gs.is_trial = FALSE) AS enrolled,
		    array_remove(array_agg(DISTINCT gt.teacher_id::text), NULL) AS teacher_ids,
		    array_remove(array_agg(DISTINCT u.name), NULL) AS teacher_names
		FROM groups g
		LEFT JOIN categories cat ON cat.id = g.category_id
		LEFT JOIN halls h ON h.id = g.hall_id
		LEFT JOIN group_teachers gt ON gt.group_id = g.id
		LEFT JOIN teachers t ON t.id = gt.teacher_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE g.is_closed = FALSE AND g.is_additional = FALSE`
	args := []any{}

	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid category_id")
		}
		query += " AND g.category_id = ?"
		args = append(args, id)
	}
	if raw := c.Query("teacher_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher_id")
		}
		query += " AND EXISTS (SELECT 1 FROM group_teachers f WHERE f.group_id = g.id AND f.teacher_id = ?)"
		args = append(args, id)
	}
	if raw := c.Query("day"); raw != "" {
		day := c.QueryInt("day", -1)
		if day < 0 || day > 6 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid day. Must be 0-6 (Sunday-Saturday)")
		}
		query += ` AND EXISTS (
		    SELECT 1 FROM group_schedules sch
		    WHERE sch.group_id = g.id AND sch.is_active = TRUE AND sch.day_of_week = ?)`
		args = append(args, day)
	}
	query += `
		GROUP BY g.id, g.name, g.capacity, g.duration_minutes, g.is_trial_available,
		         g.trial_price, g.category_id, cat.name, h.id, h.name, h.capacity
		ORDER BY g.name`

	var rows []availableGroupRow
	if err := ctl.DB.WithContext(c.Context()).Raw(query, args...).Scan(&rows).Error; err != nil {
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

	groups := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		var freeSlots *int
		if r.Capacity != nil {
			fs := *r.Capacity - r.Enrolled
			freeSlots = &fs
		}
		var hall fiber.Map
		if r.HallID != nil {
			hall = fiber.Map{"id": r.HallID, "name": r.HallName, "capacity": r.HallCapacity}
		}
		var category fiber.Map
		if r.CategoryID != nil {
			category = fiber.Map{"id": r.CategoryID, "name": r.CategoryName}
		}
		groups = append(groups, fiber.Map{
			"id":               r.ID,
			"name":             r.Name,
			"capacity":         r.Capacity,
			"duration_minutes": r.DurationMinutes,
			"is_trial":         r.IsTrial,
			"trial_price":      r.TrialPrice,
			"schedule":         scheduleMap[r.ID],
			"hall":             hall,
			"category":         category,
			"enrolled":         r.Enrolled,
			"free_slots":       freeSlots,
			"teacher_ids":      []string(r.TeacherIDs),
			"teacher_names":    []string(r.TeacherNames),
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"groups": groups})
}

// JoinGroup enrolls the student as a regular member.
func (ctl *GroupStudentController) JoinGroup(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var student studentmodel.StudentModel
	if err := ctl.DB.WithContext(c.Context()).Select("id").First(&student, "user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Профиль студента не найден")
	}

	var info struct {
		Capacity      *int
		IsClosed      bool
		Enrolled      int
		AlreadyJoined bool
	}
	res := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT
		    capacity,
		    is_closed,
		    (SELECT COUNT(*) FROM group_students gs WHERE gs.group_id = ? AND gs.is_trial = FALSE) AS enrolled,
		    EXISTS(SELECT 1 FROM group_students gs WHERE gs.group_id = ? AND gs.student_id = ?) AS already_joined
		FROM groups
		WHERE id = ?`, groupID, groupID, student.ID, groupID).Scan(&info)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Группа не найдена")
	}
	if info.IsClosed {
		return helper.JsonError(c, fiber.StatusConflict, "Группа закрыта для записи")
	}
	if info.AlreadyJoined {
		return helper.JsonError(c, fiber.StatusConflict, "Вы уже записаны в эту группу")
	}
	if info.Capacity != nil && info.Enrolled >= *info.Capacity {
		return helper.JsonError(c, fiber.StatusConflict, "Group is full")
	}

	member := model.GroupStudentModel{GroupID: groupID, StudentID: student.ID, IsTrial: false}
	if err := ctl.DB.WithContext(c.Context()).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Successfully joined the group", nil)
}

// TrialSignup books a trial visit. The student row is locked for the
// counter update; each signup also writes a history row.
func (ctl *GroupStudentController) TrialSignup(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	if !settingssvc.GetBool(ctl.DB.WithContext(c.Context()), constants.SettingTrialLessonsEnabled, true) {
		return helper.JsonError(c, fiber.StatusForbidden, "Пробные занятия отключены")
	}

	var group model.GroupModel
	if err := ctl.DB.WithContext(c.Context()).First(&group, "id = ?", groupID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Группа не найдена")
	}
	if !group.IsTrialAvailable {
		return helper.JsonError(c, fiber.StatusForbidden, "Пробное занятие недоступно для этой группы")
	}

	var studentID uuid.UUID
	if err := ctl.DB.WithContext(c.Context()).
		Model(&studentmodel.StudentModel{}).
		Select("id").
		Where("user_id = ?", userID).
		Take(&studentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Профиль студента не найден")
	}

	var conflictErr error
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var student studentmodel.StudentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&student, "id = ?", studentID).Error; err != nil {
			return err
		}
		if student.TrialsUsed >= student.TrialsAllowed {
			conflictErr = errors.New("No trial lessons remaining")
			return conflictErr
		}

		var member int64
		if err := tx.Model(&model.GroupStudentModel{}).
			Where("group_id = ? AND student_id = ?", groupID, studentID).
			Count(&member).Error; err != nil {
			return err
		}
		if member > 0 {
			conflictErr = errors.New("Вы уже записаны в эту группу")
			return conflictErr
		}

		if err := tx.Create(&model.GroupStudentModel{
			GroupID:   groupID,
			StudentID: studentID,
			IsTrial:   true,
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.TrialLessonUsageModel{
			StudentID: studentID,
			GroupID:   groupID,
		}).Error; err != nil {
			return err
		}

		newUsed := student.TrialsUsed + 1
		return tx.Model(&studentmodel.StudentModel{}).
			Where("id = ?", studentID).
			Updates(map[string]any{
				"trials_used": newUsed,
				"trial_used":  newUsed >= student.TrialsAllowed,
			}).Error
	})
	if err != nil {
		if conflictErr != nil {
			return helper.JsonError(c, fiber.StatusConflict, conflictErr.Error())
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Trial lesson registered successfully", nil)
}
