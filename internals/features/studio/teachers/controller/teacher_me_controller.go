package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	schedulesvc "studioku_backend/internals/features/academics/schedules/service"
	teachersvc "studioku_backend/internals/features/studio/teachers/service"
	helper "studioku_backend/internals/helpers"
)

// TeacherMeController serves the teacher's own workspace views.
type TeacherMeController struct {
	DB *gorm.DB
}

func NewTeacherMeController(db *gorm.DB) *TeacherMeController {
	return &TeacherMeController{DB: db}
}

type myGroupRow struct {
	ID              uuid.UUID
	Name            string
	DurationMinutes int
	Capacity        *int
	IsClosed        bool
	IsTrial         bool
	StartDate       *time.Time
	RecurringUntil  *time.Time
	HallID          *uuid.UUID
	HallName        *string
	CategoryName    *string
	TeacherNames    pq.StringArray `gorm:"type:text[]"`
	Enrolled        int
	Comment         string
	IsMain          bool
}

// GetMyGroups lists every group the teacher is assigned to, open groups
// first.
func (ctl *TeacherMeController) GetMyGroups(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	teacherID, err := teachersvc.ResolveTeacherID(db, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if teacherID == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher profile not found")
	}

	var rows []myGroupRow
	if err := db.Raw(`
		SELECT
		    g.id, g.name, g.duration_minutes, g.capacity,
		    g.is_closed, g.is_trial_available AS is_trial,
		    g.start_date, g.recurring_until,
		    h.id AS hall_id, h.name AS hall_name,
		    c.name AS category_name,
		    (
		        SELECT array_remove(array_agg(DISTINCT u2.name), NULL)
		        FROM group_teachers gt2
		        LEFT JOIN teachers t2 ON t2.id = gt2.teacher_id
		        LEFT JOIN users u2 ON u2.id = t2.user_id
		        WHERE gt2.group_id = g.id
		    ) AS teacher_names,
		    (SELECT COUNT(*) FROM group_students gs WHERE gs.group_id = g.id) AS enrolled,
		    g.comment,
		    gt.is_main
		FROM groups g
		INNER JOIN group_teachers gt ON gt.group_id = g.id AND gt.teacher_id = ?
		LEFT JOIN halls h ON h.id = g.hall_id
		LEFT JOIN categories c ON c.id = g.category_id
		ORDER BY g.is_closed ASC, g.name`, teacherID).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	schedules, err := schedulesvc.FormattedScheduleMap(db, ids)
	if err != nil {
		return helper.WritePGError(c, err)
	}

	groups := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		names := make([]string, 0, len(r.TeacherNames))
		for _, n := range r.TeacherNames {
			if n != "" {
				names = append(names, n)
			}
		}
		teacherName := "Не назначен"
		if len(names) > 0 {
			teacherName = strings.Join(names, ", ")
		}
		hallName := "Не указан"
		var hall fiber.Map
		if r.HallID != nil {
			if r.HallName != nil {
				hallName = *r.HallName
			}
			hall = fiber.Map{"id": *r.HallID, "name": hallName}
		}
		var freeSlots *int
		if r.Capacity != nil {
			fs := *r.Capacity - r.Enrolled
			freeSlots = &fs
		}
		var startDate, endDate *string
		if r.StartDate != nil {
			s := r.StartDate.Format("2006-01-02")
			startDate = &s
		}
		if r.RecurringUntil != nil {
			s := r.RecurringUntil.Format("2006-01-02")
			endDate = &s
		}
		groups = append(groups, fiber.Map{
			"id":               r.ID,
			"name":             r.Name,
			"duration_minutes": r.DurationMinutes,
			"capacity":         r.Capacity,
			"is_closed":        r.IsClosed,
			"is_main":          r.IsMain,
			"is_trial":         r.IsTrial,
			"category_name":    r.CategoryName,
			"start_date":       startDate,
			"end_date":         endDate,
			"hall":             hall,
			"hall_name":        hallName,
			"teacher_name":     teacherName,
			"teacher_names":    names,
			"enrolled":         r.Enrolled,
			"free_slots":       freeSlots,
			"schedule":         schedules[r.ID],
			"comment":          r.Comment,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"groups": groups})
}
