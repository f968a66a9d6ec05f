package controller

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studioku_backend/internals/constants"
	"studioku_backend/internals/features/academics/lessons/dto"
	"studioku_backend/internals/features/academics/lessons/model"
	schedulesvc "studioku_backend/internals/features/academics/schedules/service"
	teachersvc "studioku_backend/internals/features/studio/teachers/service"
	notifysvc "studioku_backend/internals/features/system/notifications/service"
	helper "studioku_backend/internals/helpers"
	"studioku_backend/internals/helpers/dbtime"
)

// RescheduleController runs the reschedule request workflow: teachers
// (or admins) submit a new slot for a lesson, admins approve or reject.
// Approval applies the move to the lesson itself.
type RescheduleController struct {
	DB *gorm.DB
}

func NewRescheduleController(db *gorm.DB) *RescheduleController {
	return &RescheduleController{DB: db}
}

/* =========================
   Admin review
========================= */

type rescheduleListRow struct {
	ID           uuid.UUID
	LessonID     uuid.UUID
	NewStartTime time.Time
	Reason       string
	Status       string
	CreatedAt    time.Time
	ReviewedAt   *time.Time
	OriginalTime time.Time
	ClassName    string
	GroupName    string
	RequestedBy  string
	TeacherName  *string
}

// List returns every request, newest first, with the lesson and group
// context the review screen shows.
func (ctl *RescheduleController) List(c *fiber.Ctx) error {
	var rows []rescheduleListRow
	if err := ctl.DB.WithContext(c.Context()).Raw(`
		SELECT rr.id, rr.lesson_id, rr.new_start_time, rr.reason, rr.status,
		       rr.created_at, rr.reviewed_at,
		       l.start_time AS original_time, l.class_name,
		       g.name AS group_name,
		       u.name AS requested_by,
		       tu.name AS teacher_name
		FROM reschedule_requests rr
		JOIN lessons l ON l.id = rr.lesson_id
		JOIN groups g ON g.id = l.group_id
		JOIN users u ON u.id = rr.requested_by_user_id
		LEFT JOIN teachers t ON t.id = l.teacher_id
		LEFT JOIN users tu ON tu.id = t.user_id
		ORDER BY rr.created_at DESC`).Scan(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	requests := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		local := dbtime.ToStudio(r.NewStartTime)
		requests = append(requests, fiber.Map{
			"id":             r.ID,
			"lesson_id":      r.LessonID,
			"class_name":     r.ClassName,
			"group_name":     r.GroupName,
			"teacher_name":   r.TeacherName,
			"requested_by":   r.RequestedBy,
			"current_time":   r.OriginalTime,
			"new_date":       local.Format("2006-01-02"),
			"new_time":       local.Format("15:04"),
			"new_start_time": r.NewStartTime,
			"reason":         r.Reason,
			"status":         r.Status,
			"created_at":     r.CreatedAt,
			"reviewed_at":    r.ReviewedAt,
		})
	}
	return helper.JsonOK(c, "OK", fiber.Map{"requests": requests})
}

type reviewRow struct {
	ID                uuid.UUID
	LessonID          uuid.UUID
	NewStartTime      time.Time
	RequestedByUserID uuid.UUID
	GroupID           uuid.UUID
	GroupName         string
}

func (ctl *RescheduleController) reviewContext(db *gorm.DB, requestID uuid.UUID) (*reviewRow, error) {
	var row reviewRow
	res := db.Raw(`
		SELECT rr.id, rr.lesson_id, rr.new_start_time, rr.requested_by_user_id,
		       g.id AS group_id, g.name AS group_name
		FROM reschedule_requests rr
		JOIN lessons l ON l.id = rr.lesson_id
		JOIN groups g ON g.id = l.group_id
		WHERE rr.id = ?`, requestID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// Approve marks the request approved and moves the lesson to the
// requested slot in the same transaction.
func (ctl *RescheduleController) Approve(c *fiber.Ctx) error {
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	row, err := ctl.reviewContext(db, requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		}
		return helper.WritePGError(c, err)
	}

	now := time.Now()
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.RescheduleRequestModel{}).
			Where("id = ?", requestID).
			Updates(map[string]interface{}{
				"status":              model.RescheduleStatusApproved,
				"reviewed_at":         now,
				"reviewed_by_user_id": adminID,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.LessonModel{}).
			Where("id = ?", row.LessonID).
			Updates(map[string]interface{}{
				"start_time":     row.NewStartTime,
				"is_rescheduled": true,
			}).Error; err != nil {
			return err
		}
		return schedulesvc.SyncGroupSchedules(tx, row.GroupID)
	}); err != nil {
		return helper.WritePGError(c, err)
	}

	newStr := dbtime.FormatDateTime(row.NewStartTime)
	notifysvc.Notify(db, row.RequestedByUserID, constants.NotifRescheduleRequestApproved,
		"Заявка на перенос одобрена",
		fmt.Sprintf("Ваша заявка на перенос занятия '%s' была одобрена. Новое время: %s", row.GroupName, newStr),
		&notifysvc.Options{
			GroupID:     &row.GroupID,
			RelatedID:   &row.ID,
			RelatedType: "reschedule_request",
			ActionURL:   fmt.Sprintf("/teacher-groups/manage-group/%s", row.GroupID),
		})
	notifysvc.NotifyGroupStudents(db, row.GroupID, constants.NotifLessonRescheduled,
		"Занятие перенесено",
		fmt.Sprintf("Занятие '%s' перенесено на %s", row.GroupName, newStr),
		&notifysvc.Options{
			RelatedID:   &row.LessonID,
			RelatedType: "lesson",
			ActionURL:   "/my-groups",
		})
	return helper.JsonUpdated(c, "Reschedule request approved and lesson updated", nil)
}

// Reject marks the request rejected; the optional reason is stored and
// shown to the requester.
func (ctl *RescheduleController) Reject(c *fiber.Ctx) error {
	requestID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.RejectRescheduleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
		}
	}
	db := ctl.DB.WithContext(c.Context())

	row, err := ctl.reviewContext(db, requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		}
		return helper.WritePGError(c, err)
	}

	updates := map[string]interface{}{
		"status":              model.RescheduleStatusRejected,
		"reviewed_at":         time.Now(),
		"reviewed_by_user_id": adminID,
	}
	if req.Reason != "" {
		updates["admin_response"] = req.Reason
	}
	if err := db.Model(&model.RescheduleRequestModel{}).
		Where("id = ?", requestID).
		Updates(updates).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	message := fmt.Sprintf("Ваша заявка на перенос занятия '%s' была отклонена администратором.", row.GroupName)
	if req.Reason != "" {
		message += " Причина: " + req.Reason
	}
	notifysvc.Notify(db, row.RequestedByUserID, constants.NotifRescheduleRequestRejected,
		"Заявка на перенос отклонена", message,
		&notifysvc.Options{
			GroupID:     &row.GroupID,
			RelatedID:   &row.ID,
			RelatedType: "reschedule_request",
			ActionURL:   fmt.Sprintf("/teacher-groups/manage-group/%s", row.GroupID),
		})
	return helper.JsonUpdated(c, "Reschedule request rejected", nil)
}

/* =========================
   Submission
========================= */

// Submit files a reschedule request for a lesson. Teachers may only
// file for groups they are assigned to; one pending request per lesson.
func (ctl *RescheduleController) Submit(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role := helper.GetUserRole(c)

	var req dto.SubmitRescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	day, err := dbtime.ParseDate(req.NewDate)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
	}
	tod, err := dbtime.Parse(req.NewTime)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid time format. Use HH:MM")
	}
	newStart := time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), 0, 0, dbtime.StudioLocation()).UTC()

	db := ctl.DB.WithContext(c.Context())

	var lesson struct {
		GroupID   uuid.UUID
		GroupName string
	}
	res := db.Raw(`
		SELECT l.group_id, g.name AS group_name
		FROM lessons l
		JOIN groups g ON g.id = l.group_id
		WHERE l.id = ?`, lessonID).Scan(&lesson)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
	}

	if role == constants.RoleTeacher {
		teacherID, err := teachersvc.ResolveTeacherID(db, userID, role)
		if err != nil {
			return helper.WritePGError(c, err)
		}
		assigned := false
		if teacherID != nil {
			assigned, err = teachersvc.AssignedToGroup(db, *teacherID, lesson.GroupID)
			if err != nil {
				return helper.WritePGError(c, err)
			}
		}
		if !assigned {
			return helper.JsonError(c, fiber.StatusForbidden,
				"Teachers can only reschedule lessons for groups they are assigned to")
		}
	}

	var pending int64
	if err := db.Model(&model.RescheduleRequestModel{}).
		Where("lesson_id = ? AND status = ?", lessonID, model.RescheduleStatusPending).
		Count(&pending).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if pending > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"There is already a pending reschedule request for this lesson")
	}

	reason := req.Reason
	if reason == "" {
		reason = "Reschedule request"
	}
	request := model.RescheduleRequestModel{
		LessonID:          lessonID,
		RequestedByUserID: userID,
		NewStartTime:      newStart,
		Reason:            reason,
		Status:            model.RescheduleStatusPending,
	}
	if err := db.Create(&request).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	requesterName := "Преподаватель"
	var name string
	if err := db.Table("users").Select("name").Where("id = ?", userID).Limit(1).
		Scan(&name).Error; err == nil && name != "" {
		requesterName = name
	}
	notifysvc.NotifyAdmins(db, constants.NotifRescheduleRequestSubmitted,
		"Новая заявка на перенос",
		fmt.Sprintf("%s подал(а) заявку на перенос занятия группы '%s' на %s",
			requesterName, lesson.GroupName, dbtime.ToStudio(newStart).Format("02.01.2006 15:04")),
		&notifysvc.Options{
			GroupID:     &lesson.GroupID,
			RelatedID:   &request.ID,
			RelatedType: "reschedule_request",
			ActionURL:   "/analytics/applications",
		})
	return helper.JsonCreated(c, "Reschedule request submitted successfully",
		fiber.Map{"request_id": request.ID})
}
