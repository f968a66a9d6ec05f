package controller

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studioku_backend/internals/constants"
	"studioku_backend/internals/features/system/notifications/dto"
	"studioku_backend/internals/features/system/notifications/model"
	notifysvc "studioku_backend/internals/features/system/notifications/service"
	helper "studioku_backend/internals/helpers"
)

var validate = validator.New()

// NotificationController serves the personal notification feed and the
// admin group broadcast.
type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

func unreadCount(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&model.NotificationModel{}).
		Where("user_id = ? AND is_read = FALSE", userID).
		Count(&count).Error
	return count, err
}

// GetNotifications lists the caller's notifications, newest first,
// with the unread counter the header badge shows.
func (ctl *NotificationController) GetNotifications(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	db := ctl.DB.WithContext(c.Context())

	q := db.Where("user_id = ?", userID)
	if c.QueryBool("unread_only", false) {
		q = q.Where("is_read = FALSE")
	}
	notifications := make([]model.NotificationModel, 0, limit)
	if err := q.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	unread, err := unreadCount(db, userID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// GetUnreadCount returns only the unread counter.
func (ctl *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	unread, err := unreadCount(ctl.DB.WithContext(c.Context()), userID)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"unread_count": unread})
}

// MarkAsRead marks one of the caller's notifications as read.
func (ctl *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	notificationID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	res := ctl.DB.WithContext(c.Context()).Model(&model.NotificationModel{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Notification not found")
	}
	return helper.JsonUpdated(c, "Notification marked as read", nil)
}

// MarkAllAsRead marks every unread notification of the caller as read.
func (ctl *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	res := ctl.DB.WithContext(c.Context()).Model(&model.NotificationModel{}).
		Where("user_id = ? AND is_read = FALSE", userID).
		Update("is_read", true)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	return helper.JsonUpdated(c,
		fmt.Sprintf("Marked %d notifications as read", res.RowsAffected),
		fiber.Map{"count": res.RowsAffected})
}

// DeleteNotification removes one of the caller's notifications.
func (ctl *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	notificationID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&model.NotificationModel{})
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Notification not found")
	}
	return helper.JsonDeleted(c, "Notification deleted", nil)
}

// BroadcastToGroup sends an admin announcement to every member of a
// group.
func (ctl *NotificationController) BroadcastToGroup(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input dto.BroadcastRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Невалидный JSON")
	}
	if err := validate.Struct(&input); err != nil {
		return helper.JsonValidationError(c, helper.BuildFieldErrors(err))
	}
	db := ctl.DB.WithContext(c.Context())

	var groupCount int64
	if err := db.Table("groups").Where("id = ?", groupID).Count(&groupCount).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if groupCount == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Group not found")
	}

	notified, err := notifysvc.BroadcastToGroup(db, groupID, constants.NotifSystem,
		strings.TrimSpace(input.Title), strings.TrimSpace(input.Message), nil)
	if err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Notification sent", fiber.Map{"notified": notified})
}
