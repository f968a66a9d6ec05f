package service

import (
	"log"

	"studioku_backend/internals/features/system/notifications/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options carries the optional notification fields.
type Options struct {
	GroupID     *uuid.UUID
	RelatedID   *uuid.UUID
	RelatedType string
	ActionURL   string
	StudentID   *uuid.UUID
}

func buildRow(userID uuid.UUID, typ, title, message string, opts *Options) model.NotificationModel {
	row := model.NotificationModel{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if opts == nil {
		return row
	}
	row.GroupID = opts.GroupID
	row.RelatedID = opts.RelatedID
	row.StudentID = opts.StudentID
	if opts.RelatedType != "" {
		rt := opts.RelatedType
		row.RelatedType = &rt
	}
	if opts.ActionURL != "" {
		au := opts.ActionURL
		row.ActionURL = &au
	}
	return row
}

// Create inserts one notification and returns the write error. Most
// callers should prefer Notify, which swallows failures.
func Create(db *gorm.DB, userID uuid.UUID, typ, title, message string, opts *Options) error {
	row := buildRow(userID, typ, title, message, opts)
	return db.Create(&row).Error
}

// Notify is Create with best-effort semantics: a failed notification is
// logged and never fails the operation that triggered it.
func Notify(db *gorm.DB, userID uuid.UUID, typ, title, message string, opts *Options) {
	if err := Create(db, userID, typ, title, message, opts); err != nil {
		log.Printf("[WARN] notifications: %s for user %s failed: %v", typ, userID, err)
	}
}

// NotifyMany fans one notification out to several users, best-effort.
func NotifyMany(db *gorm.DB, userIDs []uuid.UUID, typ, title, message string, opts *Options) {
	if len(userIDs) == 0 {
		return
	}
	rows := make([]model.NotificationModel, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, buildRow(id, typ, title, message, opts))
	}
	if err := db.Create(&rows).Error; err != nil {
		log.Printf("[WARN] notifications: bulk %s for %d users failed: %v", typ, len(userIDs), err)
	}
}

// NotifyAdmins notifies every admin user.
func NotifyAdmins(db *gorm.DB, typ, title, message string, opts *Options) {
	var ids []uuid.UUID
	if err := db.Table("users").
		Where("role = ? AND is_active = TRUE", "admin").
		Pluck("id", &ids).Error; err != nil {
		log.Printf("[WARN] notifications: admin lookup failed: %v", err)
		return
	}
	NotifyMany(db, ids, typ, title, message, opts)
}

// NotifyGroupStudents notifies every member of a group, trials included
// (a trial student still needs to hear their lesson moved). Each row
// carries the member's student_id so clients can deep-link.
func NotifyGroupStudents(db *gorm.DB, groupID uuid.UUID, typ, title, message string, opts *Options) {
	type memberRow struct {
		StudentID uuid.UUID
		UserID    uuid.UUID
	}
	var members []memberRow
	if err := db.Table("group_students gs").
		Select("s.id AS student_id, s.user_id AS user_id").
		Joins("JOIN students s ON s.id = gs.student_id").
		Where("gs.group_id = ?", groupID).
		Scan(&members).Error; err != nil {
		log.Printf("[WARN] notifications: group %s students lookup failed: %v", groupID, err)
		return
	}
	if len(members) == 0 {
		return
	}
	base := Options{}
	if opts != nil {
		base = *opts
	}
	if base.GroupID == nil {
		gid := groupID
		base.GroupID = &gid
	}
	rows := make([]model.NotificationModel, 0, len(members))
	for _, m := range members {
		per := base
		sid := m.StudentID
		per.StudentID = &sid
		rows = append(rows, buildRow(m.UserID, typ, title, message, &per))
	}
	if err := db.Create(&rows).Error; err != nil {
		log.Printf("[WARN] notifications: bulk %s for group %s failed: %v", typ, groupID, err)
	}
}

// BroadcastToGroup inserts one notification per group member and
// returns how many rows were written. Unlike the Notify* helpers the
// write error propagates: here the broadcast is the operation itself,
// not a side effect of one.
func BroadcastToGroup(db *gorm.DB, groupID uuid.UUID, typ, title, message string, opts *Options) (int, error) {
	type memberRow struct {
		StudentID uuid.UUID
		UserID    uuid.UUID
	}
	var members []memberRow
	err := db.Table("group_students gs").
		Select("s.id AS student_id, s.user_id AS user_id").
		Joins("JOIN students s ON s.id = gs.student_id").
		Where("gs.group_id = ?", groupID).
		Scan(&members).Error
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}
	base := Options{}
	if opts != nil {
		base = *opts
	}
	if base.GroupID == nil {
		gid := groupID
		base.GroupID = &gid
	}
	rows := make([]model.NotificationModel, 0, len(members))
	for _, m := range members {
		per := base
		sid := m.StudentID
		per.StudentID = &sid
		rows = append(rows, buildRow(m.UserID, typ, title, message, &per))
	}
	if err := db.Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

// NotifyGroupTeacher notifies the group's main teacher: the is_main row
// in group_teachers, falling back to groups.teacher_id.
func NotifyGroupTeacher(db *gorm.DB, groupID uuid.UUID, typ, title, message string, opts *Options) {
	var userID uuid.UUID
	err := db.Table("group_teachers gt").
		Select("t.user_id").
		Joins("JOIN teachers t ON t.id = gt.teacher_id").
		Where("gt.group_id = ? AND gt.is_main = TRUE", groupID).
		Limit(1).
		Scan(&userID).Error
	if err != nil || userID == uuid.Nil {
		err = db.Table("groups g").
			Select("t.user_id").
			Joins("JOIN teachers t ON t.id = g.teacher_id").
			Where("g.id = ?", groupID).
			Limit(1).
			Scan(&userID).Error
	}
	if err != nil || userID == uuid.Nil {
		return
	}
	if opts == nil {
		opts = &Options{}
	}
	if opts.GroupID == nil {
		gid := groupID
		opts.GroupID = &gid
	}
	Notify(db, userID, typ, title, message, opts)
}
