package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studioku_backend/internals/constants"
	"studioku_backend/internals/features/studio/teachers/model"
)

// ResolveTeacherID finds the teacher row for a user. Teacher-role users
// get a profile created on first touch; for anyone else a missing row
// stays missing (nil, nil) and the caller decides the error.
func ResolveTeacherID(db *gorm.DB, userID uuid.UUID, role string) (*uuid.UUID, error) {
	var t model.TeacherModel
	err := db.Select("id").Where("user_id = ?", userID).Take(&t).Error
	if err == nil {
		return &t.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if role != constants.RoleTeacher {
		return nil, nil
	}
	row := model.TeacherModel{UserID: userID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		// Lost the race to a concurrent first touch; read the winner.
		if err := db.Select("id").Where("user_id = ?", userID).Take(&row).Error; err != nil {
			return nil, err
		}
	}
	return &row.ID, nil
}

// AssignedToGroup reports whether the teacher has a group_teachers row
// for the group, main or secondary.
func AssignedToGroup(db *gorm.DB, teacherID, groupID uuid.UUID) (bool, error) {
	var n int64
	err := db.Table("group_teachers").
		Where("group_id = ? AND teacher_id = ?", groupID, teacherID).
		Count(&n).Error
	return n > 0, err
}
