package database

import (
	"log"

	lessonmodel "studioku_backend/internals/features/academics/lessons/model"
	schedulemodel "studioku_backend/internals/features/academics/schedules/model"
	subjectmodel "studioku_backend/internals/features/academics/subjects/model"
	attendancemodel "studioku_backend/internals/features/assessments/attendance/model"
	grademodel "studioku_backend/internals/features/assessments/grades/model"
	transcriptmodel "studioku_backend/internals/features/assessments/transcripts/model"
	categorymodel "studioku_backend/internals/features/studio/categories/model"
	groupmodel "studioku_backend/internals/features/studio/groups/model"
	hallmodel "studioku_backend/internals/features/studio/halls/model"
	studentmodel "studioku_backend/internals/features/studio/students/model"
	teachermodel "studioku_backend/internals/features/studio/teachers/model"
	auditmodel "studioku_backend/internals/features/system/audit/model"
	notificationmodel "studioku_backend/internals/features/system/notifications/model"
	settingsmodel "studioku_backend/internals/features/system/settings/model"
	authmodel "studioku_backend/internals/features/users/auth/model"
	usermodel "studioku_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every table, parents before children so
// foreign keys resolve. Called once at boot after ConnectDB.
func Migrate(db *gorm.DB) {
	models := []interface{}{
		&usermodel.UserModel{},
		&studentmodel.StudentModel{},
		&teachermodel.TeacherModel{},
		&hallmodel.HallModel{},
		&categorymodel.CategoryModel{},
		&groupmodel.GroupModel{},
		&groupmodel.GroupTeacherModel{},
		&groupmodel.GroupStudentModel{},
		&groupmodel.TrialLessonUsageModel{},
		&schedulemodel.GroupScheduleModel{},
		&lessonmodel.LessonModel{},
		&lessonmodel.RescheduleRequestModel{},
		&subjectmodel.SubjectModel{},
		&subjectmodel.ClassSubjectModel{},
		&attendancemodel.AttendanceRecordModel{},
		&grademodel.GradeModel{},
		&transcriptmodel.TranscriptRecordModel{},
		&transcriptmodel.TranscriptPublicationModel{},
		&notificationmodel.NotificationModel{},
		&settingsmodel.SystemSettingModel{},
		&auditmodel.AuditLogModel{},
		&authmodel.RefreshTokenModel{},
		&authmodel.TokenBlacklist{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("❌ Database migration failed: %v", err)
	}
	log.Println("✅ Database migration completed")
}
