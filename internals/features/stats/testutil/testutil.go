// file: internals/features/stats/testutil/testutil.go
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	eventsModel "sekolahku_backend/internals/features/stats/events/model"
	schedModel "sekolahku_backend/internals/features/stats/schedules/model"
	statsModel "sekolahku_backend/internals/features/stats/student_stats/model"
)

// NewTestDB membuka database in-memory terisolasi per test dan memigrasi
// seluruh tabel stats. Satu koneksi saja supaya shared-memory DB tidak
// terfragmentasi antar koneksi pool.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&schedModel.ClassModel{},
		&schedModel.ClassScheduleModel{},
		&statsModel.StudentClassStatModel{},
		&statsModel.ScheduleStatModel{},
		&eventsModel.AttemptAuditModel{},
		&eventsModel.ProcessedEventModel{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func SeedClass(t *testing.T, db *gorm.DB, tz string) *schedModel.ClassModel {
	t.Helper()
	cls := &schedModel.ClassModel{
		ClassID:       uuid.New(),
		ClassName:     "Kelas Uji",
		ClassTimezone: tz,
	}
	if err := db.Create(cls).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return cls
}

func SeedSchedule(t *testing.T, db *gorm.DB, classID uuid.UUID, contribution float64, subject, topic string) *schedModel.ClassScheduleModel {
	t.Helper()
	sched := &schedModel.ClassScheduleModel{
		ClassScheduleID:           uuid.New(),
		ClassScheduleClassID:      classID,
		ClassScheduleQuizID:       uuid.New(),
		ClassScheduleSubject:      subject,
		ClassScheduleTopic:        topic,
		ClassScheduleContribution: contribution,
	}
	if err := db.Create(sched).Error; err != nil {
		t.Fatalf("seed schedule: %v", err)
	}
	return sched
}
