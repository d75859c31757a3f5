package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	eventsModel "sekolahku_backend/internals/features/stats/events/model"
	schedulesModel "sekolahku_backend/internals/features/stats/schedules/model"
	statsModel "sekolahku_backend/internals/features/stats/student_stats/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=sekolahku_stats&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// MigrateStats memastikan tabel engine stats tersedia.
// Tabel roster (classes, class_schedules) dimiliki layanan CRUD; di sini
// hanya di-migrate supaya deploy standalone tetap jalan.
func MigrateStats() {
	if err := DB.AutoMigrate(
		&schedulesModel.ClassModel{},
		&schedulesModel.ClassScheduleModel{},
		&statsModel.StudentClassStatModel{},
		&statsModel.ScheduleStatModel{},
		&eventsModel.AttemptAuditModel{},
		&eventsModel.ProcessedEventModel{},
	); err != nil {
		log.Fatalf("❌ Gagal migrate tabel stats: %v", err)
	}
	log.Println("✅ Migrasi tabel stats selesai.")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
