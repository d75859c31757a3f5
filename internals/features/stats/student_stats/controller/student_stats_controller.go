// file: internals/features/stats/student_stats/controller/student_stats_controller.go
package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	schedModel "sekolahku_backend/internals/features/stats/schedules/model"
	"sekolahku_backend/internals/features/stats/student_stats/dto"
	"sekolahku_backend/internals/features/stats/student_stats/model"
	"sekolahku_backend/internals/features/stats/student_stats/service"
	helper "sekolahku_backend/internals/helpers"
)

type StudentStatsController struct {
	DB     *gorm.DB
	Rollup *service.RollupService
}

func NewStudentStatsController(db *gorm.DB) *StudentStatsController {
	return &StudentStatsController{DB: db, Rollup: service.NewRollupService()}
}

// classLocation memuat zona waktu kelas untuk proyeksi streak. Kelas yang
// tidak dikenal tetap dilayani dengan zona default.
func (ctl *StudentStatsController) classLocation(classID uuid.UUID) *time.Location {
	cls, err := schedModel.FindClass(ctl.DB, classID)
	if err != nil {
		if loc, lerr := time.LoadLocation(configs.DefaultTimezone); lerr == nil {
			return loc
		}
		return time.UTC
	}
	return cls.Location(configs.DefaultTimezone)
}

// =============================
// GET /api/u/stats/students/:student_id/classes/:class_id
// =============================
func (ctl *StudentStatsController) GetStudentClassStat(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id bukan UUID valid")
	}
	classID, err := uuid.Parse(c.Params("class_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_id bukan UUID valid")
	}

	var stat model.StudentClassStatModel
	if err := ctl.DB.
		Where("student_class_stats_student_id = ? AND student_class_stats_class_id = ?", studentID, classID).
		First(&stat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Statistik siswa tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik siswa")
	}

	resp, err := dto.FromStudentClassStat(&stat, time.Now(), ctl.classLocation(classID))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membaca dokumen statistik")
	}
	return helper.JsonOK(c, "Statistik siswa berhasil diambil", resp)
}

// =============================
// GET /api/u/stats/classes/:class_id
// =============================
func (ctl *StudentStatsController) GetClassRollup(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("class_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_id bukan UUID valid")
	}

	rollup, err := ctl.Rollup.ClassRollup(ctl.DB, classID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung rollup kelas")
	}
	return helper.JsonOK(c, "Rollup kelas berhasil diambil", dto.FromClassRollup(rollup))
}

// =============================
// GET /api/u/stats/classes/:class_id/leaderboard?limit=20
// =============================
func (ctl *StudentStatsController) GetLeaderboard(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("class_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_id bukan UUID valid")
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			return helper.JsonError(c, fiber.StatusBadRequest, "limit harus 1..200")
		}
		limit = n
	}

	rows, err := ctl.Rollup.Leaderboard(ctl.DB, classID, limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil leaderboard")
	}
	entries := dto.FromLeaderboardRows(rows, time.Now(), ctl.classLocation(classID))
	return helper.JsonList(c, "Leaderboard kelas berhasil diambil", entries)
}
