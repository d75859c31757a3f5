// file: internals/features/stats/schedules/controller/schedule_admin_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/stats/schedules/dto"
	"sekolahku_backend/internals/features/stats/schedules/service"
	statsService "sekolahku_backend/internals/features/stats/student_stats/service"
	helper "sekolahku_backend/internals/helpers"
)

type ScheduleAdminController struct {
	DB           *gorm.DB
	Contribution *service.ContributionService
	Validate     *validator.Validate
}

func NewScheduleAdminController(db *gorm.DB) *ScheduleAdminController {
	return &ScheduleAdminController{
		DB:           db,
		Contribution: service.NewContributionService(),
		Validate:     validator.New(),
	}
}

// =============================
// POST /api/a/stats/schedules/:id/reweight
// =============================
func (ctl *ScheduleAdminController) Reweight(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id jadwal bukan UUID valid")
	}

	var req dto.ReweightRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, map[string][]string{
			"contribution": {"wajib diisi dan >= 0"},
		})
	}

	adjusted, err := ctl.Contribution.ReweightSchedule(ctl.DB, scheduleID, *req.Contribution)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Jadwal tidak ditemukan")
		case errors.Is(err, statsService.ErrVersionConflict):
			return helper.JsonError(c, fiber.StatusConflict, "Statistik sedang diubah writer lain, coba lagi")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal melakukan reweight jadwal")
		}
	}
	return helper.JsonUpdated(c, "Bobot jadwal berhasil diubah", fiber.Map{
		"schedule_id":       scheduleID,
		"contribution":      *req.Contribution,
		"students_adjusted": adjusted,
	})
}

// =============================
// DELETE /api/a/stats/schedules/:id
// =============================
func (ctl *ScheduleAdminController) Remove(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id jadwal bukan UUID valid")
	}

	reversed, err := ctl.Contribution.RemoveSchedule(ctl.DB, scheduleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Jadwal tidak ditemukan")
		case errors.Is(err, statsService.ErrVersionConflict):
			return helper.JsonError(c, fiber.StatusConflict, "Statistik sedang diubah writer lain, coba lagi")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus jadwal")
		}
	}
	return helper.JsonDeleted(c, "Jadwal dihapus dan efek skornya dibatalkan", fiber.Map{
		"schedule_id":       scheduleID,
		"students_reversed": reversed,
	})
}
