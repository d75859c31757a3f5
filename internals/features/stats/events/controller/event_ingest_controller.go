// file: internals/features/stats/events/controller/event_ingest_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/stats/events/dto"
	"sekolahku_backend/internals/features/stats/events/service"
	statsService "sekolahku_backend/internals/features/stats/student_stats/service"
	helper "sekolahku_backend/internals/helpers"
)

type EventIngestController struct {
	DB       *gorm.DB
	Ingest   *service.EventIngestService
	Validate *validator.Validate
}

func NewEventIngestController(db *gorm.DB) *EventIngestController {
	return &EventIngestController{
		DB:       db,
		Ingest:   service.NewEventIngestService(),
		Validate: validator.New(),
	}
}

// =============================
// POST /api/a/stats/events
// =============================
// Envelope malformed ditolak 422 TANPA klaim idempotensi: grading system
// yang memperbaiki payload lalu resend dengan event id sama masih diproses.
func (ctl *EventIngestController) PostEvent(c *fiber.Ctx) error {
	var env dto.EventEnvelope
	if err := c.BodyParser(&env); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload event tidak valid")
	}
	if err := ctl.Validate.Struct(&env); err != nil {
		fieldErrs := map[string][]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fieldErrs[fe.Field()] = append(fieldErrs[fe.Field()], "tidak valid ("+fe.Tag()+")")
			}
		}
		return helper.JsonValidationError(c, fieldErrs)
	}
	if semErrs := env.CheckSemantics(); semErrs != nil {
		return helper.JsonValidationError(c, semErrs)
	}

	res, err := ctl.Ingest.Ingest(ctl.DB, &env)
	if err != nil {
		if errors.Is(err, statsService.ErrVersionConflict) {
			return helper.JsonError(c, fiber.StatusConflict, "Statistik sedang diubah writer lain, kirim ulang event")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses event")
	}
	if res.Status == dto.IngestApplied || res.Status == dto.IngestReversed || res.Status == dto.IngestCorrected {
		return helper.JsonCreated(c, "Event diproses", res)
	}
	return helper.JsonOK(c, "Event diterima tanpa efek", res)
}
