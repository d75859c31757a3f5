// file: internals/features/stats/schedules/dto/schedule_dto.go
package dto

// ReweightRequest: bobot baru jadwal. Pointer supaya 0 eksplisit tetap
// lolos required (0 = jadwal tidak dihitung ke overall, tapi sah).
type ReweightRequest struct {
	Contribution *float64 `json:"contribution" validate:"required,gte=0"`
}
