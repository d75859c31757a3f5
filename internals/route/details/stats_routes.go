// file: internals/route/details/stats_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventRoute "sekolahku_backend/internals/features/stats/events/route"
	scheduleRoute "sekolahku_backend/internals/features/stats/schedules/route"
	statsRoute "sekolahku_backend/internals/features/stats/student_stats/route"
	"sekolahku_backend/internals/middlewares"
)

// StatsInternalRoutes memasang surface tulis (webhook event + admin jadwal).
// Ingest punya rate limit sendiri yang lebih longgar: webhook grading system
// datang burst saat batch penilaian selesai.
func StatsInternalRoutes(api fiber.Router, db *gorm.DB) {
	ingest := api.Group("", middlewares.IngestRateLimiter())
	eventRoute.EventAdminRoutes(ingest, db)

	scheduleRoute.ScheduleAdminRoutes(api, db)
}

// StatsUserRoutes memasang surface baca untuk user login.
func StatsUserRoutes(api fiber.Router, db *gorm.DB) {
	statsRoute.StudentStatsUserRoutes(api, db)
}
