// file: internals/features/stats/schedules/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/stats/schedules/controller"
)

// ScheduleAdminRoutes: operasi bobot jadwal (internal/admin).
func ScheduleAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewScheduleAdminController(db)

	schedules := api.Group("/stats/schedules")
	schedules.Post("/:id/reweight", ctl.Reweight)
	schedules.Delete("/:id", ctl.Remove)
}
