// file: internals/features/stats/events/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/stats/events/controller"
)

// EventAdminRoutes: pintu masuk webhook event dari grading system.
func EventAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewEventIngestController(db)

	api.Post("/stats/events", ctl.PostEvent)
}
