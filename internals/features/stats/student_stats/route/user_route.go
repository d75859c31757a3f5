// file: internals/features/stats/student_stats/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/stats/student_stats/controller"
)

// StudentStatsUserRoutes: surface baca untuk user login.
func StudentStatsUserRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentStatsController(db)

	stats := api.Group("/stats")
	stats.Get("/students/:student_id/classes/:class_id", ctl.GetStudentClassStat)
	stats.Get("/classes/:class_id", ctl.GetClassRollup)
	stats.Get("/classes/:class_id/leaderboard", ctl.GetLeaderboard)
}
