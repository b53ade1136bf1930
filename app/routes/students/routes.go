package students

import (
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/FelipeHuencho/intranet-csah/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupStudentRoutes(app *fiber.App) {
	api := app.Group("/api/students")
	api.Use(auth.AuthMiddleware)
	api.Use(auth.RoleMiddleware(models.RoleStudent))

	api.Get("/grades", GetMyGradesAPI)
	api.Get("/schedule", GetMyScheduleAPI)
	api.Get("/attendance", GetMyAttendanceAPI)
}
