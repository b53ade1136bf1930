package teachers

import (
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/FelipeHuencho/intranet-csah/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupTeacherRoutes(app *fiber.App) {
	api := app.Group("/api/teachers")
	api.Use(auth.AuthMiddleware)
	api.Use(auth.RoleMiddleware(models.RoleTeacher, models.RoleAdmin))

	api.Get("/subjects", GetMySubjectsAPI)
	api.Get("/evaluation-types", GetEvaluationTypesAPI)
	api.Get("/subjects/:subjectId/evaluations", GetEvaluationsAPI)
	api.Post("/evaluations", CreateEvaluationAPI)
	api.Post("/grades", RecordGradeAPI)
	api.Post("/attendance", RecordAttendanceAPI)
	api.Get("/classes/:classId/roster", GetClassRosterAPI)
}
