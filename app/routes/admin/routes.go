package admin

import (
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/FelipeHuencho/intranet-csah/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	api := app.Group("/api/admin")
	api.Use(auth.AuthMiddleware)
	api.Use(auth.RoleMiddleware(models.RoleAdmin))

	api.Get("/users", GetUsersAPI)
	api.Post("/users", CreateUserAPI)
	api.Post("/users/:id/deactivate", DeactivateUserAPI)

	api.Get("/comunas", GetComunasAPI)

	api.Get("/grades", GetGradesAPI)
	api.Post("/grades", CreateGradeAPI)

	api.Get("/classes", GetClassesAPI)
	api.Post("/classes", CreateClassAPI)
	api.Get("/classes/:classId/subjects", GetSubjectsAPI)
	api.Post("/subjects", CreateSubjectAPI)
	api.Post("/schedules", CreateScheduleAPI)
	api.Post("/enrollments", CreateEnrollmentAPI)

	api.Post("/guardian-relations", CreateGuardianRelationAPI)
	api.Post("/guardian-pin", SetGuardianPINAPI)
	api.Post("/teacher-profile", UpsertTeacherProfileAPI)
}
