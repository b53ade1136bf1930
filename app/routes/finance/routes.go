package finance

import (
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/FelipeHuencho/intranet-csah/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupFinanceRoutes(app *fiber.App) {
	api := app.Group("/api/finance")
	api.Use(auth.AuthMiddleware)
	api.Use(auth.RoleMiddleware(models.RoleFinanceAdmin, models.RoleAdmin))

	api.Get("/payments", GetPaymentsAPI)
	api.Post("/payments", CreatePaymentAPI)
	api.Get("/payments/stats", GetStatsAPI)
	api.Get("/payments/:id", GetPaymentAPI)
	api.Post("/payments/:id/refund", RefundPaymentAPI)
	api.Post("/payments/mark-overdue", MarkOverdueAPI)
}
