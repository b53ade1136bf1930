package payments

import (
	"github.com/FelipeHuencho/intranet-csah/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes registers the guardian payment portal and the provider
// callback endpoints.
func SetupPaymentRoutes(app *fiber.App, h *Handler) {
	// Provider-facing endpoints. The webhook authenticates via HMAC when a
	// secret is configured; the landing page is where the payer's browser
	// returns and only reads the ledger.
	app.Post("/api/payments/webhook", h.WebhookAPI)

	api := app.Group("/api/payments")
	api.Use(auth.AuthMiddleware)

	api.Get("/landing", h.LandingAPI)

	api.Post("/pin", h.ValidatePINAPI)
	api.Post("/pin/close", h.ClosePINAPI)
	api.Get("/", h.GetPaymentsAPI)
	api.Post("/:id/checkout", h.InitiateCheckoutAPI)
}
