package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/config"
	"github.com/FelipeHuencho/intranet-csah/app/database"
	"github.com/FelipeHuencho/intranet-csah/app/getnet"
	"github.com/FelipeHuencho/intranet-csah/app/ratelimit"
	"github.com/FelipeHuencho/intranet-csah/app/routes/admin"
	"github.com/FelipeHuencho/intranet-csah/app/routes/auth"
	"github.com/FelipeHuencho/intranet-csah/app/routes/dashboard"
	"github.com/FelipeHuencho/intranet-csah/app/routes/finance"
	"github.com/FelipeHuencho/intranet-csah/app/routes/payments"
	"github.com/FelipeHuencho/intranet-csah/app/routes/students"
	"github.com/FelipeHuencho/intranet-csah/app/routes/teachers"
	"github.com/FelipeHuencho/intranet-csah/app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// customErrorHandler keeps every error response in the same JSON envelope.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// Set global time zone to Chile continental time.
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		log.Printf("Warning: Failed to load America/Santiago location, falling back to UTC-4: %v", err)
		time.Local = time.FixedZone("CLT", -4*60*60)
	} else {
		time.Local = loc
	}
	log.Printf("Application time zone set to: %s", time.Local.String())

	config.Load()
	defer config.GetDB().Close()

	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Nightly overdue sweep
	services.StartScheduler(config.GetDB())

	app := fiber.New(fiber.Config{
		AppName:      "Intranet CSAH",
		ErrorHandler: customErrorHandler,
	})

	app.Use(logger.New())
	app.Use(cors.New())

	// Server-side sessions carry only the guardian authorization flag.
	sessions := session.New(session.Config{
		Expiration:     2 * time.Hour,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	// Credential-guess throttling: 5 failures per 15 minutes per key.
	limiter := ratelimit.NewMemoryLimiter(5, 15*time.Minute)

	var mailer services.EmailService = services.ConsoleService{}
	if key := config.AppConfig.Mail.SendgridAPIKey; key != "" {
		mailer = services.NewSendgridService(key,
			config.AppConfig.Mail.FromName, config.AppConfig.Mail.FromEmail)
	}

	gw := getnet.NewClient(getnet.Config{
		CheckoutBaseURL:  config.AppConfig.Getnet.CheckoutBaseURL,
		Login:            config.AppConfig.Getnet.Login,
		Trankey:          config.AppConfig.Getnet.Trankey,
		ReturnURL:        config.AppConfig.Getnet.ReturnURL,
		NotificationURL:  config.AppConfig.Getnet.NotificationURL,
		CreateRequestURL: config.AppConfig.Getnet.CreateRequestURL,
		QueryRequestURL:  config.AppConfig.Getnet.QueryRequestURL,
	})

	paymentHandler := &payments.Handler{
		Ledger:        database.NewPaymentStore(config.GetDB()),
		Directory:     database.NewGuardianStore(config.GetDB()),
		Gateway:       gw,
		Sessions:      sessions,
		Limiter:       limiter,
		Mailer:        mailer,
		WebhookSecret: config.AppConfig.Getnet.WebhookSecret,
	}

	auth.SetupAuthRoutes(app, limiter)
	payments.SetupPaymentRoutes(app, paymentHandler)
	students.SetupStudentRoutes(app)
	teachers.SetupTeacherRoutes(app)
	admin.SetupAdminRoutes(app)
	finance.SetupFinanceRoutes(app)
	dashboard.SetupDashboardRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	log.Printf("Starting server on %s", port)
	if err := app.Listen(port); err != nil {
		log.Fatal(err)
	}
}
