package payments

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/getnet"
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/FelipeHuencho/intranet-csah/app/ratelimit"
	"github.com/FelipeHuencho/intranet-csah/app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// sessionAuthorizedKey is the session flag set once a guardian PIN has been
// validated. It lives in server-side session storage only and expires with
// the session or an explicit close.
const sessionAuthorizedKey = "pagos_autorizados"

// Ledger is the payment-store surface the portal needs. Implemented by
// database.PaymentStore.
type Ledger interface {
	GetByIDForStudent(id, studentID string) (*models.Payment, error)
	GetByToken(token string) (*models.Payment, error)
	GetByRequestID(requestID string) (*models.Payment, error)
	ListByStudent(studentID string) ([]*models.Payment, error)
	StartCheckout(id, requestID, token string) (bool, error)
	MarkPaid(id, authCode string, paidAt time.Time) (bool, error)
	MarkRejected(id string) (bool, error)
	MarkFailed(id string) (bool, error)
	MarkRefunded(id string) (bool, error)
}

// Directory resolves guardian relations and contact data. Implemented by
// database.GuardianStore.
type Directory interface {
	Guardians(studentID string) ([]*models.User, error)
	PINs(studentID string) ([]string, error)
	UserEmail(userID string) (string, error)
}

// Gateway is the provider client surface. Implemented by getnet.Client.
type Gateway interface {
	CreateTransaction(p *models.Payment, email string) *getnet.CreateResult
	QueryTransactionStatus(reference string) (*getnet.TransactionStatus, *getnet.Error)
}

// Handler holds the payment portal dependencies.
type Handler struct {
	Ledger    Ledger
	Directory Directory
	Gateway   Gateway
	Sessions  *session.Store
	Limiter   ratelimit.Limiter
	Mailer    services.EmailService
	// WebhookSecret enables HMAC verification of webhook bodies when set.
	WebhookSecret string
}

// ValidatePINAPI checks a PIN against every guardian linked to the student
// and, on a match, marks the session as authorized for payment actions.
func (h *Handler) ValidatePINAPI(c *fiber.Ctx) error {
	// Accept both form-encoded and JSON bodies.
	pin := c.FormValue("pin")
	if pin == "" {
		var body struct {
			PIN string `json:"pin"`
		}
		if err := c.BodyParser(&body); err == nil {
			pin = body.PIN
		}
	}
	if pin == "" {
		return c.JSON(fiber.Map{"success": false, "message": "PIN requerido"})
	}

	role := c.Locals("user_role").(models.Role)
	if role != models.RoleStudent {
		return c.JSON(fiber.Map{"success": false, "message": "Solo estudiantes pueden usar este portal"})
	}
	studentID := c.Locals("user_id").(string)

	if h.Limiter != nil && !h.Limiter.Allow("pin:"+studentID) {
		return c.Status(429).JSON(fiber.Map{
			"success": false,
			"message": "Demasiados intentos. Intente más tarde.",
		})
	}

	pins, err := h.Directory.PINs(studentID)
	if err != nil {
		log.Printf("Failed to load guardian PINs for student %s: %v", studentID, err)
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Error interno"})
	}

	for _, stored := range pins {
		if stored == pin {
			sess, err := h.Sessions.Get(c)
			if err != nil {
				return c.Status(500).JSON(fiber.Map{"success": false, "message": "Error interno"})
			}
			sess.Set(sessionAuthorizedKey, true)
			if err := sess.Save(); err != nil {
				return c.Status(500).JSON(fiber.Map{"success": false, "message": "Error interno"})
			}
			if h.Limiter != nil {
				h.Limiter.Reset("pin:" + studentID)
			}
			return c.JSON(fiber.Map{"success": true})
		}
	}

	if h.Limiter != nil {
		h.Limiter.Fail("pin:" + studentID)
	}
	return c.JSON(fiber.Map{"success": false, "message": "PIN incorrecto"})
}

// ClosePINAPI drops the authorization flag: the guardian leaves the elevated
// context without ending the student's own session.
func (h *Handler) ClosePINAPI(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c)
	if err == nil {
		sess.Delete(sessionAuthorizedKey)
		if err := sess.Save(); err != nil {
			log.Printf("Failed to save session: %v", err)
		}
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) isAuthorized(c *fiber.Ctx) bool {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		return false
	}
	authorized, ok := sess.Get(sessionAuthorizedKey).(bool)
	return ok && authorized
}

// GetPaymentsAPI lists the student's payments for the guardian portal.
// Requires the PIN authorization flag.
func (h *Handler) GetPaymentsAPI(c *fiber.Ctx) error {
	if !h.isAuthorized(c) {
		return c.Status(403).JSON(fiber.Map{"error": "Acceso no autorizado"})
	}

	studentID := c.Locals("user_id").(string)
	student := c.Locals("user").(*models.User)

	guardians, err := h.Directory.Guardians(studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Error interno"})
	}
	if len(guardians) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "No se encontró apoderado asociado"})
	}

	payments, err := h.Ledger.ListByStudent(studentID)
	if err != nil {
		log.Printf("Failed to list payments for student %s: %v", studentID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Error interno"})
	}

	type paymentItem struct {
		ID       string  `json:"id"`
		Concept  string  `json:"concept"`
		Amount   float64 `json:"amount"`
		DueDate  *string `json:"due_date"`
		Status   string  `json:"status"`
		Overdue  bool    `json:"overdue"`
		DaysLate int     `json:"days_late"`
	}

	items := make([]paymentItem, 0, len(payments))
	for _, p := range payments {
		item := paymentItem{
			ID:       p.ID,
			Concept:  p.Concept,
			Amount:   p.Amount.InexactFloat64(),
			Status:   string(p.Status),
			Overdue:  p.IsOverdue(),
			DaysLate: p.DaysLate(),
		}
		if p.DueDate != nil {
			due := p.DueDate.Format("02-01-2006")
			item.DueDate = &due
		}
		items = append(items, item)
	}

	return c.JSON(fiber.Map{
		"apoderado": guardians[0].FullName(),
		"alumno":    student.FullName(),
		"pagos":     items,
	})
}

// InitiateCheckoutAPI creates a hosted-checkout session for one payment.
// The ledger is only mutated after the provider confirms the session, so a
// failed attempt leaves the row untouched and can be retried.
func (h *Handler) InitiateCheckoutAPI(c *fiber.Ctx) error {
	if !h.isAuthorized(c) {
		return c.Status(403).JSON(fiber.Map{
			"success": false,
			"error":   "Acceso no autorizado. Ingrese el PIN de apoderado.",
		})
	}

	studentID := c.Locals("user_id").(string)
	paymentID := c.Params("id")

	payment, err := h.Ledger.GetByIDForStudent(paymentID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("Payment %s not found or not owned by student %s", paymentID, studentID)
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Cuota no encontrada o no pertenece al alumno.",
			})
		}
		log.Printf("Failed to load payment %s: %v", paymentID, err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno del servidor"})
	}

	if !payment.CanStartCheckout() {
		log.Printf("Checkout attempt on payment %s in state %s", paymentID, payment.Status)
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "La cuota ya está en estado '" + string(payment.Status) + "'.",
		})
	}

	email, err := h.Directory.UserEmail(studentID)
	if err != nil {
		log.Printf("Failed to load email for student %s: %v", studentID, err)
		email = ""
	}

	log.Printf("Creating Getnet transaction for payment %s, student %s", paymentID, studentID)
	result := h.Gateway.CreateTransaction(payment, email)

	if !result.Success {
		log.Printf("Getnet session creation failed for payment %s: %s", paymentID, result.Error)
		return c.Status(502).JSON(fiber.Map{
			"success": false,
			"error":   "Error de Getnet: " + result.Error,
		})
	}

	transitioned, err := h.Ledger.StartCheckout(paymentID, result.BuyOrder, result.RequestToken)
	if err != nil {
		log.Printf("Failed to persist checkout session for payment %s: %v", paymentID, err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error interno del servidor"})
	}
	if !transitioned {
		// A concurrent initiation won the race; its session stays valid.
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "La cuota ya tiene una sesión de pago en curso.",
		})
	}

	log.Printf("Checkout session created for payment %s (buy order %s)", paymentID, result.BuyOrder)
	return c.JSON(fiber.Map{"success": true, "redirect_url": result.RedirectURL})
}

// LandingAPI is where the payer's browser returns after checkout. It reads
// the ledger only; the webhook is the authority on the final status.
func (h *Handler) LandingAPI(c *fiber.Ctx) error {
	token := c.Query("token")

	var payment *models.Payment
	if token != "" {
		p, err := h.Ledger.GetByRequestID(token)
		if err == nil {
			payment = p
		} else if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Landing lookup failed for token %s: %v", token, err)
		}
	}

	switch {
	case payment != nil && payment.Status == models.PaymentPaid:
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "¡Pago realizado con éxito!",
			"payment": payment,
		})
	case payment != nil && payment.Status == models.PaymentRejected:
		return c.JSON(fiber.Map{
			"status":  "failure",
			"message": "El pago fue rechazado.",
			"payment": payment,
		})
	default:
		return c.JSON(fiber.Map{
			"status":  "info",
			"message": "Procesando pago...",
		})
	}
}
