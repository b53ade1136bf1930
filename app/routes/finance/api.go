package finance

import (
	"database/sql"
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/config"
	"github.com/FelipeHuencho/intranet-csah/app/database"
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func store() *database.PaymentStore {
	return database.NewPaymentStore(config.GetDB())
}

// CreatePaymentAPI issues a new pending payment for a student. Provider
// identifiers stay empty until the guardian starts a checkout session.
func CreatePaymentAPI(c *fiber.Ctx) error {
	type CreatePaymentRequest struct {
		StudentID string  `json:"student_id" validate:"required,uuid"`
		Amount    float64 `json:"amount" validate:"required,gt=0"`
		Concept   string  `json:"concept" validate:"required"`
		DueDate   string  `json:"due_date" validate:"omitempty"`
	}

	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	payment := &models.Payment{
		StudentID: req.StudentID,
		Amount:    decimal.NewFromFloat(req.Amount),
		Concept:   req.Concept,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid due_date, expected YYYY-MM-DD"})
		}
		payment.DueDate = &due
	}

	if err := store().Create(payment); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create payment"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "payment": payment})
}

// GetPaymentsAPI lists payments, filtered by student or status.
func GetPaymentsAPI(c *fiber.Ctx) error {
	studentID := c.Query("student_id")
	status := c.Query("status")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	var (
		payments []*models.Payment
		err      error
	)
	if studentID != "" {
		payments, err = store().ListByStudent(studentID)
	} else {
		payments, err = store().ListByStatus(models.PaymentStatus(status), limit, offset)
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"payments": payments,
		"count":    len(payments),
	})
}

// GetPaymentAPI returns one payment with its provider correlation fields,
// for manual support reconciliation.
func GetPaymentAPI(c *fiber.Ctx) error {
	payment, err := store().GetByID(c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Payment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch payment"})
	}
	return c.JSON(fiber.Map{"success": true, "payment": payment})
}

// GetStatsAPI returns ledger-wide counts and totals.
func GetStatsAPI(c *fiber.Ctx) error {
	stats, err := store().Stats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

// RefundPaymentAPI marks a payment refunded after an out-of-band refund
// with the provider.
func RefundPaymentAPI(c *fiber.Ctx) error {
	transitioned, err := store().MarkRefunded(c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to refund payment"})
	}
	if !transitioned {
		return c.Status(400).JSON(fiber.Map{"error": "Payment already refunded or not found"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// MarkOverdueAPI runs the overdue sweep on demand, ahead of the nightly
// scheduled run.
func MarkOverdueAPI(c *fiber.Ctx) error {
	n, err := store().MarkOverdue()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to mark overdue payments"})
	}
	return c.JSON(fiber.Map{"success": true, "marked": n})
}
