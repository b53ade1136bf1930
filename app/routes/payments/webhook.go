package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/getnet"
	"github.com/gofiber/fiber/v2"
)

// signatureHeader carries the HMAC-SHA256 of the raw webhook body, hex
// encoded, keyed with the configured webhook secret.
const signatureHeader = "X-Getnet-Signature"

// WebhookAPI receives the provider's asynchronous notification for a
// checkout session and reconciles the ledger.
//
// The endpoint always answers 200 once processing completes, including for
// unknown tokens and provider-query failures: a non-200 would put the
// provider into a retry loop and a 404 would leak which tokens exist.
// Malformed bodies and bad signatures are the only rejections.
func (h *Handler) WebhookAPI(c *fiber.Ctx) error {
	body := c.Body()

	if h.WebhookSecret != "" && !h.verifySignature(c.Get(signatureHeader), body) {
		log.Printf("Webhook rejected: bad or missing signature")
		return c.SendStatus(401)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.SendStatus(400)
	}
	if payload.Token == "" {
		return c.SendStatus(400)
	}

	payment, err := h.Ledger.GetByToken(payload.Token)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Webhook ledger lookup failed: %v", err)
		}
		return c.SendStatus(200)
	}

	// Terminal states are never re-processed; a duplicate delivery must not
	// move paid_at or auth_code.
	if payment.IsTerminal() {
		log.Printf("Webhook for payment %s ignored: already %s", payment.ID, payment.Status)
		return c.SendStatus(200)
	}

	status, qerr := h.Gateway.QueryTransactionStatus(payload.Token)
	if qerr != nil {
		log.Printf("Webhook status query failed for payment %s: %s", payment.ID, qerr.Message)
		return c.SendStatus(200)
	}

	switch status.Status {
	case getnet.StatusAuthorized:
		transitioned, err := h.Ledger.MarkPaid(payment.ID, status.AuthorizationCode, time.Now())
		if err != nil {
			log.Printf("Failed to mark payment %s paid: %v", payment.ID, err)
			break
		}
		if transitioned {
			log.Printf("Payment %s marked paid (auth code %q)", payment.ID, status.AuthorizationCode)
			h.sendReceipt(payment.ID, payment.StudentID, payment.Concept)
		}
	case getnet.StatusRejected:
		if _, err := h.Ledger.MarkRejected(payment.ID); err != nil {
			log.Printf("Failed to mark payment %s rejected: %v", payment.ID, err)
		}
	case getnet.StatusFailed:
		if _, err := h.Ledger.MarkFailed(payment.ID); err != nil {
			log.Printf("Failed to mark payment %s failed: %v", payment.ID, err)
		}
	case getnet.StatusRefunded:
		if _, err := h.Ledger.MarkRefunded(payment.ID); err != nil {
			log.Printf("Failed to mark payment %s refunded: %v", payment.ID, err)
		}
	default:
		// PENDING and any unrecognized status retain the current state; the
		// provider will notify again once the transaction settles.
		log.Printf("Webhook for payment %s: status %q retained", payment.ID, status.Status)
	}

	return c.SendStatus(200)
}

func (h *Handler) verifySignature(signature string, body []byte) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// sendReceipt emails the student a payment confirmation. Best effort only.
func (h *Handler) sendReceipt(paymentID, studentID, concept string) {
	if h.Mailer == nil {
		return
	}
	email, err := h.Directory.UserEmail(studentID)
	if err != nil || email == "" {
		return
	}
	h.Mailer.Send(email, "Pago confirmado - Intranet CSAH",
		"Su pago por concepto de \""+concept+"\" fue procesado exitosamente.")
	log.Printf("Receipt queued for payment %s", paymentID)
}
