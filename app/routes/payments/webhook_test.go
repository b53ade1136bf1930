package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/getnet"
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inFlightPayment is a payment whose checkout session has been created and
// is awaiting the provider's notification.
func inFlightPayment() *models.Payment {
	p := pendingPayment()
	p.Status = models.PaymentPendingReview
	requestID := "P" + testPaymentID + "-0310120000"
	token := "abc123"
	p.RequestID = &requestID
	p.Token = &token
	return p
}

func postWebhook(t *testing.T, app *fiber.App, body string, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/payments/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestWebhookAuthorizedMarksPaid(t *testing.T) {
	ledger := newFakeLedger(inFlightPayment())
	gateway := &fakeGateway{status: &getnet.TransactionStatus{
		Status:            getnet.StatusAuthorized,
		AuthorizationCode: "OK999",
	}}
	mailer := &fakeMailer{}
	h := newHandler(ledger, gateway)
	h.Mailer = mailer
	app := newTestApp(h, testStudent())

	code := postWebhook(t, app, `{"token":"abc123"}`, nil)

	assert.Equal(t, 200, code)
	assert.Equal(t, []string{"abc123"}, gateway.queriedRefs)

	stored := ledger.payments[testPaymentID]
	assert.Equal(t, models.PaymentPaid, stored.Status)
	require.NotNil(t, stored.AuthCode)
	assert.Equal(t, "OK999", *stored.AuthCode)
	require.NotNil(t, stored.PaidAt)
	assert.WithinDuration(t, time.Now(), *stored.PaidAt, time.Minute)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "benjamin@csah.cl", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "Mensualidad Marzo")
}

func TestWebhookDuplicateDeliveryIsIdempotent(t *testing.T) {
	ledger := newFakeLedger(inFlightPayment())
	gateway := &fakeGateway{status: &getnet.TransactionStatus{
		Status:            getnet.StatusAuthorized,
		AuthorizationCode: "OK999",
	}}
	h := newHandler(ledger, gateway)
	app := newTestApp(h, testStudent())

	require.Equal(t, 200, postWebhook(t, app, `{"token":"abc123"}`, nil))
	firstPaidAt := *ledger.payments[testPaymentID].PaidAt

	// The second delivery must short-circuit before querying the provider
	// and leave the settlement timestamp alone.
	require.Equal(t, 200, postWebhook(t, app, `{"token":"abc123"}`, nil))

	assert.Len(t, gateway.queriedRefs, 1)
	assert.Equal(t, firstPaidAt, *ledger.payments[testPaymentID].PaidAt)
	assert.Equal(t, "OK999", *ledger.payments[testPaymentID].AuthCode)
}

func TestWebhookRejected(t *testing.T) {
	ledger := newFakeLedger(inFlightPayment())
	gateway := &fakeGateway{status: &getnet.TransactionStatus{Status: getnet.StatusRejected}}
	h := newHandler(ledger, gateway)
	app := newTestApp(h, testStudent())

	code := postWebhook(t, app, `{"token":"abc123"}`, nil)

	assert.Equal(t, 200, code)
	stored := ledger.payments[testPaymentID]
	assert.Equal(t, models.PaymentRejected, stored.Status)
	assert.Nil(t, stored.PaidAt)
}

func TestWebhookFailed(t *testing.T) {
	ledger := newFakeLedger(inFlightPayment())
	gateway := &fakeGateway{status: &getnet.TransactionStatus{Status: getnet.StatusFailed}}
	h := newHandler(ledger, gateway)
	app := newTestApp(h, testStudent())

	postWebhook(t, app, `{"token":"abc123"}`, nil)
	assert.Equal(t, models.PaymentFailed, ledger.payments[testPaymentID].Status)
}

func TestWebhookRefunded(t *testing.T) {
	paid := inFlightPayment()
	paid.Status = models.PaymentPaid
	ledger := newFakeLedger(paid)
	gateway := &fakeGateway{status: &getnet.TransactionStatus{Status: getnet.StatusRefunded}}
	h := newHandler(ledger, gateway)
	app := newTestApp(h, testStudent())

	// Paid is terminal for provider notifications, so a refund arriving via
	// webhook is ignored; refunds go through the finance endpoint.
	postWebhook(t, app, `{"token":"abc123"}`, nil)
	assert.Equal(t, models.PaymentPaid, ledger.payments[testPaymentID].Status)
	assert.Empty(t, gateway.queriedRefs)
}

func TestWebhookPendingRetainsState(t *testing.T) {
	ledger := newFakeLedger(inFlightPayment())
	gateway := &fakeGateway{status: &getnet.TransactionStatus{Status: getnet.StatusPending}}
	h := newHandler(ledger, gateway)
	app := newTestApp(h, testStudent())

	code := postWebhook(t, app, `{"token":"abc123"}`, nil)

	assert.Equal(t, 200, code)
	assert.Equal(t, models.PaymentPendingReview, ledger.payments[testPaymentID].Status)
}

func TestWebhookUnknownStatusRetainsState(t *testing.T) {
	ledger := newFakeLedger(inFlightPayment())
	gateway := &fakeGateway{status: &getnet.TransactionStatus{Status: "SOMETHING_NEW"}}
	h := newHandler(ledger, gateway)
	app := newTestApp(h, testStudent())

	assert.Equal(t, 200, postWebhook(t, app, `{"token":"abc123"}`, nil))
	assert.Equal(t, models.PaymentPendingReview, ledger.payments[testPaymentID].Status)
}

func TestWebhookUnknownToken(t *testing.T) {
	ledger := newFakeLedger(inFlightPayment())
	gateway := &fakeGateway{}
	h := newHandler(ledger, gateway)
	app := newTestApp(h, testStudent())

	code := postWebhook(t, app, `{"token":"does-not-exist"}`, nil)

	// Unknown tokens are acknowledged without leaking their absence and
	// without touching the ledger or the provider.
	assert.Equal(t, 200, code)
	assert.Equal(t, models.PaymentPendingReview, ledger.payments[testPaymentID].Status)
	assert.Empty(t, gateway.queriedRefs)
}

func TestWebhookMalformedBody(t *testing.T) {
	h := newHandler(newFakeLedger(), &fakeGateway{})
	app := newTestApp(h, testStudent())

	assert.Equal(t, 400, postWebhook(t, app, `not json`, nil))
	assert.Equal(t, 400, postWebhook(t, app, `{}`, nil))
	assert.Equal(t, 400, postWebhook(t, app, `{"token":""}`, nil))
}

func TestWebhookProviderQueryFailure(t *testing.T) {
	ledger := newFakeLedger(inFlightPayment())
	gateway := &fakeGateway{queryErr: &getnet.Error{Kind: getnet.ErrConnection, Message: "timeout"}}
	h := newHandler(ledger, gateway)
	app := newTestApp(h, testStudent())

	// A query failure still answers 200 so the provider retries later; the
	// ledger keeps its in-flight state.
	code := postWebhook(t, app, `{"token":"abc123"}`, nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, models.PaymentPendingReview, ledger.payments[testPaymentID].Status)
}

func signBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookSignatureVerification(t *testing.T) {
	ledger := newFakeLedger(inFlightPayment())
	gateway := &fakeGateway{status: &getnet.TransactionStatus{
		Status:            getnet.StatusAuthorized,
		AuthorizationCode: "OK999",
	}}
	h := newHandler(ledger, gateway)
	h.WebhookSecret = "whsec"
	app := newTestApp(h, testStudent())

	body := `{"token":"abc123"}`

	assert.Equal(t, 401, postWebhook(t, app, body, nil), "missing signature")
	assert.Equal(t, 401, postWebhook(t, app, body, map[string]string{
		signatureHeader: "deadbeef",
	}), "wrong signature")
	assert.Equal(t, models.PaymentPendingReview, ledger.payments[testPaymentID].Status)

	code := postWebhook(t, app, body, map[string]string{
		signatureHeader: signBody("whsec", body),
	})
	assert.Equal(t, 200, code)
	assert.Equal(t, models.PaymentPaid, ledger.payments[testPaymentID].Status)
}
