// Package getnet implements the Web Checkout integration with Getnet's
// hosted-payment API: session creation and transaction status queries.
//
// The client never touches the payment ledger. Every failure mode comes back
// as a tagged result value so callers can decide how to surface it; nothing
// here panics or leaks transport errors upward.
package getnet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/golang-jwt/jwt/v5"
)

const placeholderEmail = "no-email@example.com"

// Config carries the provider settings. All fields are environment-supplied.
type Config struct {
	CheckoutBaseURL  string
	Login            string
	Trankey          string
	ReturnURL        string
	NotificationURL  string
	CreateRequestURL string
	QueryRequestURL  string
}

// Provider transaction statuses. Anything outside this set is treated as
// in-progress and retained without a ledger transition.
const (
	StatusAuthorized = "AUTHORIZED"
	StatusRejected   = "REJECTED"
	StatusFailed     = "FAILED"
	StatusRefunded   = "REFUNDED"
	StatusPending    = "PENDING"
)

// Client talks to the Getnet API. Session creation uses a short timeout so a
// slow provider fails fast in front of the user; status queries get a longer
// one since they run server-to-server.
type Client struct {
	cfg        Config
	createHTTP *http.Client
	queryHTTP  *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		createHTTP: &http.Client{Timeout: 5 * time.Second},
		queryHTTP:  &http.Client{Timeout: 10 * time.Second},
	}
}

// generateAssertion builds the short-lived signed JWT that authenticates
// API requests: issuer is the provider-assigned login, signed HS256 with the
// shared trankey, valid for five minutes.
func (c *Client) generateAssertion() (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": c.cfg.Login,
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
	})
	return token.SignedString([]byte(c.cfg.Trankey))
}

// CreateResult is the tagged outcome of a session-creation attempt. When
// Success is false, Error holds a short human-readable message and the other
// fields are empty.
type CreateResult struct {
	Success      bool
	Error        string
	RedirectURL  string
	RequestToken string
	BuyOrder     string
}

type createRequest struct {
	BuyOrder        string        `json:"buy_order"`
	Amount          float64       `json:"amount"`
	Currency        string        `json:"currency"`
	ReturnURL       string        `json:"return_url"`
	NotificationURL string        `json:"notification_url"`
	Customer        customerField `json:"customer"`
}

type customerField struct {
	Email string `json:"email"`
}

type createResponse struct {
	SessionToken string `json:"session_token"`
	Session      struct {
		RequestToken string `json:"request_token"`
	} `json:"session"`
	Message string `json:"message"`
}

// CreateTransaction opens a Web Checkout session for the payment. The buy
// order combines the payment id with a timestamp suffix for collision
// avoidance; the caller is responsible for persisting it together with the
// returned session token.
func (c *Client) CreateTransaction(payment *models.Payment, studentEmail string) *CreateResult {
	buyOrder := fmt.Sprintf("P%s-%s", payment.ID, time.Now().Format("0102150405"))

	email := studentEmail
	if email == "" {
		email = placeholderEmail
	}

	payload := createRequest{
		BuyOrder:        buyOrder,
		Amount:          payment.Amount.InexactFloat64(),
		Currency:        "CLP",
		ReturnURL:       c.cfg.ReturnURL,
		NotificationURL: c.cfg.NotificationURL,
		Customer:        customerField{Email: email},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &CreateResult{Success: false, Error: "Error interno preparando la solicitud."}
	}

	assertion, err := c.generateAssertion()
	if err != nil {
		log.Printf("[getnet] failed to sign auth assertion: %v", err)
		return &CreateResult{Success: false, Error: "Error interno de autenticación con Getnet."}
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.CreateRequestURL, bytes.NewReader(body))
	if err != nil {
		return &CreateResult{Success: false, Error: "Error interno preparando la solicitud."}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+assertion)

	resp, err := c.createHTTP.Do(req)
	if err != nil {
		log.Printf("[getnet] session create failed (connection/timeout): %v", err)
		return &CreateResult{Success: false, Error: "Falla de comunicación con Getnet (Conexión/Timeout)."}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[getnet] session create HTTP %d: %s", resp.StatusCode, respBody)
		var errData createResponse
		if json.Unmarshal(respBody, &errData) == nil && errData.Message != "" {
			return &CreateResult{
				Success: false,
				Error:   fmt.Sprintf("API Error %d: %s", resp.StatusCode, errData.Message),
			}
		}
		return &CreateResult{
			Success: false,
			Error:   fmt.Sprintf("API Error %d. Respuesta: %s", resp.StatusCode, respBody),
		}
	}

	var data createResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		log.Printf("[getnet] unparseable 2xx response: %s", respBody)
		return &CreateResult{Success: false, Error: "Respuesta inválida de Getnet."}
	}

	// The token arrives under one of two field names depending on the API
	// version answering.
	sessionToken := data.SessionToken
	if sessionToken == "" {
		sessionToken = data.Session.RequestToken
	}
	if sessionToken == "" {
		msg := data.Message
		if msg == "" {
			msg = "Getnet no devolvió token."
		}
		return &CreateResult{Success: false, Error: msg}
	}

	return &CreateResult{
		Success:      true,
		RedirectURL:  fmt.Sprintf("%s/webcheckout?token=%s", c.cfg.CheckoutBaseURL, sessionToken),
		RequestToken: sessionToken,
		BuyOrder:     buyOrder,
	}
}

// ErrorKind distinguishes the two provider-query failure classes.
type ErrorKind int

const (
	ErrHTTP ErrorKind = iota + 1
	ErrConnection
)

// Error is a tagged provider-query failure; it never wraps the transport
// error so provider internals cannot leak to clients.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// TransactionStatus is the provider's authoritative view of a session.
type TransactionStatus struct {
	Status            string `json:"status"`
	AuthorizationCode string `json:"authorization_code"`
	TransactionID     string `json:"transaction_id"`
}

// QueryTransactionStatus pulls the current status of a session by reference
// (the buy-order or token used at creation). It performs no ledger mutation;
// callers decide what to do with the result.
func (c *Client) QueryTransactionStatus(reference string) (*TransactionStatus, *Error) {
	url := fmt.Sprintf("%s/%s", c.cfg.QueryRequestURL, reference)

	assertion, err := c.generateAssertion()
	if err != nil {
		log.Printf("[getnet] failed to sign auth assertion: %v", err)
		return nil, &Error{Kind: ErrConnection, Message: "No se pudo consultar el estado (autenticación)."}
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: ErrConnection, Message: "No se pudo consultar el estado."}
	}
	req.Header.Set("Authorization", "Bearer "+assertion)

	resp, err := c.queryHTTP.Do(req)
	if err != nil {
		log.Printf("[getnet] status query failed (connection/timeout): %v", err)
		return nil, &Error{Kind: ErrConnection, Message: "No se pudo consultar el estado (Conexión/Timeout)."}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[getnet] status query HTTP %d for reference %s", resp.StatusCode, reference)
		return nil, &Error{
			Kind:    ErrHTTP,
			Message: fmt.Sprintf("Error HTTP %d al consultar estado.", resp.StatusCode),
		}
	}

	var status TransactionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &Error{Kind: ErrHTTP, Message: "Respuesta inválida al consultar estado."}
	}
	return &status, nil
}
