package getnet

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayment() *models.Payment {
	return &models.Payment{
		ID:      "11111111-1111-1111-1111-111111111111",
		Amount:  decimal.NewFromInt(180000),
		Concept: "Mensualidad Marzo",
		Status:  models.PaymentPending,
	}
}

func testConfig(createURL, queryURL string) Config {
	return Config{
		CheckoutBaseURL:  "https://checkout.example.com",
		Login:            "test-login",
		Trankey:          "test-trankey",
		ReturnURL:        "https://school.example.com/landing",
		NotificationURL:  "https://school.example.com/webhook",
		CreateRequestURL: createURL,
		QueryRequestURL:  queryURL,
	}
}

func TestCreateTransactionSuccess(t *testing.T) {
	var gotBody map[string]interface{}
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{"session_token": "abc123"})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	result := client.CreateTransaction(testPayment(), "alumno@csah.cl")

	require.True(t, result.Success, "expected success, got error: %s", result.Error)
	assert.Equal(t, "abc123", result.RequestToken)
	assert.Equal(t, "https://checkout.example.com/webcheckout?token=abc123", result.RedirectURL)
	assert.True(t, strings.HasPrefix(result.BuyOrder, "P11111111-1111-1111-1111-111111111111-"),
		"buy order %q should combine payment id and timestamp", result.BuyOrder)

	assert.Equal(t, float64(180000), gotBody["amount"])
	assert.Equal(t, "CLP", gotBody["currency"])
	assert.Equal(t, "https://school.example.com/landing", gotBody["return_url"])
	assert.Equal(t, "https://school.example.com/webhook", gotBody["notification_url"])
	customer := gotBody["customer"].(map[string]interface{})
	assert.Equal(t, "alumno@csah.cl", customer["email"])

	// The bearer assertion must be a five-minute HS256 JWT issued by the
	// configured login and signed with the trankey.
	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))
	token, err := jwt.Parse(strings.TrimPrefix(gotAuth, "Bearer "), func(token *jwt.Token) (interface{}, error) {
		return []byte("test-trankey"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "test-login", claims["iss"])
	exp, _ := claims.GetExpirationTime()
	iat, _ := claims.GetIssuedAt()
	assert.Equal(t, float64(300), exp.Sub(iat.Time).Seconds())
}

func TestCreateTransactionNestedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"session": map[string]interface{}{"request_token": "nested-tok"},
		})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	result := client.CreateTransaction(testPayment(), "")

	require.True(t, result.Success)
	assert.Equal(t, "nested-tok", result.RequestToken)
}

func TestCreateTransactionPlaceholderEmail(t *testing.T) {
	var gotBody createRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{"session_token": "tok"})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	result := client.CreateTransaction(testPayment(), "")

	require.True(t, result.Success)
	assert.Equal(t, "no-email@example.com", gotBody.Customer.Email)
}

func TestCreateTransactionHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "merchant disabled"})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	result := client.CreateTransaction(testPayment(), "a@b.cl")

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "API Error 500")
	assert.Contains(t, result.Error, "merchant disabled")
	assert.Empty(t, result.RequestToken)
}

func TestCreateTransactionHTTPErrorUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	result := client.CreateTransaction(testPayment(), "a@b.cl")

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "API Error 502")
	assert.Contains(t, result.Error, "upstream exploded")
}

func TestCreateTransactionMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "sesión no disponible"})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	result := client.CreateTransaction(testPayment(), "a@b.cl")

	require.False(t, result.Success)
	assert.Equal(t, "sesión no disponible", result.Error)
}

func TestCreateTransactionConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(testConfig(srv.URL, srv.URL))
	result := client.CreateTransaction(testPayment(), "a@b.cl")

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "Conexión/Timeout")
}

func TestQueryTransactionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/abc123", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":             "AUTHORIZED",
			"authorization_code": "OK999",
		})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	status, qerr := client.QueryTransactionStatus("abc123")

	require.Nil(t, qerr)
	assert.Equal(t, StatusAuthorized, status.Status)
	assert.Equal(t, "OK999", status.AuthorizationCode)
}

func TestQueryTransactionStatusHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	status, qerr := client.QueryTransactionStatus("missing")

	require.Nil(t, status)
	require.NotNil(t, qerr)
	assert.Equal(t, ErrHTTP, qerr.Kind)
	assert.Contains(t, qerr.Message, "404")
}

func TestQueryTransactionStatusConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(testConfig(srv.URL, srv.URL))
	status, qerr := client.QueryTransactionStatus("abc123")

	require.Nil(t, status)
	require.NotNil(t, qerr)
	assert.Equal(t, ErrConnection, qerr.Kind)
}
