package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FelipeHuencho/intranet-csah/app/config"
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret"},
	}
}

func testUser() *models.User {
	return &models.User{
		ID:        "10000000-0000-0000-0000-000000000001",
		RUT:       "12345678-9",
		Role:      models.RoleTeacher,
		FirstName: "María",
		LastName:  "Pérez",
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("hunter3", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(testUser())
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "10000000-0000-0000-0000-000000000001", claims.UserID)
	assert.Equal(t, "12345678-9", claims.RUT)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "intranet-csah", claims.Issuer)
}

func TestValidateJWTRejectsTampered(t *testing.T) {
	token, err := GenerateJWT(testUser())
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	_, err = ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func whoamiApp() *fiber.App {
	app := fiber.New()
	app.Get("/whoami", AuthMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("user_role"),
		})
	})
	return app
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	app := whoamiApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	app := whoamiApp()
	token, err := GenerateJWT(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "10000000-0000-0000-0000-000000000001", body["user_id"])
	assert.Equal(t, "teacher", body["role"])
}

func TestAuthMiddlewareCookieToken(t *testing.T) {
	app := whoamiApp()
	token, err := GenerateJWT(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "jwt_token", Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRoleMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/admin-only", AuthMiddleware, RoleMiddleware(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	teacherToken, err := GenerateJWT(testUser())
	require.NoError(t, err)

	admin := testUser()
	admin.Role = models.RoleAdmin
	adminToken, err := GenerateJWT(admin)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+teacherToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
