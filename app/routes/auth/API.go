package auth

import (
	"database/sql"
	"log"
	"time"

	"github.com/FelipeHuencho/intranet-csah/app/config"
	"github.com/FelipeHuencho/intranet-csah/app/database"
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/FelipeHuencho/intranet-csah/app/ratelimit"
	"github.com/gofiber/fiber/v2"
)

// loginLimiter throttles password guesses per RUT. Injected at route setup
// so tests can swap it.
var loginLimiter ratelimit.Limiter

func LoginAPI(c *fiber.Ctx) error {
	type LoginRequest struct {
		RUT      string `json:"rut"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.RUT == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "RUT and password are required"})
	}

	if loginLimiter != nil && !loginLimiter.Allow("login:"+req.RUT) {
		return c.Status(429).JSON(fiber.Map{"error": "Demasiados intentos. Intente más tarde."})
	}

	user, err := database.GetUserByRUT(config.GetDB(), req.RUT)
	if err != nil {
		if err == sql.ErrNoRows {
			if loginLimiter != nil {
				loginLimiter.Fail("login:" + req.RUT)
			}
			return c.Status(401).JSON(fiber.Map{"error": "Credenciales inválidas"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	if user.ActiveStatus != models.Active {
		return c.Status(401).JSON(fiber.Map{"error": "Cuenta desactivada"})
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		if loginLimiter != nil {
			loginLimiter.Fail("login:" + req.RUT)
		}
		return c.Status(401).JSON(fiber.Map{"error": "Credenciales inválidas"})
	}

	if loginLimiter != nil {
		loginLimiter.Reset("login:" + req.RUT)
	}

	token, err := GenerateJWT(user)
	if err != nil {
		log.Printf("Failed to generate token for user %s: %v", user.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
	})
}

func LogoutAPI(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"message": "Logout successful"})
}

func ChangePasswordAPI(c *fiber.Ctx) error {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "La nueva contraseña debe tener al menos 8 caracteres"})
	}

	userID := c.Locals("user_id").(string)

	user, err := database.GetUserByID(config.GetDB(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	if !CheckPasswordHash(req.CurrentPassword, user.Password) {
		return c.Status(400).JSON(fiber.Map{"error": "La contraseña actual es incorrecta"})
	}

	hashedPassword, err := HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	if err := database.UpdateUserPassword(config.GetDB(), userID, hashedPassword); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update password"})
	}

	return c.JSON(fiber.Map{"message": "Contraseña actualizada"})
}
