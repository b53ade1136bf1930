package auth

import (
	"strings"

	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/FelipeHuencho/intranet-csah/app/ratelimit"
	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, limiter ratelimit.Limiter) {
	loginLimiter = limiter

	grp := app.Group("/auth")

	// Public routes
	grp.Post("/login", LoginAPI)
	grp.Post("/logout", LogoutAPI)

	// Protected routes
	grp.Use(AuthMiddleware)
	grp.Post("/change-password", ChangePasswordAPI)
}

// AuthMiddleware validates the JWT and sets user context.
func AuthMiddleware(c *fiber.Ctx) error {
	var tokenString string

	// First try cookie
	tokenString = c.Cookies("jwt_token")

	// If no cookie, try Authorization header
	if tokenString == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			tokenString = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"error": "No token found"})
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
	}

	user := &models.User{
		ID:        claims.UserID,
		RUT:       claims.RUT,
		Role:      claims.Role,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}

	c.Locals("user_id", user.ID)
	c.Locals("user_rut", user.RUT)
	c.Locals("user_role", user.Role)
	c.Locals("user", user)

	return c.Next()
}

// RoleMiddleware checks that the authenticated user has one of the allowed
// roles.
func RoleMiddleware(allowedRoles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(models.Role)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "No token found"})
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}
