package middleware

import (
	"log"
	"strings"

	"vitrine/internal/models"
	"vitrine/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that resolves the bearer token
// into a caller identity. Missing or invalid tokens are rejected with
// 401 before the handler runs; role checks happen in the service
// layer.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.ResolveCaller(c.UserContext(), parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or expired token",
			})
		}

		// Store the caller identity for subsequent handlers
		c.Locals("user", user)

		return c.Next()
	}
}

// CallerFrom returns the identity stored by AuthRequired, or nil when
// the route carries no auth middleware (anonymous caller).
func CallerFrom(c *fiber.Ctx) *models.AuthUser {
	if user, ok := c.Locals("user").(*models.AuthUser); ok {
		return user
	}
	return nil
}
