package middleware

import (
	"strings"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   string
	Username string
	Role     models.Role
}

// TokenValidator turns a bearer token into claims.
type TokenValidator interface {
	ValidateToken(token string) (*services.Claims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			log.Debug("jwt validation failed", zap.Error(err), zap.String("path", c.Path()))
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(principalKey, &Principal{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		return c.Next()
	}
}

// PrincipalFrom returns the caller stored by AuthRequired, or nil.
func PrincipalFrom(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(principalKey).(*Principal)
	return p
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message":  message,
		"error":    "unauthorized",
		"redirect": "/login",
	})
}
