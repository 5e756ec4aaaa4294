package middleware

import (
	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
)

// IsCompany reports whether p is an authenticated company user.
func IsCompany(p *Principal) bool {
	return p != nil && p.Role == models.RoleCompany
}

// CompanyOnly rejects callers that are not company users. It must run after
// AuthRequired.
func CompanyOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsCompany(PrincipalFrom(c)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "This area is restricted to company users",
				"error":   "forbidden",
			})
		}
		return c.Next()
	}
}
