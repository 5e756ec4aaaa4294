package handlers

import (
	"errors"
	"fmt"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Guards are the middlewares handlers compose per route.
type Guards struct {
	// Auth requires a valid bearer token.
	Auth fiber.Handler
	// Company requires the company role; it runs after Auth.
	Company fiber.Handler
	// Session attaches the visitor session that keys the cart.
	Session fiber.Handler
}

type errorResponse struct {
	status   int
	kind     string
	message  string
	redirect string
}

func classify(err error) errorResponse {
	var stockErr *models.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return errorResponse{fiber.StatusConflict, "insufficient_stock", stockErr.Error(), "/cart"}
	case errors.Is(err, services.ErrProductNotFound):
		return errorResponse{fiber.StatusConflict, "product_not_found", err.Error(), "/cart"}
	case errors.Is(err, services.ErrEmptyCart):
		return errorResponse{fiber.StatusBadRequest, "empty_cart", "Your cart is empty", "/cart"}
	case errors.Is(err, services.ErrCustomerProfileMissing):
		return errorResponse{fiber.StatusConflict, "customer_profile_missing", "Complete your customer profile first", "/profile"}
	case errors.Is(err, models.ErrNotFound):
		return errorResponse{fiber.StatusNotFound, "not_found", "Resource not found", ""}
	case errors.Is(err, services.ErrForbidden):
		return errorResponse{fiber.StatusForbidden, "forbidden", "Access denied", ""}
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return errorResponse{fiber.StatusUnauthorized, "unauthorized", "Invalid credentials", "/login"}
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidStock),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrNoOrderLines):
		return errorResponse{fiber.StatusBadRequest, "invalid_input", err.Error(), ""}
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrProfileExists):
		return errorResponse{fiber.StatusConflict, "conflict", err.Error(), ""}
	default:
		return errorResponse{fiber.StatusInternalServerError, "internal", "Something went wrong", ""}
	}
}

// respondError writes the JSON error body for err. Unexpected errors are
// logged with the request ID.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	resp := classify(err)
	if resp.status == fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("request_id", logger.RequestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	body := fiber.Map{
		"message": resp.message,
		"error":   resp.kind,
	}
	if resp.redirect != "" {
		body["redirect"] = resp.redirect
	}
	return c.Status(resp.status).JSON(body)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// parseAndValidate decodes the body into dst and checks its validate tags.
// It writes the 400 response itself and reports whether dst is usable.
func parseAndValidate(c *fiber.Ctx, validate *validator.Validate, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, badRequest(c, err)
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, badRequest(c, err)
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "validation",
			"errors":  errorMessages,
		})
	}
	return true, nil
}
