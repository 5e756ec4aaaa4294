package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles the session cart and checkout.
type CartHandler struct {
	cart     *services.CartService
	checkout *services.CheckoutService
	validate *validator.Validate
	log      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService, checkout *services.CheckoutService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		cart:     cart,
		checkout: checkout,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the cart and checkout routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router, g Guards) {
	cartRoutes := router.Group("/cart", g.Auth, g.Session)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)

	router.Post("/checkout", g.Auth, g.Session, h.HandleCheckout)
}

// AddItemRequest adds a product to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

func cartView(cart *models.Cart) fiber.Map {
	count := 0
	for _, e := range cart.Entries {
		count += e.Quantity
	}
	return fiber.Map{
		"entries": cart.Entries,
		"count":   count,
		"total":   cart.Total().StringFixed(2),
	}
}

// HandleGetCart lists the cart with its total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.cart.Get(c.UserContext(), middleware.CartKey(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cartView(cart))
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	cart, err := h.cart.Add(c.UserContext(), middleware.CartKey(c), req.ProductID, qty)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cartView(cart))
}

// HandleRemoveItem removes a product from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.cart.Remove(c.UserContext(), middleware.CartKey(c), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cartView(cart))
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.cart.Clear(c.UserContext(), middleware.CartKey(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCheckout turns the cart into an order.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	order, err := h.checkout.Checkout(c.UserContext(), principal.UserID, middleware.CartKey(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order placed",
		"order_id": order.ID,
		"total":    order.Total().StringFixed(2),
		"order":    order,
	})
}
