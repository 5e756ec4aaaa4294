package handlers

import (
	"fmt"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	log      *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the order routes. Customers read their own
// orders; changes need the company role.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, g Guards) {
	orderRoutes := router.Group("/orders", g.Auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", g.Company, h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", g.Company, h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", g.Company, h.HandleDeleteOrder)
}

// HandleGetOrders lists every order for company users and the caller's own
// orders otherwise.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)

	var (
		orders []models.Order
		err    error
	)
	if middleware.IsCompany(principal) {
		orders, err = h.service.GetAllOrders(c.UserContext())
	} else {
		orders, err = h.service.GetOrdersForUser(c.UserContext(), principal.UserID)
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID shows one order. Customers only see their own.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	orderID := c.Params("id")

	var (
		order *models.Order
		err   error
	)
	if middleware.IsCompany(principal) {
		order, err = h.service.GetOrderByID(c.UserContext(), orderID)
	} else {
		order, err = h.service.GetOrderForUser(c.UserContext(), orderID, principal.UserID)
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"order": order,
		"total": order.Total().StringFixed(2),
	})
}

// CreateOrderLine is one line of a staff-entered order. Quantity defaults to 1.
type CreateOrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1"`
}

// CreateOrderRequest is the body of a staff-entered order.
type CreateOrderRequest struct {
	CustomerID string            `json:"customer_id" validate:"required"`
	Lines      []CreateOrderLine `json:"lines" validate:"required,min=1,dive"`
}

// HandleCreateOrder places an order on behalf of a customer.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	lines := make([]services.OrderLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		qty := 1
		if l.Quantity != nil {
			qty = *l.Quantity
		}
		lines = append(lines, services.OrderLineInput{ProductID: l.ProductID, Quantity: qty})
	}

	order, err := h.service.CreateOrder(c.UserContext(), req.CustomerID, lines)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order created",
		"order_id": order.ID,
		"total":    order.Total().StringFixed(2),
		"order":    order,
	})
}

// StatusRequest is the body of a status update.
type StatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	orderID := c.Params("id")
	if err := h.service.UpdateOrderStatus(c.UserContext(), orderID, req.Status); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated to %s", orderID, req.Status),
		"status":  req.Status,
	})
}

// HandleDeleteOrder deletes an order and its lines.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
