package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CustomerHandler serves the back-office customer admin and the customer's
// own profile.
type CustomerHandler struct {
	service  *services.CustomerService
	validate *validator.Validate
	log      *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(service *services.CustomerService, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the customer admin and profile routes.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router, g Guards) {
	customerRoutes := router.Group("/customers", g.Auth, g.Company)
	customerRoutes.Get("/", h.HandleGetCustomers)
	customerRoutes.Get("/:id", h.HandleGetCustomerByID)
	customerRoutes.Post("/", h.HandleCreateCustomer)
	customerRoutes.Put("/:id", h.HandleUpdateCustomer)
	customerRoutes.Delete("/:id", h.HandleDeleteCustomer)

	router.Get("/profile", g.Auth, h.HandleGetProfile)
	router.Put("/profile", g.Auth, h.HandleSaveProfile)
}

// ContactRequest carries the editable contact details of a profile.
type ContactRequest struct {
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=255"`
}

// CreateCustomerRequest creates a profile for an existing user.
type CreateCustomerRequest struct {
	UserID string `json:"user_id" validate:"required"`
	ContactRequest
}

// HandleGetCustomers lists every customer profile.
func (h *CustomerHandler) HandleGetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.GetAllCustomers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(customers)
}

// HandleGetCustomerByID shows one profile.
func (h *CustomerHandler) HandleGetCustomerByID(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomerByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(customer)
}

// HandleCreateCustomer attaches a profile to a user that has none.
func (h *CustomerHandler) HandleCreateCustomer(c *fiber.Ctx) error {
	var req CreateCustomerRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	customer := &models.Customer{UserID: req.UserID, Phone: req.Phone, Address: req.Address}
	if err := h.service.CreateCustomer(c.UserContext(), customer); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// HandleUpdateCustomer changes the contact details of a profile.
func (h *CustomerHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	var req ContactRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	customer := &models.Customer{ID: c.Params("id"), Phone: req.Phone, Address: req.Address}
	if err := h.service.UpdateCustomer(c.UserContext(), customer); err != nil {
		return respondError(c, h.log, err)
	}
	updated, err := h.service.GetCustomerByID(c.UserContext(), customer.ID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(updated)
}

// HandleDeleteCustomer deletes a profile and its orders.
func (h *CustomerHandler) HandleDeleteCustomer(c *fiber.Ctx) error {
	if err := h.service.DeleteCustomer(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetProfile shows the caller's own profile.
func (h *CustomerHandler) HandleGetProfile(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	customer, err := h.service.GetProfile(c.UserContext(), principal.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(customer)
}

// HandleSaveProfile completes or edits the caller's own profile.
func (h *CustomerHandler) HandleSaveProfile(c *fiber.Ctx) error {
	var req ContactRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	principal := middleware.PrincipalFrom(c)
	customer, err := h.service.SaveProfile(c.UserContext(), principal.UserID, req.Phone, req.Address)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Profile saved",
		"customer": customer,
	})
}
