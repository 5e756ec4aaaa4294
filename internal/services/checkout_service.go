package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// CheckoutService turns a session cart into an order.
type CheckoutService struct {
	customers repositories.CustomerRepository
	products  repositories.ProductRepository
	orders    repositories.OrderRepository
	carts     repositories.CartStore
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewCheckoutService creates a new CheckoutService. publisher may be nil.
func NewCheckoutService(
	customers repositories.CustomerRepository,
	products repositories.ProductRepository,
	orders repositories.OrderRepository,
	carts repositories.CartStore,
	publisher EventPublisher,
	log *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		customers: customers,
		products:  products,
		orders:    orders,
		carts:     carts,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Checkout places an order for userID from the cart of sessionID. On any
// failure no order exists, stock is untouched and the cart is kept.
func (s *CheckoutService) Checkout(ctx context.Context, userID, sessionID string) (*models.Order, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCustomerProfileMissing
		}
		return nil, err
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// Early validation gives precise errors; PlaceOrder re-checks stock
	// atomically when it decrements.
	for _, entry := range cart.Entries {
		product, err := s.products.GetByID(ctx, entry.ProductID)
		if err != nil {
			if isNotFound(err) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, entry.Name)
			}
			return nil, err
		}
		if product.Stock < entry.Quantity {
			return nil, &models.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   entry.Quantity,
				Available:   product.Stock,
			}
		}
	}

	now := s.now()
	order := &models.Order{
		CustomerID: customer.ID,
		Status:     models.OrderStatuses[0],
		Lines:      make([]models.OrderLine, 0, len(cart.Entries)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, entry := range cart.Entries {
		order.Lines = append(order.Lines, models.OrderLine{
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			Price:     entry.Price,
		})
	}

	if err := s.orders.PlaceOrder(ctx, order); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrProductNotFound, err)
		}
		return nil, err
	}

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.log.Error("failed to clear cart after checkout",
			zap.String("order_id", order.ID),
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("customer_id", customer.ID),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.Total().StringFixed(2)))

	publishEvent(s.publisher, s.log, RoutingOrderCreated, orderCreatedEvent(order))

	return order, nil
}
