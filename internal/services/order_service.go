package services

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
	publisher    EventPublisher
	log          *zap.Logger
	now          func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
	publisher EventPublisher,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		publisher:    publisher,
		log:          log,
		now:          time.Now,
	}
}

// OrderLineInput is one product and quantity of an order entered by staff.
type OrderLineInput struct {
	ProductID string
	Quantity  int
}

// CreateOrder places an order on behalf of customerID. Lines naming the same
// product are merged, prices are taken from the current catalog and stock is
// decremented atomically with the insert.
func (s *OrderService) CreateOrder(ctx context.Context, customerID string, lines []OrderLineInput) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoOrderLines
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		CustomerID: customer.ID,
		Status:     models.OrderStatuses[0],
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, models.ErrInvalidQuantity
		}
		if i, ok := index[line.ProductID]; ok {
			order.Lines[i].Quantity += line.Quantity
			continue
		}
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		index[line.ProductID] = len(order.Lines)
		order.Lines = append(order.Lines, models.OrderLine{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	if err := s.orderRepo.PlaceOrder(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order created for customer",
		zap.String("order_id", order.ID),
		zap.String("customer_id", customer.ID),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.Total().StringFixed(2)))
	publishEvent(s.publisher, s.log, RoutingOrderCreated, orderCreatedEvent(order))
	return order, nil
}

// GetAllOrders retrieves every order.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetOrdersForUser retrieves the orders of the customer profile owned by
// userID. A user without a profile has no orders.
func (s *OrderService) GetOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return []models.Order{}, nil
		}
		return nil, err
	}
	return s.orderRepo.GetByCustomerID(ctx, customer.ID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// GetOrderForUser retrieves an order only when it belongs to userID. Orders
// of other customers are reported as not found.
func (s *OrderService) GetOrderForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	if order.CustomerID != customer.ID {
		return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to status. Any status may follow any
// other; only values outside the enumeration are rejected.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.log.Info("order status updated", zap.String("order_id", id), zap.String("status", string(status)))
	publishEvent(s.publisher, s.log, RoutingOrderStatusUpdated, OrderStatusUpdatedEvent{
		OrderID:   id,
		Status:    status,
		UpdatedAt: time.Now(),
	})
	return nil
}

// DeleteOrder deletes an order and its lines.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("order deleted", zap.String("order_id", id))
	return nil
}
