package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It decrements stock in the product repository it was built with.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(models.Order) bool { return true }), nil
}

// GetByCustomerID returns the orders of one customer, newest first.
func (r *MockOrderRepository) GetByCustomerID(ctx context.Context, customerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(o models.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *MockOrderRepository) filter(keep func(models.Order) bool) []models.Order {
	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			orderList = append(orderList, copyOrder(order))
		}
	}
	sort.Slice(orderList, func(i, j int) bool { return orderList[i].CreatedAt.After(orderList[j].CreatedAt) })
	return orderList
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	order = copyOrder(order)
	return &order, nil
}

// PlaceOrder validates every line against the product stock before touching
// anything, then decrements and stores the order under both locks.
func (r *MockOrderRepository) PlaceOrder(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products.mu.Lock()
	defer r.products.mu.Unlock()

	for _, line := range order.Lines {
		product, ok := r.products.products[line.ProductID]
		if !ok {
			return fmt.Errorf("product %s: %w", line.ProductID, models.ErrNotFound)
		}
		if product.Stock < line.Quantity {
			return &models.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.Stock,
			}
		}
	}

	for _, line := range order.Lines {
		product := r.products.products[line.ProductID]
		product.Stock -= line.Quantity
		r.products.products[line.ProductID] = product
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Lines {
		if order.Lines[i].ID == "" {
			order.Lines[i].ID = uuid.New().String()
		}
		order.Lines[i].OrderID = order.ID
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// Delete removes an order and its lines.
func (r *MockOrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	delete(r.orders, id)
	return nil
}

// Count returns the number of stored orders and order lines.
func (r *MockOrderRepository) Count() (orders, lines int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		lines += len(o.Lines)
	}
	return len(r.orders), lines
}

func copyOrder(o models.Order) models.Order {
	o.Lines = append([]models.OrderLine(nil), o.Lines...)
	return o
}
