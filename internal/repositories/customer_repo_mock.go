package repositories

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockCustomerRepository is an in-memory implementation of CustomerRepository.
type MockCustomerRepository struct {
	customers map[string]models.Customer
	mu        sync.RWMutex
}

// NewMockCustomerRepository creates a new instance of MockCustomerRepository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]models.Customer),
	}
}

// GetAll returns all customer profiles.
func (r *MockCustomerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customerList := make([]models.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		customerList = append(customerList, c)
	}
	return customerList, nil
}

// GetByID returns a customer profile by its ID.
func (r *MockCustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", id, models.ErrNotFound)
	}
	return &customer, nil
}

// GetByUserID returns the profile owned by userID.
func (r *MockCustomerRepository) GetByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("customer %s: %w", userID, models.ErrNotFound)
}

// Create adds a new customer profile.
func (r *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.customers {
		if c.UserID == customer.UserID {
			return fmt.Errorf("customer for user %s already exists", customer.UserID)
		}
	}
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	r.customers[customer.ID] = *customer
	return nil
}

// Update modifies the contact details of an existing profile.
func (r *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.customers[customer.ID]
	if !ok {
		return fmt.Errorf("customer %s: %w", customer.ID, models.ErrNotFound)
	}
	existing.Phone = customer.Phone
	existing.Address = customer.Address
	r.customers[customer.ID] = existing
	return nil
}

// Delete removes a customer profile by its ID.
func (r *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[id]; !ok {
		return fmt.Errorf("customer %s: %w", id, models.ErrNotFound)
	}
	delete(r.customers, id)
	return nil
}
