package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{db: db}
}

// GetAll retrieves all customer profiles.
func (r *GORMCustomerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).Order("created_at").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to get all customers: %w", err)
	}
	return customers, nil
}

// GetByID retrieves a customer profile by its ID.
func (r *GORMCustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByUserID retrieves the profile owned by userID.
func (r *GORMCustomerRepository) GetByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	return r.first(ctx, "user_id = ?", userID)
}

// Create creates a new customer profile.
func (r *GORMCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update saves the contact details of an existing profile.
func (r *GORMCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{"phone": customer.Phone, "address": customer.Address})
	if res.Error != nil {
		return fmt.Errorf("failed to update customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %s: %w", customer.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a customer profile; the database cascades to its orders.
func (r *GORMCustomerRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *GORMCustomerRepository) first(ctx context.Context, query string, arg string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %s: %w", arg, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", arg, err)
	}
	return &customer, nil
}
