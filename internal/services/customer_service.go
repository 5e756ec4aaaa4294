package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CustomerService handles customer profiles, both for the company back
// office and for customers completing their own profile.
type CustomerService struct {
	customerRepo repositories.CustomerRepository
	userRepo     repositories.UserRepository
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo repositories.CustomerRepository, userRepo repositories.UserRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		userRepo:     userRepo,
	}
}

// GetAllCustomers retrieves all customer profiles.
func (s *CustomerService) GetAllCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.customerRepo.GetAll(ctx)
}

// GetCustomerByID retrieves a single profile by its ID.
func (s *CustomerService) GetCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

// CreateCustomer creates a profile for an existing user that has none.
func (s *CustomerService) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if _, err := s.userRepo.GetByID(ctx, customer.UserID); err != nil {
		return err
	}
	if _, err := s.customerRepo.GetByUserID(ctx, customer.UserID); err == nil {
		return ErrProfileExists
	} else if !isNotFound(err) {
		return err
	}

	fillContactDefaults(customer)
	return s.customerRepo.Create(ctx, customer)
}

// UpdateCustomer changes the contact details of a profile.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	fillContactDefaults(customer)
	return s.customerRepo.Update(ctx, customer)
}

// DeleteCustomer deletes a profile together with its orders.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	return s.customerRepo.Delete(ctx, id)
}

// GetProfile returns the profile owned by userID.
func (s *CustomerService) GetProfile(ctx context.Context, userID string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCustomerProfileMissing
		}
		return nil, err
	}
	return customer, nil
}

// SaveProfile updates the contact details of userID's profile, creating the
// profile first when the user has none.
func (s *CustomerService) SaveProfile(ctx context.Context, userID, phone, address string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		customer.Phone = phone
		customer.Address = address
		fillContactDefaults(customer)
		if err := s.customerRepo.Update(ctx, customer); err != nil {
			return nil, err
		}
		return customer, nil
	case isNotFound(err):
		customer = models.NewCustomer(userID)
		if phone != "" {
			customer.Phone = phone
		}
		if address != "" {
			customer.Address = address
		}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		return customer, nil
	default:
		return nil, err
	}
}

func fillContactDefaults(c *models.Customer) {
	if c.Phone == "" {
		c.Phone = models.DefaultPhone
	}
	if c.Address == "" {
		c.Address = models.DefaultAddress
	}
}
