package repositories

import (
	"context"

	"storefront/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts the user together with user.Customer when it is set.
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// CustomerRepository defines the interface for customer profile data access.
type CustomerRepository interface {
	GetAll(ctx context.Context) ([]models.Customer, error)
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	// Delete removes the profile and, through the foreign key, its orders.
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByCustomerID(ctx context.Context, customerID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// PlaceOrder decrements stock for every line and stores the order with
	// its lines, all or nothing. A line whose product cannot cover the
	// quantity fails with *models.InsufficientStockError.
	PlaceOrder(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	Delete(ctx context.Context, id string) error
}

// CartStore keeps session carts outside the relational store.
type CartStore interface {
	// Get returns the cart of sessionID, or an empty cart when none is stored.
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
