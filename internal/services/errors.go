package services

import "errors"

var (
	// ErrCustomerProfileMissing is returned when a user without a customer
	// profile tries to check out.
	ErrCustomerProfileMissing = errors.New("customer profile not found")
	// ErrEmptyCart is returned when checking out a cart without entries.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProductNotFound is returned when a cart entry refers to a product
	// that no longer exists.
	ErrProductNotFound = errors.New("product in cart no longer exists")
	// ErrForbidden is returned when the caller may not act on a resource.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidCredentials hides whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidPrice       = errors.New("price must be greater than zero")
	ErrProfileExists      = errors.New("customer profile already exists")
	// ErrNoOrderLines is returned when an order is entered without products.
	ErrNoOrderLines = errors.New("order needs at least one line")
)
