package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartService manages the shopping cart of a visitor session.
type CartService struct {
	carts    repositories.CartStore
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartStore, products repositories.ProductRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// Get returns the cart of sessionID.
func (s *CartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	return s.carts.Get(ctx, sessionID)
}

// Add puts qty units of productID into the cart. Stock is not checked here;
// checkout does that.
func (s *CartService) Add(ctx context.Context, sessionID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, models.ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cart.Add(product, qty); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove drops productID from the cart. Removing an absent product is a no-op.
func (s *CartService) Remove(ctx context.Context, sessionID, productID string) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.Remove(productID) {
		return cart, nil
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// List returns the cart entries in the order they were first added.
func (s *CartService) List(ctx context.Context, sessionID string) ([]models.CartEntry, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cart.Entries, nil
}

// Total returns the exact sum of snapshot price times quantity.
func (s *CartService) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Total(), nil
}

// Clear empties the cart of sessionID.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// isNotFound reports whether err wraps models.ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
