package repositories

import (
	"context"
	"sync"
	"time"

	"storefront/internal/models"
)

type memoryCart struct {
	cart      models.Cart
	expiresAt time.Time
}

// MemoryCartStore is an in-memory CartStore. It is safe for concurrent use.
type MemoryCartStore struct {
	carts map[string]memoryCart
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
}

// NewMemoryCartStore creates a store whose carts expire after ttl without
// activity. A ttl of zero keeps carts forever.
func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[string]memoryCart),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns a copy of the stored cart, or an empty cart.
func (s *MemoryCartStore) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.carts[sessionID]
	if !ok || s.expired(stored) {
		return models.NewCart(sessionID), nil
	}
	cart := stored.cart
	cart.Entries = append([]models.CartEntry{}, stored.cart.Entries...)
	return &cart, nil
}

// Save stores a copy of cart and restarts its expiry. Expired carts of
// abandoned sessions are evicted on the way.
func (s *MemoryCartStore) Save(ctx context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, stored := range s.carts {
		if s.expired(stored) {
			delete(s.carts, key)
		}
	}

	now := s.now()
	cart.UpdatedAt = now
	stored := memoryCart{cart: *cart}
	stored.cart.Entries = append([]models.CartEntry{}, cart.Entries...)
	if s.ttl > 0 {
		stored.expiresAt = now.Add(s.ttl)
	}
	s.carts[cart.SessionID] = stored
	return nil
}

// Delete drops the cart of sessionID.
func (s *MemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

func (s *MemoryCartStore) expired(c memoryCart) bool {
	return !c.expiresAt.IsZero() && s.now().After(c.expiresAt)
}
