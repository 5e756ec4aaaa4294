package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CartEntry is one product in a session cart. Name, price and image are
// copied from the product when it is first added.
type CartEntry struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is the snapshot price times quantity.
func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// MarshalJSON writes the price with exactly two decimals.
func (e CartEntry) MarshalJSON() ([]byte, error) {
	type plain CartEntry
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(e), e.Price.StringFixed(2)})
}

// Cart is the per-session shopping cart. Entries keep the order in which
// products were first added.
type Cart struct {
	SessionID string      `json:"session_id"`
	Entries   []CartEntry `json:"entries"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewCart returns an empty cart for sessionID.
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Entries:   []CartEntry{},
	}
}

// Add puts qty units of p in the cart. A product already in the cart keeps
// its original snapshot and only gains quantity.
func (c *Cart) Add(p *Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Entries {
		if c.Entries[i].ProductID == p.ID {
			c.Entries[i].Quantity += qty
			return nil
		}
	}
	c.Entries = append(c.Entries, CartEntry{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  qty,
	})
	return nil
}

// Remove drops the entry for productID and reports whether one was present.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Entries {
		if c.Entries[i].ProductID == productID {
			c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entry looks up the entry for productID.
func (c *Cart) Entry(productID string) (CartEntry, bool) {
	for _, e := range c.Entries {
		if e.ProductID == productID {
			return e, true
		}
	}
	return CartEntry{}, false
}

// Total sums snapshot price times quantity over all entries.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.Entries {
		total = total.Add(e.Subtotal())
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Entries = []CartEntry{}
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}
