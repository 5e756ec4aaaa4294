package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusProcessing      OrderStatus = "processing"
	StatusShipped         OrderStatus = "shipped"
	StatusDelivered       OrderStatus = "delivered"
	StatusCancelled       OrderStatus = "cancelled"
)

// OrderStatuses lists every status in workflow order. The first one is the
// status given to new orders.
var OrderStatuses = []OrderStatus{
	StatusAwaitingPayment,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s belongs to the status enumeration.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderLine represents a single product within an order.
type OrderLine struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);index;not null"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);index;not null"`
	Product   *Product        `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"` // Price at the time of order
}

// Subtotal is price times quantity for the line.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// MarshalJSON writes the price with exactly two decimals.
func (l OrderLine) MarshalJSON() ([]byte, error) {
	type plain OrderLine
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(l), l.Price.StringFixed(2)})
}

// Order represents a customer order.
type Order struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string      `json:"customer_id" gorm:"type:varchar(36);index;not null"`
	Status     OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:awaiting_payment"`
	Lines      []OrderLine `json:"lines" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Total sums the line subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
