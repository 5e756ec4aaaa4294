package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	Description string          `json:"description" gorm:"type:text" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0;check:stock >= 0" validate:"gte=0"`
	ImageURL    string          `json:"image_url,omitempty" gorm:"type:varchar(255)" validate:"omitempty,url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MarshalJSON writes the price with exactly two decimals.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(p), p.Price.StringFixed(2)})
}
