package models

import "time"

const (
	DefaultPhone   = "not provided"
	DefaultAddress = "not provided"
)

// Customer is the shopping profile attached to a customer-role user.
type Customer struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex;not null" validate:"required"`
	Phone     string    `json:"phone" gorm:"type:varchar(20);not null" validate:"omitempty,max=20"`
	Address   string    `json:"address" gorm:"type:varchar(255);not null" validate:"omitempty,max=255"`
	Orders    []Order   `json:"orders,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomer returns a profile for userID with placeholder contact details.
func NewCustomer(userID string) *Customer {
	return &Customer{
		UserID:  userID,
		Phone:   DefaultPhone,
		Address: DefaultAddress,
	}
}
