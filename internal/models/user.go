package models

import "time"

// Role tags a user as a storefront customer or as staff of the company.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCompany  Role = "company"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleCompany
}

// User represents an account of the store.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255);not null" validate:"required,min=6"`
	Role      Role      `json:"role" gorm:"type:varchar(10);not null;default:customer" validate:"omitempty,oneof=customer company"`
	Customer  *Customer `json:"customer,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
