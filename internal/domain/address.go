package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Address is a shipping or billing destination owned by a user
type Address struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id" validate:"required"`
	Name       string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Line1      string    `json:"line1" db:"line1" validate:"required,min=1,max=255"`
	Line2      *string   `json:"line2,omitempty" db:"line2"`
	City       string    `json:"city" db:"city" validate:"required,min=1,max=100"`
	PostalCode string    `json:"postal_code" db:"postal_code" validate:"required,min=1,max=20"`
	Country    string    `json:"country" db:"country" validate:"required,len=2"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// AddressRepository defines the interface for address data access
type AddressRepository interface {
	// Create creates a new address
	Create(ctx context.Context, address *Address) error

	// GetByID retrieves an address by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// ListByUser retrieves a user's addresses, most recent first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Address, error)

	// Delete removes an address
	Delete(ctx context.Context, id uuid.UUID) error
}
