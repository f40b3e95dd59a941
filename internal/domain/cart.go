package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cart holds a buyer's pending items. One cart per user, created lazily.
type Cart struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	UserID    uuid.UUID   `json:"user_id" db:"user_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
	Items     []*CartItem `json:"items" db:"-"`
}

// CartItem references a product with a quantity. Prices are not stored on
// the cart; totals are always computed from current product prices.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id" validate:"required"`
	Qty       int       `json:"qty" db:"qty" validate:"gte=1"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Product   *Product  `json:"product,omitempty" db:"-"`
}

// CartRepository defines the interface for cart data access
type CartRepository interface {
	// GetOrCreateByUser returns the user's cart with items, creating an
	// empty cart on first access
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// AddItem inserts a cart item, or increases qty when the product is
	// already in the cart
	AddItem(ctx context.Context, cartID uuid.UUID, productID uuid.UUID, qty int) (*CartItem, error)

	// UpdateItemQty sets the quantity of a cart item
	UpdateItemQty(ctx context.Context, itemID uuid.UUID, qty int) error

	// GetItem retrieves a cart item by ID
	GetItem(ctx context.Context, itemID uuid.UUID) (*CartItem, error)

	// RemoveItem deletes a cart item
	RemoveItem(ctx context.Context, itemID uuid.UUID) error

	// Clear removes all items from a cart
	Clear(ctx context.Context, cartID uuid.UUID) error
}
