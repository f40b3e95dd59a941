package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product represents a wine listing offered by a seller.
// All monetary amounts are integer cents.
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	SellerID    uuid.UUID  `json:"seller_id" db:"seller_id" validate:"required"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	Name        string     `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty" db:"description"`
	Region      *string    `json:"region,omitempty" db:"region"`
	Vintage     *int       `json:"vintage,omitempty" db:"vintage"`
	PriceCents  int64      `json:"price_cents" db:"price_cents" validate:"gte=0"`
	Currency    string     `json:"currency" db:"currency"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	Inventory   *Inventory `json:"inventory,omitempty" db:"-"`
}

// Inventory tracks stock for a product. Unmanaged inventory is never
// stock-checked at order time.
type Inventory struct {
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Managed   bool      `json:"managed" db:"managed"`
	SKU       *string   `json:"sku,omitempty" db:"sku"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductRepository defines the interface for product and inventory data access
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID, with its inventory row when present
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindActiveByIDs resolves the given ids to active products with their
	// inventory. Ids that do not resolve are simply absent from the result.
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// List retrieves a paginated list of active products
	List(ctx context.Context, limit, offset int) ([]*Product, error)

	// Update updates an existing product
	Update(ctx context.Context, product *Product) error

	// Deactivate marks a product inactive so it can no longer be ordered
	Deactivate(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of active products
	Count(ctx context.Context) (int, error)

	// GetInventory retrieves the inventory row for a product
	GetInventory(ctx context.Context, productID uuid.UUID) (*Inventory, error)

	// SetInventory creates or replaces the inventory row for a product
	SetInventory(ctx context.Context, inv *Inventory) error

	// AdjustInventory adds delta to the quantity; the result never goes negative
	AdjustInventory(ctx context.Context, productID uuid.UUID, delta int) (*Inventory, error)
}
