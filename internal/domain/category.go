package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category is a browse taxonomy node for wine listings. Categories form a
// tree via ParentID; the slug is unique across the whole tree.
type Category struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	Name      string     `json:"name" db:"name" validate:"required,min=1,max=255"`
	Slug      string     `json:"slug" db:"slug" validate:"required,min=1,max=255"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *Category) error

	// GetByID retrieves a category by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// List retrieves all categories ordered by name
	List(ctx context.Context) ([]*Category, error)

	// Update updates an existing category
	Update(ctx context.Context, category *Category) error

	// Delete removes a category; products keep their listing but lose the link
	Delete(ctx context.Context, id uuid.UUID) error
}
