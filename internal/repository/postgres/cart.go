package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vinomercato/marketplace/internal/domain"
)

// CartRepository implements domain.CartRepository for PostgreSQL
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new PostgreSQL cart repository
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreateByUser returns the user's cart with items, creating it lazily
func (r *CartRepository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	query := `
		INSERT INTO carts (user_id, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
		RETURNING id, user_id, created_at, updated_at
	`

	var cart domain.Cart
	err := r.db.QueryRowxContext(ctx, query, userID, time.Now()).StructScan(&cart)
	if err != nil {
		return nil, err
	}

	itemsQuery := `
		SELECT id, cart_id, product_id, qty, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &cart.Items, itemsQuery, cart.ID); err != nil {
		return nil, err
	}

	return &cart, nil
}

// AddItem inserts a cart item, merging quantity when the product is already present
func (r *CartRepository) AddItem(ctx context.Context, cartID uuid.UUID, productID uuid.UUID, qty int) (*domain.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, product_id, qty, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty
		RETURNING id, cart_id, product_id, qty, created_at
	`

	var item domain.CartItem
	err := r.db.QueryRowxContext(ctx, query, cartID, productID, qty, time.Now()).StructScan(&item)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// UpdateItemQty sets the quantity of a cart item
func (r *CartRepository) UpdateItemQty(ctx context.Context, itemID uuid.UUID, qty int) error {
	query := `UPDATE cart_items SET qty = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, qty, itemID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// GetItem retrieves a cart item by ID
func (r *CartRepository) GetItem(ctx context.Context, itemID uuid.UUID) (*domain.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, qty, created_at
		FROM cart_items
		WHERE id = $1
	`

	var item domain.CartItem
	err := r.db.GetContext(ctx, &item, query, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &item, nil
}

// RemoveItem deletes a cart item
func (r *CartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, itemID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Clear removes all items from a cart
func (r *CartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1`

	_, err := r.db.ExecContext(ctx, query, cartID)
	return err
}
