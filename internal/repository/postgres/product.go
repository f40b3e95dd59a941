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

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (seller_id, category_id, name, description, region, vintage, price_cents, currency, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	if product.Currency == "" {
		product.Currency = "EUR"
	}
	product.IsActive = true

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.SellerID,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Region,
		product.Vintage,
		product.PriceCents,
		product.Currency,
		product.IsActive,
		now,
		now,
	).Scan(
		&product.ID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a product by ID, attaching its inventory row when present
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, seller_id, category_id, name, description, region, vintage, price_cents, currency, is_active, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	inv, err := r.GetInventory(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	product.Inventory = inv

	return &product, nil
}

// FindActiveByIDs resolves ids to active products with their inventory rows
func (r *ProductRepository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, seller_id, category_id, name, description, region, vintage, price_cents, currency, is_active, created_at, updated_at
		FROM products
		WHERE id IN (?) AND is_active = TRUE
	`, ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	for _, p := range products {
		inv, err := r.GetInventory(ctx, p.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		p.Inventory = inv
	}

	return products, nil
}

// List retrieves a paginated list of active products
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	query := `
		SELECT id, seller_id, category_id, name, description, region, vintage, price_cents, currency, is_active, created_at, updated_at
		FROM products
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var products []*domain.Product
	err := r.db.SelectContext(ctx, &products, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// Update updates an existing product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, region = $4, vintage = $5, price_cents = $6, updated_at = $7
		WHERE id = $8 AND is_active = TRUE
		RETURNING updated_at
	`

	product.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Region,
		product.Vintage,
		product.PriceCents,
		product.UpdatedAt,
		product.ID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// Deactivate marks a product inactive
func (r *ProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE products
		SET is_active = FALSE, updated_at = $1
		WHERE id = $2 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
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

// Count returns the total number of active products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE is_active = TRUE`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetInventory retrieves the inventory row for a product
func (r *ProductRepository) GetInventory(ctx context.Context, productID uuid.UUID) (*domain.Inventory, error) {
	query := `
		SELECT product_id, quantity, managed, sku, updated_at
		FROM inventories
		WHERE product_id = $1
	`

	var inv domain.Inventory
	err := r.db.GetContext(ctx, &inv, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &inv, nil
}

// SetInventory creates or replaces the inventory row for a product
func (r *ProductRepository) SetInventory(ctx context.Context, inv *domain.Inventory) error {
	query := `
		INSERT INTO inventories (product_id, quantity, managed, sku, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, managed = EXCLUDED.managed, sku = EXCLUDED.sku, updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	inv.UpdatedAt = time.Now()

	return r.db.QueryRowxContext(
		ctx,
		query,
		inv.ProductID,
		inv.Quantity,
		inv.Managed,
		inv.SKU,
		inv.UpdatedAt,
	).Scan(&inv.UpdatedAt)
}

// AdjustInventory adds delta to the quantity, clamping at zero
func (r *ProductRepository) AdjustInventory(ctx context.Context, productID uuid.UUID, delta int) (*domain.Inventory, error) {
	query := `
		UPDATE inventories
		SET quantity = GREATEST(quantity + $1, 0), updated_at = $2
		WHERE product_id = $3
		RETURNING product_id, quantity, managed, sku, updated_at
	`

	var inv domain.Inventory
	err := r.db.QueryRowxContext(ctx, query, delta, time.Now(), productID).StructScan(&inv)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &inv, nil
}
