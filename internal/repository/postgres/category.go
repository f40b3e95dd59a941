package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vinomercato/marketplace/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository for PostgreSQL
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (parent_id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		category.ParentID,
		category.Name,
		category.Slug,
		now,
		now,
	).Scan(
		&category.ID,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrConflict
		}
		return err
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, parent_id, name, slug, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	var category domain.Category
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &category, nil
}

// List retrieves all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, parent_id, name, slug, created_at, updated_at
		FROM categories
		ORDER BY name ASC
	`

	var categories []*domain.Category
	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// Update updates an existing category
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET parent_id = $1, name = $2, slug = $3, updated_at = $4
		WHERE id = $5
		RETURNING updated_at
	`

	category.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		category.ParentID,
		category.Name,
		category.Slug,
		category.UpdatedAt,
		category.ID,
	).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrConflict
		}
		return err
	}

	return nil
}

// Delete removes a category. The products.category_id foreign key is
// ON DELETE SET NULL, so listings survive their category.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
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
