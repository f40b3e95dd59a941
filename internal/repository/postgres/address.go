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

// AddressRepository implements domain.AddressRepository for PostgreSQL
type AddressRepository struct {
	db *sqlx.DB
}

// NewAddressRepository creates a new PostgreSQL address repository
func NewAddressRepository(db *sqlx.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// Create creates a new address
func (r *AddressRepository) Create(ctx context.Context, address *domain.Address) error {
	query := `
		INSERT INTO addresses (user_id, name, line1, line2, city, postal_code, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		address.UserID,
		address.Name,
		address.Line1,
		address.Line2,
		address.City,
		address.PostalCode,
		address.Country,
		time.Now(),
	).Scan(&address.ID, &address.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves an address by ID
func (r *AddressRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	query := `
		SELECT id, user_id, name, line1, line2, city, postal_code, country, created_at
		FROM addresses
		WHERE id = $1
	`

	var address domain.Address
	err := r.db.GetContext(ctx, &address, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &address, nil
}

// ListByUser retrieves a user's addresses, most recent first
func (r *AddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	query := `
		SELECT id, user_id, name, line1, line2, city, postal_code, country, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var addresses []*domain.Address
	err := r.db.SelectContext(ctx, &addresses, query, userID)
	if err != nil {
		return nil, err
	}

	return addresses, nil
}

// Delete removes an address
func (r *AddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM addresses WHERE id = $1`

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
