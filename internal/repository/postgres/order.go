package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vinomercato/marketplace/internal/domain"
)

// OrderRepository implements domain.OrderRepository for PostgreSQL
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new PostgreSQL order repository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems persists the order, its items, and the stock decrements in
// one transaction. Managed inventory rows are locked with SELECT FOR UPDATE
// in a fixed order so two concurrent orders cannot both pass the stock check.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock in ascending product id order to avoid deadlocks between
	// concurrent orders touching the same products
	qtyByProduct := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		qtyByProduct[item.ProductID] += item.Qty
	}
	productIDs := make([]uuid.UUID, 0, len(qtyByProduct))
	for id := range qtyByProduct {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool {
		return productIDs[i].String() < productIDs[j].String()
	})

	lockQuery := `
		SELECT product_id, quantity, managed, sku, updated_at
		FROM inventories
		WHERE product_id = $1
		FOR UPDATE
	`

	for _, productID := range productIDs {
		var inv domain.Inventory
		err := tx.GetContext(ctx, &inv, lockQuery, productID)
		if errors.Is(err, sql.ErrNoRows) {
			// No inventory row means unmanaged stock
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to lock inventory for %s: %w", productID, err)
		}

		if !inv.Managed {
			continue
		}

		need := qtyByProduct[productID]
		if inv.Quantity < need {
			return fmt.Errorf("product %s has %d units, %d requested: %w",
				productID, inv.Quantity, need, domain.ErrInsufficientStock)
		}

		decrementQuery := `
			UPDATE inventories
			SET quantity = quantity - $1, updated_at = $2
			WHERE product_id = $3
		`
		if _, err := tx.ExecContext(ctx, decrementQuery, need, time.Now(), productID); err != nil {
			return fmt.Errorf("failed to decrement inventory for %s: %w", productID, err)
		}
	}

	orderQuery := `
		INSERT INTO orders (buyer_id, status, payment_method, subtotal_cents, shipping_cents, fee_cents, total_cents, currency, shipping_address_id, billing_address_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	err = tx.QueryRowxContext(
		ctx,
		orderQuery,
		order.BuyerID,
		order.Status,
		order.PaymentMethod,
		order.SubtotalCents,
		order.ShippingCents,
		order.FeeCents,
		order.TotalCents,
		order.Currency,
		order.ShippingAddressID,
		order.BillingAddressID,
		now,
		now,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, seller_id, qty, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for _, item := range items {
		item.OrderID = order.ID
		err := tx.QueryRowxContext(
			ctx,
			itemQuery,
			item.OrderID,
			item.ProductID,
			item.SellerID,
			item.Qty,
			item.UnitPriceCents,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}

	order.Items = items
	return nil
}

// GetByID retrieves an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, buyer_id, status, payment_method, subtotal_cents, shipping_cents, fee_cents, total_cents, currency, shipping_address_id, billing_address_id, delivered_at, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.db.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	itemsQuery := `
		SELECT id, order_id, product_id, seller_id, qty, unit_price_cents
		FROM order_items
		WHERE order_id = $1
	`
	if err := r.db.SelectContext(ctx, &order.Items, itemsQuery, id); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListByBuyer retrieves a buyer's orders, most recent first
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT id, buyer_id, status, payment_method, subtotal_cents, shipping_cents, fee_cents, total_cents, currency, shipping_address_id, billing_address_id, delivered_at, created_at, updated_at
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var orders []*domain.Order
	err := r.db.SelectContext(ctx, &orders, query, buyerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus sets the order status, and deliveredAt when provided
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, deliveredAt *time.Time) error {
	query := `
		UPDATE orders
		SET status = $1, delivered_at = COALESCE($2, delivered_at), updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, status, deliveredAt, time.Now(), id)
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

// FindReviewable retrieves delivered orders the buyer has not reviewed yet
func (r *OrderRepository) FindReviewable(ctx context.Context, buyerID uuid.UUID, limit int) ([]*domain.Order, error) {
	query := `
		SELECT o.id, o.buyer_id, o.status, o.payment_method, o.subtotal_cents, o.shipping_cents, o.fee_cents, o.total_cents, o.currency, o.shipping_address_id, o.billing_address_id, o.delivered_at, o.created_at, o.updated_at
		FROM orders o
		WHERE o.buyer_id = $1
		  AND o.status = $2
		  AND NOT EXISTS (
			SELECT 1 FROM reviews rv
			WHERE rv.order_id = o.id AND rv.reviewer_id = o.buyer_id
		  )
		ORDER BY o.delivered_at DESC NULLS LAST
		LIMIT $3
	`

	var orders []*domain.Order
	err := r.db.SelectContext(ctx, &orders, query, buyerID, domain.OrderStatusDelivered, limit)
	if err != nil {
		return nil, err
	}

	return orders, nil
}
