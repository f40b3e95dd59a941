package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the order lifecycle states
type OrderStatus string

const (
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusLabelGenerated OrderStatus = "label_generated"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// orderTransitions is the explicit transition table. The delivered and
// cancelled states are terminal; cancellation is allowed until delivery.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPaid:           {OrderStatusLabelGenerated, OrderStatusCancelled},
	OrderStatusLabelGenerated: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// Valid reports whether s is one of the five known status literals
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition from s to target is allowed
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Order is the purchase aggregate. It is created atomically with its items
// and is immutable afterwards except for status and delivery metadata.
// TotalCents is always SubtotalCents + ShippingCents + FeeCents.
type Order struct {
	ID                uuid.UUID    `json:"id" db:"id"`
	BuyerID           uuid.UUID    `json:"buyer_id" db:"buyer_id"`
	Status            OrderStatus  `json:"status" db:"status"`
	PaymentMethod     string       `json:"payment_method" db:"payment_method"`
	SubtotalCents     int64        `json:"subtotal_cents" db:"subtotal_cents"`
	ShippingCents     int64        `json:"shipping_cents" db:"shipping_cents"`
	FeeCents          int64        `json:"fee_cents" db:"fee_cents"`
	TotalCents        int64        `json:"total_cents" db:"total_cents"`
	Currency          string       `json:"currency" db:"currency"`
	ShippingAddressID uuid.UUID    `json:"shipping_address_id" db:"shipping_address_id"`
	BillingAddressID  uuid.UUID    `json:"billing_address_id" db:"billing_address_id"`
	DeliveredAt       *time.Time   `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at" db:"updated_at"`
	Items             []*OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is a line on an order. UnitPriceCents is a snapshot of the
// product price at order time and is never re-read from the product.
type OrderItem struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrderID        uuid.UUID `json:"order_id" db:"order_id"`
	ProductID      uuid.UUID `json:"product_id" db:"product_id"`
	SellerID       uuid.UUID `json:"seller_id" db:"seller_id"`
	Qty            int       `json:"qty" db:"qty" validate:"gte=1"`
	UnitPriceCents int64     `json:"unit_price_cents" db:"unit_price_cents"`
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// CreateWithItems persists the order, its items, and the stock
	// decrements for managed products in one transaction. Inventory rows
	// are locked for the duration so concurrent orders cannot jointly
	// over-sell. Returns ErrInsufficientStock when a managed product
	// cannot cover its requested quantity; on any error nothing persists.
	CreateWithItems(ctx context.Context, order *Order, items []*OrderItem) error

	// GetByID retrieves an order with its items
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListByBuyer retrieves a buyer's orders, most recent first
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*Order, error)

	// UpdateStatus sets the order status, and deliveredAt when provided
	UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus, deliveredAt *time.Time) error

	// FindReviewable retrieves delivered orders of the buyer that the
	// buyer has not reviewed yet, most recently delivered first
	FindReviewable(ctx context.Context, buyerID uuid.UUID, limit int) ([]*Order, error)
}
