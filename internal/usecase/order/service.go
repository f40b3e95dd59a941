package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	validation "github.com/vinomercato/marketplace/internal/pkg/validator"
)

// CreateItemInput is one requested line of a new order
type CreateItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,gte=1"`
}

// CreateInput carries everything needed to assemble an order
type CreateInput struct {
	BuyerID           uuid.UUID         `validate:"required"`
	ShippingAddressID uuid.UUID         `validate:"required"`
	BillingAddressID  *uuid.UUID
	PaymentMethod     string
	Items             []CreateItemInput `validate:"required,min=1,dive"`
}

// Service assembles orders and drives order status transitions
type Service struct {
	orders    domain.OrderRepository
	products  domain.ProductRepository
	addresses domain.AddressRepository
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewService creates a new order service
func NewService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	addresses domain.AddressRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		addresses: addresses,
		validate:  validation.Get(),
		logger:    log,
	}
}

// Create assembles and persists an order. Line prices come from the current
// server-side product price, never from the client. The order, its items,
// and the stock decrements commit in one transaction; the new order starts
// in the paid state. Shipping and fee amounts are kept at zero on the order
// itself; the checkout quote surface owns the fee breakdown.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Order, error) {
	if err := s.validate.Struct(input); err != nil {
		s.logger.Error("Order validation failed", err)
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.addresses.GetByID(ctx, input.ShippingAddressID); err != nil {
		s.logger.Error("Shipping address lookup failed", err)
		return nil, fmt.Errorf("shipping address: %w", domain.ErrInvalidInput)
	}

	productIDs := make([]uuid.UUID, 0, len(input.Items))
	qtyByProduct := make(map[uuid.UUID]int, len(input.Items))
	for _, item := range input.Items {
		if _, seen := qtyByProduct[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		qtyByProduct[item.ProductID] += item.Qty
	}

	products, err := s.products.FindActiveByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error("Failed to resolve order products", err)
		return nil, err
	}
	if len(products) != len(productIDs) {
		return nil, fmt.Errorf("some products are invalid or inactive: %w", domain.ErrInvalidInput)
	}

	// Early stock check for a fast failure. The authoritative check runs
	// again inside the order transaction with the inventory rows locked.
	for _, p := range products {
		if p.Inventory == nil || !p.Inventory.Managed {
			continue
		}
		if p.Inventory.Quantity < qtyByProduct[p.ID] {
			return nil, fmt.Errorf("product %s: %w", p.ID, domain.ErrInsufficientStock)
		}
	}

	var subtotal int64
	items := make([]*domain.OrderItem, 0, len(products))
	for _, p := range products {
		qty := qtyByProduct[p.ID]
		subtotal += int64(qty) * p.PriceCents
		items = append(items, &domain.OrderItem{
			ProductID:      p.ID,
			SellerID:       p.SellerID,
			Qty:            qty,
			UnitPriceCents: p.PriceCents,
		})
	}

	billingAddressID := input.ShippingAddressID
	if input.BillingAddressID != nil {
		billingAddressID = *input.BillingAddressID
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "direct"
	}

	order := &domain.Order{
		BuyerID:           input.BuyerID,
		Status:            domain.OrderStatusPaid,
		PaymentMethod:     paymentMethod,
		SubtotalCents:     subtotal,
		ShippingCents:     0,
		FeeCents:          0,
		TotalCents:        subtotal,
		Currency:          "EUR",
		ShippingAddressID: input.ShippingAddressID,
		BillingAddressID:  billingAddressID,
	}

	if err := s.orders.CreateWithItems(ctx, order, items); err != nil {
		s.logger.Error("Failed to create order", err)
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"order_id":       order.ID,
		"buyer_id":       order.BuyerID,
		"subtotal_cents": order.SubtotalCents,
		"items":          len(items),
	}).Info("Order created successfully")

	return order, nil
}

// GetByID retrieves an order with its items
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Order not found: %s", id)
		} else {
			s.logger.Error("Failed to get order", err)
		}
		return nil, err
	}

	return order, nil
}

// ListByBuyer retrieves a buyer's orders, most recent first
func (s *Service) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orders.ListByBuyer(ctx, buyerID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list orders", err)
		return nil, err
	}

	return orders, nil
}

// UpdateStatus applies a status transition. Unknown literals are rejected as
// invalid input; known literals that the transition table does not allow
// from the current state are rejected as an invalid state. Reaching the
// delivered state stamps deliveredAt, which the reviewable-orders query
// depends on.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, target domain.OrderStatus) (*domain.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("unknown order status %q: %w", target, domain.ErrInvalidInput)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("cannot move order from %s to %s: %w",
			order.Status, target, domain.ErrInvalidState)
	}

	var deliveredAt *time.Time
	if target == domain.OrderStatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	if err := s.orders.UpdateStatus(ctx, id, target, deliveredAt); err != nil {
		s.logger.Error("Failed to update order status", err)
		return nil, err
	}

	order.Status = target
	if deliveredAt != nil {
		order.DeliveredAt = deliveredAt
	}

	s.logger.WithFields(map[string]interface{}{
		"order_id": id,
		"status":   target,
	}).Info("Order status updated")

	return order, nil
}
