package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinomercato/marketplace/internal/domain"
)

func newTestOrderRepository(t *testing.T) (*OrderRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewOrderRepository(sqlxDB), mock
}

func inventoryRows(productID uuid.UUID, quantity int, managed bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"product_id", "quantity", "managed", "sku", "updated_at"}).
		AddRow(productID, quantity, managed, nil, time.Now())
}

func TestOrderRepository_CreateWithItems_Success(t *testing.T) {
	repo, mock := newTestOrderRepository(t)

	buyerID := uuid.New()
	sellerID := uuid.New()
	productID := uuid.New()
	addressID := uuid.New()
	orderID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	order := &domain.Order{
		BuyerID:           buyerID,
		Status:            domain.OrderStatusPaid,
		PaymentMethod:     "direct",
		SubtotalCents:     5000,
		ShippingCents:     700,
		FeeCents:          600,
		TotalCents:        6300,
		Currency:          "EUR",
		ShippingAddressID: addressID,
		BillingAddressID:  addressID,
	}
	items := []*domain.OrderItem{
		{ProductID: productID, SellerID: sellerID, Qty: 2, UnitPriceCents: 2500},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT product_id, quantity, managed, sku, updated_at").
		WithArgs(productID).
		WillReturnRows(inventoryRows(productID, 10, true))
	mock.ExpectExec("UPDATE inventories").
		WithArgs(2, sqlmock.AnyArg(), productID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(buyerID, domain.OrderStatusPaid, "direct", int64(5000), int64(700), int64(600), int64(6300), "EUR", addressID, addressID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(orderID, now, now))
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(orderID, productID, sellerID, 2, int64(2500)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(itemID))
	mock.ExpectCommit()

	err := repo.CreateWithItems(context.Background(), order, items)

	assert.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, orderID, items[0].OrderID)
	assert.Equal(t, itemID, items[0].ID)
	assert.Len(t, order.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithItems_InsufficientStockRollsBack(t *testing.T) {
	repo, mock := newTestOrderRepository(t)

	productID := uuid.New()
	order := &domain.Order{BuyerID: uuid.New(), Status: domain.OrderStatusPaid}
	items := []*domain.OrderItem{
		{ProductID: productID, SellerID: uuid.New(), Qty: 5, UnitPriceCents: 1000},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT product_id, quantity, managed, sku, updated_at").
		WithArgs(productID).
		WillReturnRows(inventoryRows(productID, 3, true))
	mock.ExpectRollback()

	err := repo.CreateWithItems(context.Background(), order, items)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithItems_UnmanagedInventorySkipsDecrement(t *testing.T) {
	repo, mock := newTestOrderRepository(t)

	productID := uuid.New()
	orderID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	order := &domain.Order{
		BuyerID:           uuid.New(),
		Status:            domain.OrderStatusPaid,
		PaymentMethod:     "direct",
		Currency:          "EUR",
		ShippingAddressID: uuid.New(),
		BillingAddressID:  uuid.New(),
	}
	items := []*domain.OrderItem{
		{ProductID: productID, SellerID: uuid.New(), Qty: 50, UnitPriceCents: 900},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT product_id, quantity, managed, sku, updated_at").
		WithArgs(productID).
		WillReturnRows(inventoryRows(productID, 1, false))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(orderID, now, now))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(itemID))
	mock.ExpectCommit()

	err := repo.CreateWithItems(context.Background(), order, items)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CreateWithItems_MergesQuantitiesPerProduct(t *testing.T) {
	repo, mock := newTestOrderRepository(t)

	productID := uuid.New()
	sellerID := uuid.New()
	orderID := uuid.New()
	now := time.Now()

	order := &domain.Order{
		BuyerID:           uuid.New(),
		Status:            domain.OrderStatusPaid,
		PaymentMethod:     "direct",
		Currency:          "EUR",
		ShippingAddressID: uuid.New(),
		BillingAddressID:  uuid.New(),
	}
	items := []*domain.OrderItem{
		{ProductID: productID, SellerID: sellerID, Qty: 2, UnitPriceCents: 1500},
		{ProductID: productID, SellerID: sellerID, Qty: 3, UnitPriceCents: 1500},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT product_id, quantity, managed, sku, updated_at").
		WithArgs(productID).
		WillReturnRows(inventoryRows(productID, 5, true))
	// Single decrement for the combined quantity across both lines
	mock.ExpectExec("UPDATE inventories").
		WithArgs(5, sqlmock.AnyArg(), productID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(orderID, now, now))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.CreateWithItems(context.Background(), order, items)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestOrderRepository(t)

	id := uuid.New()
	mock.ExpectQuery("SELECT id, buyer_id, status").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, err := repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, order)
}

func TestOrderRepository_GetByID_LoadsItems(t *testing.T) {
	repo, mock := newTestOrderRepository(t)

	orderID := uuid.New()
	buyerID := uuid.New()
	addressID := uuid.New()
	now := time.Now()

	orderColumns := []string{
		"id", "buyer_id", "status", "payment_method",
		"subtotal_cents", "shipping_cents", "fee_cents", "total_cents",
		"currency", "shipping_address_id", "billing_address_id",
		"delivered_at", "created_at", "updated_at",
	}
	mock.ExpectQuery("SELECT id, buyer_id, status").
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(orderID, buyerID, "paid", "direct", int64(5000), int64(700), int64(600), int64(6300), "EUR", addressID, addressID, nil, now, now))
	mock.ExpectQuery("SELECT id, order_id, product_id").
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "seller_id", "qty", "unit_price_cents"}).
			AddRow(uuid.New(), orderID, uuid.New(), uuid.New(), 2, int64(2500)))

	order, err := repo.GetByID(context.Background(), orderID)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Qty)
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newTestOrderRepository(t)

	id := uuid.New()
	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.OrderStatusShipped, nil, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), id, domain.OrderStatusShipped, nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderRepository_FindReviewable(t *testing.T) {
	repo, mock := newTestOrderRepository(t)

	buyerID := uuid.New()
	deliveredAt := time.Now().Add(-48 * time.Hour)
	now := time.Now()

	columns := []string{
		"id", "buyer_id", "status", "payment_method",
		"subtotal_cents", "shipping_cents", "fee_cents", "total_cents",
		"currency", "shipping_address_id", "billing_address_id",
		"delivered_at", "created_at", "updated_at",
	}
	mock.ExpectQuery("SELECT o.id, o.buyer_id").
		WithArgs(buyerID, domain.OrderStatusDelivered, 50).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.New(), buyerID, "delivered", "direct", int64(3000), int64(0), int64(440), int64(3440), "EUR", uuid.New(), uuid.New(), deliveredAt, now, now))

	orders, err := repo.FindReviewable(context.Background(), buyerID, 50)

	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, domain.OrderStatusDelivered, orders[0].Status)
}
