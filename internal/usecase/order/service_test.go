package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
)

// MockOrderRepository is a mock implementation of domain.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, deliveredAt *time.Time) error {
	args := m.Called(ctx, id, status, deliveredAt)
	return args.Error(0)
}

func (m *MockOrderRepository) FindReviewable(ctx context.Context, buyerID uuid.UUID, limit int) ([]*domain.Order, error) {
	args := m.Called(ctx, buyerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) GetInventory(ctx context.Context, productID uuid.UUID) (*domain.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockProductRepository) SetInventory(ctx context.Context, inv *domain.Inventory) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustInventory(ctx context.Context, productID uuid.UUID, delta int) (*domain.Inventory, error) {
	args := m.Called(ctx, productID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

// MockAddressRepository is a mock implementation of domain.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(ctx context.Context, address *domain.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockAddressRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Address), args.Error(1)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService() (*Service, *MockOrderRepository, *MockProductRepository, *MockAddressRepository) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockAddresses := new(MockAddressRepository)
	log := logger.New("test")
	service := NewService(mockOrders, mockProducts, mockAddresses, log)
	return service, mockOrders, mockProducts, mockAddresses
}

func activeProduct(sellerID uuid.UUID, priceCents int64, stock int) *domain.Product {
	return &domain.Product{
		ID:         uuid.New(),
		SellerID:   sellerID,
		Name:       "Barolo 2019",
		PriceCents: priceCents,
		Currency:   "EUR",
		IsActive:   true,
		Inventory: &domain.Inventory{
			Quantity: stock,
			Managed:  true,
		},
	}
}

func TestService_Create_Success(t *testing.T) {
	service, mockOrders, mockProducts, mockAddresses := newTestService()

	buyerID := uuid.New()
	addressID := uuid.New()
	sellerID := uuid.New()
	product := activeProduct(sellerID, 2500, 10)
	product.Inventory.ProductID = product.ID

	mockAddresses.On("GetByID", mock.Anything, addressID).
		Return(&domain.Address{ID: addressID, UserID: buyerID}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, []uuid.UUID{product.ID}).
		Return([]*domain.Product{product}, nil)
	mockOrders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	order, err := service.Create(context.Background(), CreateInput{
		BuyerID:           buyerID,
		ShippingAddressID: addressID,
		Items: []CreateItemInput{
			{ProductID: product.ID, Qty: 3},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Equal(t, int64(7500), order.SubtotalCents)
	assert.Equal(t, int64(7500), order.TotalCents)
	assert.Equal(t, "EUR", order.Currency)
	// Billing defaults to the shipping address when not provided
	assert.Equal(t, addressID, order.BillingAddressID)
	assert.Equal(t, "direct", order.PaymentMethod)
	mockOrders.AssertExpectations(t)
}

func TestService_Create_PriceComesFromServer(t *testing.T) {
	service, mockOrders, mockProducts, mockAddresses := newTestService()

	buyerID := uuid.New()
	addressID := uuid.New()
	product := activeProduct(uuid.New(), 1850, 5)

	mockAddresses.On("GetByID", mock.Anything, addressID).
		Return(&domain.Address{ID: addressID}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return([]*domain.Product{product}, nil)

	var capturedItems []*domain.OrderItem
	mockOrders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedItems = args.Get(2).([]*domain.OrderItem)
		}).
		Return(nil)

	_, err := service.Create(context.Background(), CreateInput{
		BuyerID:           buyerID,
		ShippingAddressID: addressID,
		Items: []CreateItemInput{
			{ProductID: product.ID, Qty: 2},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, capturedItems, 1)
	// The line snapshots the current server-side price
	assert.Equal(t, int64(1850), capturedItems[0].UnitPriceCents)
	assert.Equal(t, product.SellerID, capturedItems[0].SellerID)
}

func TestService_Create_DuplicateLinesMerge(t *testing.T) {
	service, mockOrders, mockProducts, mockAddresses := newTestService()

	addressID := uuid.New()
	product := activeProduct(uuid.New(), 1000, 10)

	mockAddresses.On("GetByID", mock.Anything, addressID).
		Return(&domain.Address{ID: addressID}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, []uuid.UUID{product.ID}).
		Return([]*domain.Product{product}, nil)

	var capturedItems []*domain.OrderItem
	mockOrders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedItems = args.Get(2).([]*domain.OrderItem)
		}).
		Return(nil)

	order, err := service.Create(context.Background(), CreateInput{
		BuyerID:           uuid.New(),
		ShippingAddressID: addressID,
		Items: []CreateItemInput{
			{ProductID: product.ID, Qty: 2},
			{ProductID: product.ID, Qty: 3},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, capturedItems, 1)
	assert.Equal(t, 5, capturedItems[0].Qty)
	assert.Equal(t, int64(5000), order.SubtotalCents)
}

func TestService_Create_UnknownProduct(t *testing.T) {
	service, _, mockProducts, mockAddresses := newTestService()

	addressID := uuid.New()

	mockAddresses.On("GetByID", mock.Anything, addressID).
		Return(&domain.Address{ID: addressID}, nil)
	// Requested product does not resolve to an active listing
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return([]*domain.Product{}, nil)

	_, err := service.Create(context.Background(), CreateInput{
		BuyerID:           uuid.New(),
		ShippingAddressID: addressID,
		Items: []CreateItemInput{
			{ProductID: uuid.New(), Qty: 1},
		},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_Create_InsufficientStock(t *testing.T) {
	service, mockOrders, mockProducts, mockAddresses := newTestService()

	addressID := uuid.New()
	product := activeProduct(uuid.New(), 1000, 2)

	mockAddresses.On("GetByID", mock.Anything, addressID).
		Return(&domain.Address{ID: addressID}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return([]*domain.Product{product}, nil)

	_, err := service.Create(context.Background(), CreateInput{
		BuyerID:           uuid.New(),
		ShippingAddressID: addressID,
		Items: []CreateItemInput{
			{ProductID: product.ID, Qty: 3},
		},
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	// Nothing was persisted
	mockOrders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_UnmanagedStockNeverBlocks(t *testing.T) {
	service, mockOrders, mockProducts, mockAddresses := newTestService()

	addressID := uuid.New()
	product := activeProduct(uuid.New(), 1000, 0)
	product.Inventory.Managed = false

	mockAddresses.On("GetByID", mock.Anything, addressID).
		Return(&domain.Address{ID: addressID}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return([]*domain.Product{product}, nil)
	mockOrders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := service.Create(context.Background(), CreateInput{
		BuyerID:           uuid.New(),
		ShippingAddressID: addressID,
		Items: []CreateItemInput{
			{ProductID: product.ID, Qty: 100},
		},
	})

	assert.NoError(t, err)
	mockOrders.AssertExpectations(t)
}

func TestService_Create_MissingShippingAddress(t *testing.T) {
	service, _, _, mockAddresses := newTestService()

	addressID := uuid.New()
	mockAddresses.On("GetByID", mock.Anything, addressID).
		Return(nil, domain.ErrNotFound)

	_, err := service.Create(context.Background(), CreateInput{
		BuyerID:           uuid.New(),
		ShippingAddressID: addressID,
		Items: []CreateItemInput{
			{ProductID: uuid.New(), Qty: 1},
		},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_Create_NoItems(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{
		BuyerID:           uuid.New(),
		ShippingAddressID: uuid.New(),
		Items:             nil,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_UpdateStatus_AllowedTransition(t *testing.T) {
	service, mockOrders, _, _ := newTestService()

	orderID := uuid.New()
	mockOrders.On("GetByID", mock.Anything, orderID).
		Return(&domain.Order{ID: orderID, Status: domain.OrderStatusPaid}, nil)
	mockOrders.On("UpdateStatus", mock.Anything, orderID, domain.OrderStatusLabelGenerated, (*time.Time)(nil)).
		Return(nil)

	order, err := service.UpdateStatus(context.Background(), orderID, domain.OrderStatusLabelGenerated)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusLabelGenerated, order.Status)
	assert.Nil(t, order.DeliveredAt)
	mockOrders.AssertExpectations(t)
}

func TestService_UpdateStatus_DeliveredStampsTimestamp(t *testing.T) {
	service, mockOrders, _, _ := newTestService()

	orderID := uuid.New()
	mockOrders.On("GetByID", mock.Anything, orderID).
		Return(&domain.Order{ID: orderID, Status: domain.OrderStatusShipped}, nil)
	mockOrders.On("UpdateStatus", mock.Anything, orderID, domain.OrderStatusDelivered, mock.AnythingOfType("*time.Time")).
		Return(nil)

	order, err := service.UpdateStatus(context.Background(), orderID, domain.OrderStatusDelivered)

	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)
	assert.NotNil(t, order.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *order.DeliveredAt, time.Second)
}

func TestService_UpdateStatus_SkippingStatesRejected(t *testing.T) {
	service, mockOrders, _, _ := newTestService()

	orderID := uuid.New()
	mockOrders.On("GetByID", mock.Anything, orderID).
		Return(&domain.Order{ID: orderID, Status: domain.OrderStatusPaid}, nil)

	_, err := service.UpdateStatus(context.Background(), orderID, domain.OrderStatusDelivered)

	assert.ErrorIs(t, err, domain.ErrInvalidState)
	mockOrders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_TerminalStateRejected(t *testing.T) {
	service, mockOrders, _, _ := newTestService()

	orderID := uuid.New()
	mockOrders.On("GetByID", mock.Anything, orderID).
		Return(&domain.Order{ID: orderID, Status: domain.OrderStatusDelivered}, nil)

	_, err := service.UpdateStatus(context.Background(), orderID, domain.OrderStatusCancelled)

	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestService_UpdateStatus_UnknownStatus(t *testing.T) {
	service, mockOrders, _, _ := newTestService()

	_, err := service.UpdateStatus(context.Background(), uuid.New(), domain.OrderStatus("refunded"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockOrders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_ListByBuyer_ClampsPagination(t *testing.T) {
	service, mockOrders, _, _ := newTestService()

	buyerID := uuid.New()
	mockOrders.On("ListByBuyer", mock.Anything, buyerID, 20, 0).
		Return([]*domain.Order{}, nil)

	_, err := service.ListByBuyer(context.Background(), buyerID, 500, -3)

	assert.NoError(t, err)
	mockOrders.AssertExpectations(t)
}
