package seller

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
)

// MockSellerRepository is a mock implementation of domain.SellerRepository
type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) Create(ctx context.Context, seller *domain.Seller) error {
	args := m.Called(ctx, seller)
	return args.Error(0)
}

func (m *MockSellerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seller), args.Error(1)
}

func (m *MockSellerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Seller, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seller), args.Error(1)
}

func (m *MockSellerRepository) UpsertStats(ctx context.Context, stats *domain.SellerStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

// MockStatsCache is a mock implementation of StatsCache
type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) GetSellerStats(ctx context.Context, sellerID uuid.UUID) (*domain.SellerStats, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerStats), args.Error(1)
}

func (m *MockStatsCache) SetSellerStats(ctx context.Context, stats *domain.SellerStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func newTestService() (*Service, *MockSellerRepository, *MockStatsCache) {
	mockRepo := new(MockSellerRepository)
	mockCache := new(MockStatsCache)
	service := NewService(mockRepo, mockCache, logger.New("test"))
	return service, mockRepo, mockCache
}

func TestService_Create_Success(t *testing.T) {
	service, mockRepo, _ := newTestService()

	seller := &domain.Seller{UserID: uuid.New(), DisplayName: "Cantina Rossi"}
	mockRepo.On("Create", mock.Anything, seller).Return(nil)

	err := service.Create(context.Background(), seller)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_MissingDisplayName(t *testing.T) {
	service, mockRepo, _ := newTestService()

	err := service.Create(context.Background(), &domain.Seller{UserID: uuid.New()})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_GetStats_CacheHit(t *testing.T) {
	service, mockRepo, mockCache := newTestService()

	sellerID := uuid.New()
	cached := &domain.SellerStats{SellerID: sellerID, SellerRating: 4.7, SellerReviewCount: 12}
	mockCache.On("GetSellerStats", mock.Anything, sellerID).Return(cached, nil)

	stats, err := service.GetStats(context.Background(), sellerID)

	assert.NoError(t, err)
	assert.Equal(t, cached, stats)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_GetStats_CacheMissReadsThrough(t *testing.T) {
	service, mockRepo, mockCache := newTestService()

	sellerID := uuid.New()
	seller := &domain.Seller{
		ID:                 sellerID,
		SellerRating:       4.2,
		SellerReviewCount:  8,
		SellerResponseRate: 75.0,
	}

	mockCache.On("GetSellerStats", mock.Anything, sellerID).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByID", mock.Anything, sellerID).Return(seller, nil)
	mockCache.On("SetSellerStats", mock.Anything, mock.Anything).Return(nil)

	stats, err := service.GetStats(context.Background(), sellerID)

	assert.NoError(t, err)
	assert.Equal(t, 4.2, stats.SellerRating)
	assert.Equal(t, 8, stats.SellerReviewCount)
	assert.Equal(t, 75.0, stats.SellerResponseRate)
	mockCache.AssertExpectations(t)
}

func TestService_GetStats_UnknownSeller(t *testing.T) {
	service, mockRepo, mockCache := newTestService()

	sellerID := uuid.New()
	mockCache.On("GetSellerStats", mock.Anything, sellerID).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByID", mock.Anything, sellerID).Return(nil, domain.ErrNotFound)

	_, err := service.GetStats(context.Background(), sellerID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetByUserID_NotFound(t *testing.T) {
	service, mockRepo, _ := newTestService()

	userID := uuid.New()
	mockRepo.On("GetByUserID", mock.Anything, userID).Return(nil, domain.ErrNotFound)

	_, err := service.GetByUserID(context.Background(), userID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
