package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/usecase/review"
)

// MockReviewRepository is a mock implementation of domain.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByOrderAndReviewer(ctx context.Context, orderID, reviewerID uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, orderID, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByTarget(ctx context.Context, targetID uuid.UUID, filters domain.ReviewFilters) ([]*domain.Review, error) {
	args := m.Called(ctx, targetID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) CountByTarget(ctx context.Context, targetID uuid.UUID, filters domain.ReviewFilters) (int, error) {
	args := m.Called(ctx, targetID, filters)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewRepository) RatingDistribution(ctx context.Context, targetID uuid.UUID) (map[int]int, error) {
	args := m.Called(ctx, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, rev *domain.Review) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}

func (m *MockReviewRepository) SetResponse(ctx context.Context, id uuid.UUID, resp string, respondedAt time.Time) error {
	args := m.Called(ctx, id, resp, respondedAt)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

// MockSellerCache is a mock implementation of review.SellerCache
type MockSellerCache struct {
	mock.Mock
}

func (m *MockSellerCache) GetSellerReviews(ctx context.Context, sellerID uuid.UUID, filters domain.ReviewFilters) ([]*domain.Review, error) {
	args := m.Called(ctx, sellerID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

func (m *MockSellerCache) SetSellerReviews(ctx context.Context, sellerID uuid.UUID, filters domain.ReviewFilters, reviews []*domain.Review) error {
	args := m.Called(ctx, sellerID, filters, reviews)
	return args.Error(0)
}

func (m *MockSellerCache) InvalidateAllSellerCache(ctx context.Context, sellerID uuid.UUID) error {
	args := m.Called(ctx, sellerID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of review.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func setupReviewHandler() (*MockReviewRepository, *chi.Mux) {
	mockReviews := new(MockReviewRepository)
	mockOrders := new(MockOrderRepository)
	mockSellers := new(MockSellerRepository)
	mockCache := new(MockSellerCache)
	mockPublisher := new(MockEventPublisher)
	log := logger.New("test")
	service := review.NewService(mockReviews, mockOrders, mockSellers, mockCache, mockPublisher, log)
	h := NewReviewHandler(service, log)

	r := chi.NewRouter()
	r.Get("/reviews/{id}", h.GetByID)

	return mockReviews, r
}

func TestReviewHandler_GetByID_Success(t *testing.T) {
	mockReviews, r := setupReviewHandler()

	reviewID := uuid.New()
	comment := "Wonderful Nebbiolo"
	mockReviews.On("GetByID", mock.Anything, reviewID).
		Return(&domain.Review{
			ID:         reviewID,
			ReviewerID: uuid.New(),
			TargetID:   uuid.New(),
			Rating:     5,
			Comment:    &comment,
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/reviews/"+reviewID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Success bool          `json:"success"`
		Data    domain.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, reviewID, envelope.Data.ID)
	assert.Equal(t, 5, envelope.Data.Rating)
	mockReviews.AssertExpectations(t)
}

func TestReviewHandler_GetByID_NotFound(t *testing.T) {
	mockReviews, r := setupReviewHandler()

	reviewID := uuid.New()
	mockReviews.On("GetByID", mock.Anything, reviewID).Return(nil, domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/reviews/"+reviewID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewHandler_GetByID_InvalidID(t *testing.T) {
	mockReviews, r := setupReviewHandler()

	req := httptest.NewRequest(http.MethodGet, "/reviews/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockReviews.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
