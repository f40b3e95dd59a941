//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinomercato/marketplace/internal/config"
	"github.com/vinomercato/marketplace/internal/delivery/events"
	httpDelivery "github.com/vinomercato/marketplace/internal/delivery/http"
	"github.com/vinomercato/marketplace/internal/delivery/http/handler"
	"github.com/vinomercato/marketplace/internal/delivery/http/request"
	"github.com/vinomercato/marketplace/internal/pkg/cache"
	"github.com/vinomercato/marketplace/internal/pkg/database"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	cacheRepo "github.com/vinomercato/marketplace/internal/repository/cache"
	"github.com/vinomercato/marketplace/internal/repository/postgres"
	"github.com/vinomercato/marketplace/internal/usecase/address"
	"github.com/vinomercato/marketplace/internal/usecase/cart"
	"github.com/vinomercato/marketplace/internal/usecase/category"
	"github.com/vinomercato/marketplace/internal/usecase/order"
	"github.com/vinomercato/marketplace/internal/usecase/product"
	"github.com/vinomercato/marketplace/internal/usecase/review"
	"github.com/vinomercato/marketplace/internal/usecase/seller"
)

func setupTestServer(t *testing.T) http.Handler {
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(cfg, 5, 2*time.Second)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	redisClient, err := cache.WaitForRedis(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	publisher, err := events.NewPublisher(cfg, log)
	require.NoError(t, err)

	productRepo := postgres.NewProductRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	sellerRepo := postgres.NewSellerRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	addressRepo := postgres.NewAddressRepository(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.SellerStatsTTL,
		cfg.Cache.SellerReviewsTTL,
	)

	productService := product.NewService(productRepo, log)
	categoryService := category.NewService(categoryRepo, log)
	orderService := order.NewService(orderRepo, productRepo, addressRepo, log)
	reviewService := review.NewService(reviewRepo, orderRepo, sellerRepo, redisCache, publisher, log)
	sellerService := seller.NewService(sellerRepo, redisCache, log)
	cartService := cart.NewService(cartRepo, productRepo, log)
	addressService := address.NewService(addressRepo, log)

	router := httpDelivery.NewRouter(
		handler.NewProductHandler(productService, log),
		handler.NewCategoryHandler(categoryService, log),
		handler.NewOrderHandler(orderService, log),
		handler.NewReviewHandler(reviewService, log),
		handler.NewCartHandler(cartService, log),
		handler.NewSellerHandler(sellerService, log),
		handler.NewAddressHandler(addressService, log),
		cfg,
		log,
	)
	return router.Setup()
}

func doJSON(t *testing.T, server http.Handler, method, path string, body string, userID uuid.UUID, role string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(request.HeaderUserID, userID.String())
	if role != "" {
		req.Header.Set(request.HeaderUserRole, role)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/health", "", uuid.New(), "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSellerAndProductLifecycle(t *testing.T) {
	server := setupTestServer(t)
	sellerUserID := uuid.New()

	sellerJSON := fmt.Sprintf(`{"user_id": %q, "display_name": "Chateau Test"}`, sellerUserID)
	w := doJSON(t, server, http.MethodPost, "/api/v1/sellers", sellerJSON, sellerUserID, "seller")
	require.Equal(t, http.StatusCreated, w.Code)
	sellerID := dataField(t, w)["id"].(string)

	productJSON := fmt.Sprintf(`{
		"seller_id": %q,
		"name": "Barolo Riserva 2018",
		"region": "Piedmont",
		"vintage": 2018,
		"price_cents": 4500
	}`, sellerID)
	w = doJSON(t, server, http.MethodPost, "/api/v1/products", productJSON, sellerUserID, "seller")
	require.Equal(t, http.StatusCreated, w.Code)
	productID := dataField(t, w)["id"].(string)

	w = doJSON(t, server, http.MethodGet, "/api/v1/products/"+productID, "", sellerUserID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Barolo Riserva 2018", dataField(t, w)["name"])

	inventoryJSON := `{"quantity": 24, "managed": true}`
	w = doJSON(t, server, http.MethodPut, "/api/v1/products/"+productID+"/inventory", inventoryJSON, sellerUserID, "seller")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestOrderFlow(t *testing.T) {
	server := setupTestServer(t)
	sellerUserID := uuid.New()
	buyerID := uuid.New()

	sellerJSON := fmt.Sprintf(`{"user_id": %q, "display_name": "Domaine Flow"}`, sellerUserID)
	w := doJSON(t, server, http.MethodPost, "/api/v1/sellers", sellerJSON, sellerUserID, "seller")
	require.Equal(t, http.StatusCreated, w.Code)
	sellerID := dataField(t, w)["id"].(string)

	productJSON := fmt.Sprintf(`{"seller_id": %q, "name": "Chianti Classico", "price_cents": 1800}`, sellerID)
	w = doJSON(t, server, http.MethodPost, "/api/v1/products", productJSON, sellerUserID, "seller")
	require.Equal(t, http.StatusCreated, w.Code)
	productID := dataField(t, w)["id"].(string)

	addressJSON := `{
		"name": "Home",
		"line1": "Via Roma 1",
		"city": "Florence",
		"postal_code": "50123",
		"country": "IT"
	}`
	w = doJSON(t, server, http.MethodPost, "/api/v1/addresses", addressJSON, buyerID, "buyer")
	require.Equal(t, http.StatusCreated, w.Code)
	addressID := dataField(t, w)["id"].(string)

	orderJSON := fmt.Sprintf(`{
		"shipping_address_id": %q,
		"items": [{"product_id": %q, "qty": 2}]
	}`, addressID, productID)
	w = doJSON(t, server, http.MethodPost, "/api/v1/orders", orderJSON, buyerID, "buyer")
	require.Equal(t, http.StatusCreated, w.Code)
	orderData := dataField(t, w)
	orderID := orderData["id"].(string)
	assert.Equal(t, "paid", orderData["status"])
	assert.Equal(t, float64(3600), orderData["subtotal_cents"])

	// Another buyer cannot read the order
	w = doJSON(t, server, http.MethodGet, "/api/v1/orders/"+orderID, "", uuid.New(), "buyer")
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, status := range []string{"label_generated", "shipped", "delivered"} {
		statusJSON := fmt.Sprintf(`{"status": %q}`, status)
		w = doJSON(t, server, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", statusJSON, sellerUserID, "seller")
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}

	// Terminal state rejects further transitions
	w = doJSON(t, server, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", `{"status": "cancelled"}`, sellerUserID, "seller")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// The delivered order can be reviewed exactly once
	reviewJSON := fmt.Sprintf(`{"order_id": %q, "rating": 5, "comment": "Superb"}`, orderID)
	w = doJSON(t, server, http.MethodPost, "/api/v1/reviews", reviewJSON, buyerID, "buyer")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, server, http.MethodPost, "/api/v1/reviews", reviewJSON, buyerID, "buyer")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCartQuote(t *testing.T) {
	server := setupTestServer(t)
	sellerUserID := uuid.New()
	buyerID := uuid.New()

	sellerJSON := fmt.Sprintf(`{"user_id": %q, "display_name": "Quote Cellars"}`, sellerUserID)
	w := doJSON(t, server, http.MethodPost, "/api/v1/sellers", sellerJSON, sellerUserID, "seller")
	require.Equal(t, http.StatusCreated, w.Code)
	sellerID := dataField(t, w)["id"].(string)

	productJSON := fmt.Sprintf(`{"seller_id": %q, "name": "Prosecco Brut", "price_cents": 1200}`, sellerID)
	w = doJSON(t, server, http.MethodPost, "/api/v1/products", productJSON, sellerUserID, "seller")
	require.Equal(t, http.StatusCreated, w.Code)
	productID := dataField(t, w)["id"].(string)

	itemJSON := fmt.Sprintf(`{"product_id": %q, "qty": 3}`, productID)
	w = doJSON(t, server, http.MethodPost, "/api/v1/cart/items", itemJSON, buyerID, "buyer")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/cart/quote", "", buyerID, "buyer")
	require.Equal(t, http.StatusOK, w.Code)
	quote := dataField(t, w)
	// 3 bottles of 1200 each, base shipping plus two extra bottles
	assert.Equal(t, float64(3600), quote["subtotal_cents"])
	assert.Equal(t, float64(900), quote["shipping_cents"])
}

func TestCategoryLifecycle(t *testing.T) {
	server := setupTestServer(t)
	adminID := uuid.New()
	sellerUserID := uuid.New()

	slug := "rosso-" + uuid.NewString()[:8]
	categoryJSON := fmt.Sprintf(`{"name": "Rosso", "slug": %q}`, slug)
	w := doJSON(t, server, http.MethodPost, "/api/v1/categories", categoryJSON, adminID, "admin")
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := dataField(t, w)["id"].(string)

	// Duplicate slug is rejected
	w = doJSON(t, server, http.MethodPost, "/api/v1/categories", categoryJSON, adminID, "admin")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/categories/"+categoryID, "", adminID, "admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rosso", dataField(t, w)["name"])

	// A product can be filed under the category
	sellerJSON := fmt.Sprintf(`{"user_id": %q, "display_name": "Category Cellars"}`, sellerUserID)
	w = doJSON(t, server, http.MethodPost, "/api/v1/sellers", sellerJSON, sellerUserID, "seller")
	require.Equal(t, http.StatusCreated, w.Code)
	sellerID := dataField(t, w)["id"].(string)

	productJSON := fmt.Sprintf(`{"seller_id": %q, "category_id": %q, "name": "Chianti Classico", "price_cents": 1500}`, sellerID, categoryID)
	w = doJSON(t, server, http.MethodPost, "/api/v1/products", productJSON, sellerUserID, "seller")
	require.Equal(t, http.StatusCreated, w.Code)
	productID := dataField(t, w)["id"].(string)
	assert.Equal(t, categoryID, dataField(t, w)["category_id"])

	// Deleting the category unlinks the product but keeps the listing
	w = doJSON(t, server, http.MethodDelete, "/api/v1/categories/"+categoryID, "", adminID, "admin")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/products/"+productID, "", sellerUserID, "seller")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, dataField(t, w)["category_id"])
}
