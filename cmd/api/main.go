package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vinomercato/marketplace/internal/config"
	"github.com/vinomercato/marketplace/internal/delivery/events"
	httpDelivery "github.com/vinomercato/marketplace/internal/delivery/http"
	"github.com/vinomercato/marketplace/internal/delivery/http/handler"
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

	_ "github.com/vinomercato/marketplace/docs"
)

// @title Vino Mercato Marketplace API
// @version 1.0
// @description Wine marketplace backend: listings, carts, checkout quotes, orders with stock control, and seller reviews with asynchronous rating aggregation.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/vinomercato/marketplace
// @contact.email support@vinomercato.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Products
// @tag.description Wine listing management

// @tag.name Inventory
// @tag.description Stock management for listings

// @tag.name Orders
// @tag.description Checkout and order lifecycle

// @tag.name Reviews
// @tag.description Seller reviews and responses

// @tag.name Sellers
// @tag.description Seller profiles and rating summaries

// @tag.name Cart
// @tag.description The caller's cart and checkout quotes

// @tag.name Addresses
// @tag.description The caller's shipping and billing addresses

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting marketplace API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	appLogger.Info("Running migrations...")
	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	streamConfig := events.NewStreamConfig(publisher.JetStream(), appLogger)
	if err := streamConfig.EnsureStream(); err != nil {
		appLogger.Fatal("Failed to ensure stream", err)
	}

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

	productService := product.NewService(productRepo, appLogger)
	categoryService := category.NewService(categoryRepo, appLogger)
	orderService := order.NewService(orderRepo, productRepo, addressRepo, appLogger)
	reviewService := review.NewService(reviewRepo, orderRepo, sellerRepo, redisCache, publisher, appLogger)
	sellerService := seller.NewService(sellerRepo, redisCache, appLogger)
	cartService := cart.NewService(cartRepo, productRepo, appLogger)
	addressService := address.NewService(addressRepo, appLogger)

	productHandler := handler.NewProductHandler(productService, appLogger)
	categoryHandler := handler.NewCategoryHandler(categoryService, appLogger)
	orderHandler := handler.NewOrderHandler(orderService, appLogger)
	reviewHandler := handler.NewReviewHandler(reviewService, appLogger)
	sellerHandler := handler.NewSellerHandler(sellerService, appLogger)
	cartHandler := handler.NewCartHandler(cartService, appLogger)
	addressHandler := handler.NewAddressHandler(addressService, appLogger)

	router := httpDelivery.NewRouter(
		productHandler,
		categoryHandler,
		orderHandler,
		reviewHandler,
		cartHandler,
		sellerHandler,
		addressHandler,
		cfg,
		appLogger,
	)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
