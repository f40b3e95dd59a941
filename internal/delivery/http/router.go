package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vinomercato/marketplace/internal/config"
	"github.com/vinomercato/marketplace/internal/delivery/http/handler"
	"github.com/vinomercato/marketplace/internal/delivery/http/middleware"
	"github.com/vinomercato/marketplace/internal/delivery/http/response"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	productHandler  *handler.ProductHandler
	categoryHandler *handler.CategoryHandler
	orderHandler    *handler.OrderHandler
	reviewHandler   *handler.ReviewHandler
	cartHandler     *handler.CartHandler
	sellerHandler   *handler.SellerHandler
	addressHandler  *handler.AddressHandler
	logger          *logger.Logger
	cfg             *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	orderHandler *handler.OrderHandler,
	reviewHandler *handler.ReviewHandler,
	cartHandler *handler.CartHandler,
	sellerHandler *handler.SellerHandler,
	addressHandler *handler.AddressHandler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		productHandler:  productHandler,
		categoryHandler: categoryHandler,
		orderHandler:    orderHandler,
		reviewHandler:   reviewHandler,
		cartHandler:     cartHandler,
		sellerHandler:   sellerHandler,
		addressHandler:  addressHandler,
		logger:          log,
		cfg:             cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-User-Role"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", rt.productHandler.Create)
			r.Get("/", rt.productHandler.List)
			r.Get("/{id}", rt.productHandler.GetByID)
			r.Put("/{id}", rt.productHandler.Update)
			r.Delete("/{id}", rt.productHandler.Delete)
			r.Get("/{id}/inventory", rt.productHandler.GetInventory)
			r.Put("/{id}/inventory", rt.productHandler.SetInventory)
			r.Post("/{id}/inventory/adjust", rt.productHandler.AdjustInventory)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", rt.categoryHandler.Create)
			r.Get("/", rt.categoryHandler.List)
			r.Get("/{id}", rt.categoryHandler.GetByID)
			r.Put("/{id}", rt.categoryHandler.Update)
			r.Delete("/{id}", rt.categoryHandler.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", rt.orderHandler.Create)
			r.Get("/", rt.orderHandler.List)
			r.Get("/{id}", rt.orderHandler.GetByID)
			r.Patch("/{id}/status", rt.orderHandler.UpdateStatus)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", rt.reviewHandler.Create)
			r.Get("/reviewable", rt.reviewHandler.ReviewableOrders)
			r.Get("/{id}", rt.reviewHandler.GetByID)
			r.Put("/{id}", rt.reviewHandler.Update)
			r.Post("/{id}/response", rt.reviewHandler.Respond)
			r.Delete("/{id}", rt.reviewHandler.Delete)
		})

		r.Route("/sellers", func(r chi.Router) {
			r.Post("/", rt.sellerHandler.Create)
			r.Get("/me", rt.sellerHandler.Me)
			r.Get("/{id}", rt.sellerHandler.GetByID)
			r.Get("/{id}/stats", rt.sellerHandler.GetStats)
			r.Get("/{id}/reviews", rt.reviewHandler.GetBySellerID)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", rt.cartHandler.Get)
			r.Delete("/", rt.cartHandler.Clear)
			r.Get("/quote", rt.cartHandler.Quote)
			r.Post("/items", rt.cartHandler.AddItem)
			r.Put("/items/{id}", rt.cartHandler.UpdateItem)
			r.Delete("/items/{id}", rt.cartHandler.RemoveItem)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Post("/", rt.addressHandler.Create)
			r.Get("/", rt.addressHandler.List)
			r.Get("/{id}", rt.addressHandler.GetByID)
			r.Delete("/{id}", rt.addressHandler.Delete)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
