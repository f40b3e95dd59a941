package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/delivery/http/request"
	"github.com/vinomercato/marketplace/internal/delivery/http/response"
	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/usecase/product"
)

// ProductHandler handles HTTP requests for products and inventory
type ProductHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	SellerID    string  `json:"seller_id" validate:"required"`
	CategoryID  *string `json:"category_id"`
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Region      *string `json:"region"`
	Vintage     *int    `json:"vintage"`
	PriceCents  int64   `json:"price_cents" validate:"gte=0"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	CategoryID  *string `json:"category_id"`
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Region      *string `json:"region"`
	Vintage     *int    `json:"vintage"`
	PriceCents  int64   `json:"price_cents" validate:"gte=0"`
	IsActive    bool    `json:"is_active"`
}

// SetInventoryRequest represents the request body for replacing an inventory row
type SetInventoryRequest struct {
	Quantity int     `json:"quantity" validate:"gte=0"`
	Managed  bool    `json:"managed"`
	SKU      *string `json:"sku"`
}

// AdjustInventoryRequest represents the request body for an inventory delta
type AdjustInventoryRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// Create handles POST /api/v1/products
// @Summary Create a new wine listing
// @Tags Products
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Product details"
// @Success 201 {object} map[string]interface{} "Product created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid seller ID")
		return
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	p := &domain.Product{
		SellerID:    sellerID,
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		Region:      req.Region,
		Vintage:     req.Vintage,
		PriceCents:  req.PriceCents,
	}

	if err := h.service.Create(r.Context(), p); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Created(w, p)
}

// List handles GET /api/v1/products
// @Summary List active wine listings
// @Tags Products
// @Produce json
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of products"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)

	products, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Paginated(w, products, total, limit, offset)
}

// GetByID handles GET /api/v1/products/:id
// @Summary Get a wine listing
// @Tags Products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, p)
}

// Update handles PUT /api/v1/products/:id
// @Summary Update a wine listing
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param product body UpdateProductRequest true "Updated product details"
// @Success 200 {object} map[string]interface{} "Product updated successfully"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	p := &domain.Product{
		ID:          id,
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		Region:      req.Region,
		Vintage:     req.Vintage,
		PriceCents:  req.PriceCents,
		IsActive:    req.IsActive,
	}

	if err := h.service.Update(r.Context(), p); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, p)
}

// Delete handles DELETE /api/v1/products/:id
// @Summary Deactivate a wine listing
// @Description Marks the product inactive so it can no longer be ordered. Existing order lines keep their price snapshot.
// @Tags Products
// @Param id path string true "Product ID (UUID)"
// @Success 204 "Product deactivated"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}

// GetInventory handles GET /api/v1/products/:id/inventory
// @Summary Get inventory for a product
// @Tags Inventory
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Inventory row"
// @Failure 404 {object} map[string]string "Product or inventory not found"
// @Router /products/{id}/inventory [get]
func (h *ProductHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	inv, err := h.service.GetInventory(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, inv)
}

// SetInventory handles PUT /api/v1/products/:id/inventory
// @Summary Create or replace inventory for a product
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param inventory body SetInventoryRequest true "Inventory row"
// @Success 200 {object} map[string]interface{} "Inventory stored"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id}/inventory [put]
func (h *ProductHandler) SetInventory(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req SetInventoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inv := &domain.Inventory{
		ProductID: id,
		Quantity:  req.Quantity,
		Managed:   req.Managed,
		SKU:       req.SKU,
	}

	if err := h.service.SetInventory(r.Context(), inv); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, inv)
}

// AdjustInventory handles POST /api/v1/products/:id/inventory/adjust
// @Summary Apply a signed delta to product stock
// @Description The resulting quantity is clamped at zero.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param adjustment body AdjustInventoryRequest true "Stock delta"
// @Success 200 {object} map[string]interface{} "Updated inventory row"
// @Failure 404 {object} map[string]string "Product or inventory not found"
// @Router /products/{id}/inventory/adjust [post]
func (h *ProductHandler) AdjustInventory(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req AdjustInventoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inv, err := h.service.AdjustInventory(r.Context(), id, req.Delta)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, inv)
}
