package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/delivery/http/request"
	"github.com/vinomercato/marketplace/internal/delivery/http/response"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/usecase/cart"
)

// CartHandler handles HTTP requests for the caller's cart
type CartHandler struct {
	service *cart.Service
	logger  *logger.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *cart.Service, log *logger.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  log,
	}
}

// AddCartItemRequest represents the request body for adding a cart item
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int    `json:"qty" validate:"required,gte=1"`
}

// UpdateCartItemRequest represents the request body for changing a quantity
type UpdateCartItemRequest struct {
	Qty int `json:"qty" validate:"required,gte=1"`
}

// Get handles GET /api/v1/cart
// @Summary Get the caller's cart
// @Description Returns the cart with resolved products and totals computed from current prices. Created empty on first access.
// @Tags Cart
// @Produce json
// @Success 200 {object} map[string]interface{} "Cart with totals"
// @Router /cart [get]
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	view, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, view)
}

// AddItem handles POST /api/v1/cart/items
// @Summary Add a product to the cart
// @Description Adding a product already in the cart increases its quantity.
// @Tags Cart
// @Accept json
// @Produce json
// @Param item body AddCartItemRequest true "Product and quantity"
// @Success 201 {object} map[string]interface{} "Cart item"
// @Failure 404 {object} map[string]string "Product not found or inactive"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Router /cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	var req AddCartItemRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	item, err := h.service.AddItem(r.Context(), userID, productID, req.Qty)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Created(w, item)
}

// UpdateItem handles PUT /api/v1/cart/items/:id
// @Summary Change the quantity of a cart item
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart item ID (UUID)"
// @Param item body UpdateCartItemRequest true "New quantity"
// @Success 204 "Quantity updated"
// @Failure 403 {object} map[string]string "Item belongs to another cart"
// @Failure 404 {object} map[string]string "Item not found"
// @Router /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	itemID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	var req UpdateCartItemRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateItem(r.Context(), userID, itemID, req.Qty); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}

// RemoveItem handles DELETE /api/v1/cart/items/:id
// @Summary Remove a cart item
// @Tags Cart
// @Param id path string true "Cart item ID (UUID)"
// @Success 204 "Item removed"
// @Failure 403 {object} map[string]string "Item belongs to another cart"
// @Failure 404 {object} map[string]string "Item not found"
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	itemID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID, itemID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}

// Clear handles DELETE /api/v1/cart
// @Summary Empty the caller's cart
// @Tags Cart
// @Success 204 "Cart emptied"
// @Router /cart [delete]
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}

// Quote handles GET /api/v1/cart/quote
// @Summary Compute the checkout fee breakdown for the cart
// @Description Platform fee, buyer protection, processing, and shipping for the current cart contents. All amounts in cents.
// @Tags Cart
// @Produce json
// @Success 200 {object} map[string]interface{} "Fee breakdown"
// @Failure 422 {object} map[string]string "Cart is empty"
// @Router /cart/quote [get]
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	breakdown, err := h.service.Quote(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, breakdown)
}
