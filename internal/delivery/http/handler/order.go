package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/delivery/http/request"
	"github.com/vinomercato/marketplace/internal/delivery/http/response"
	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/usecase/order"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	service *order.Service
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *order.Service, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  log,
	}
}

// CreateOrderItemRequest is one line of a new order
type CreateOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int    `json:"qty" validate:"required,gte=1"`
}

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	ShippingAddressID string                   `json:"shipping_address_id" validate:"required"`
	BillingAddressID  *string                  `json:"billing_address_id"`
	PaymentMethod     string                   `json:"payment_method"`
	Items             []CreateOrderItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /api/v1/orders
// @Summary Place an order
// @Description Creates the order from server-side product prices and decrements managed stock atomically. The order starts in the paid state.
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Order details"
// @Success 201 {object} map[string]interface{} "Order created successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Router /orders [post]
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	buyerID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	var req CreateOrderRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	shippingAddressID, err := uuid.Parse(req.ShippingAddressID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid shipping address ID")
		return
	}

	var billingAddressID *uuid.UUID
	if req.BillingAddressID != nil {
		id, err := uuid.Parse(*req.BillingAddressID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid billing address ID")
			return
		}
		billingAddressID = &id
	}

	items := make([]order.CreateItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid product ID")
			return
		}
		items = append(items, order.CreateItemInput{
			ProductID: productID,
			Qty:       item.Qty,
		})
	}

	created, err := h.service.Create(r.Context(), order.CreateInput{
		BuyerID:           buyerID,
		ShippingAddressID: shippingAddressID,
		BillingAddressID:  billingAddressID,
		PaymentMethod:     req.PaymentMethod,
		Items:             items,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Created(w, created)
}

// GetByID handles GET /api/v1/orders/:id
// @Summary Get an order
// @Description Buyers see their own orders; admins see any order.
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} map[string]interface{} "Order with items"
// @Failure 403 {object} map[string]string "Not the buyer"
// @Failure 404 {object} map[string]string "Order not found"
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if o.BuyerID != actorID && !isAdmin(request.GetActorRole(r)) {
		response.Error(w, http.StatusForbidden, "Not allowed")
		return
	}

	response.Success(w, o)
}

// List handles GET /api/v1/orders
// @Summary List the caller's orders
// @Tags Orders
// @Produce json
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of orders"
// @Router /orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	buyerID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	limit, offset := request.GetPaginationParams(r)

	orders, err := h.service.ListByBuyer(r.Context(), buyerID, limit, offset)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, orders)
}

// UpdateStatus handles PATCH /api/v1/orders/:id/status
// @Summary Advance an order through its lifecycle
// @Description Allowed transitions: paid to label_generated, label_generated to shipped, shipped to delivered; cancellation is allowed until delivery.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Param status body UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} map[string]interface{} "Order with updated status"
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 422 {object} map[string]string "Transition not allowed"
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	role := request.GetActorRole(r)
	if role != "seller" && !isAdmin(role) {
		response.Error(w, http.StatusForbidden, "Not allowed")
		return
	}

	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, o)
}

// isAdmin reports whether the role grants marketplace-wide access
func isAdmin(role string) bool {
	return role == "admin" || role == "super_admin"
}
