package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/delivery/http/request"
	"github.com/vinomercato/marketplace/internal/delivery/http/response"
	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/usecase/seller"
)

// SellerHandler handles HTTP requests for seller profiles
type SellerHandler struct {
	service *seller.Service
	logger  *logger.Logger
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(service *seller.Service, log *logger.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		logger:  log,
	}
}

// CreateSellerRequest represents the request body for creating a seller profile
type CreateSellerRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=255"`
}

// Create handles POST /api/v1/sellers
// @Summary Create a seller profile
// @Tags Sellers
// @Accept json
// @Produce json
// @Param seller body CreateSellerRequest true "Seller details"
// @Success 201 {object} map[string]interface{} "Seller created successfully"
// @Failure 409 {object} map[string]string "User already has a seller profile"
// @Router /sellers [post]
func (h *SellerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSellerRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	s := &domain.Seller{
		UserID:      userID,
		DisplayName: req.DisplayName,
	}

	if err := h.service.Create(r.Context(), s); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Created(w, s)
}

// GetByID handles GET /api/v1/sellers/:id
// @Summary Get a seller profile
// @Tags Sellers
// @Produce json
// @Param id path string true "Seller ID (UUID)"
// @Success 200 {object} map[string]interface{} "Seller profile"
// @Failure 404 {object} map[string]string "Seller not found"
// @Router /sellers/{id} [get]
func (h *SellerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid seller ID")
		return
	}

	s, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, s)
}

// Me handles GET /api/v1/sellers/me
// @Summary Get the caller's seller profile
// @Tags Sellers
// @Produce json
// @Success 200 {object} map[string]interface{} "Seller profile"
// @Failure 404 {object} map[string]string "Caller has no seller profile"
// @Router /sellers/me [get]
func (h *SellerHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	s, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, s)
}

// GetStats handles GET /api/v1/sellers/:id/stats
// @Summary Get the cached rating summary for a seller
// @Description Weighted rating, review count, and response rate. Served from Redis when warm.
// @Tags Sellers
// @Produce json
// @Param id path string true "Seller ID (UUID)"
// @Success 200 {object} map[string]interface{} "Rating summary"
// @Failure 404 {object} map[string]string "Seller not found"
// @Router /sellers/{id}/stats [get]
func (h *SellerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid seller ID")
		return
	}

	stats, err := h.service.GetStats(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, stats)
}
