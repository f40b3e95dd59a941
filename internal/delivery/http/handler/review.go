package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/delivery/http/request"
	"github.com/vinomercato/marketplace/internal/delivery/http/response"
	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/usecase/review"
)

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	service *review.Service
	logger  *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  log,
	}
}

// CreateReviewRequest represents the request body for creating a review
type CreateReviewRequest struct {
	OrderID string  `json:"order_id" validate:"required"`
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
	WineID  *string `json:"wine_id"`
	Type    string  `json:"type"`
}

// UpdateReviewRequest represents the request body for updating a review
type UpdateReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

// RespondToReviewRequest represents the seller's public response
type RespondToReviewRequest struct {
	Response string `json:"response" validate:"required,min=1,max=5000"`
}

// Create handles POST /api/v1/reviews
// @Summary Create a review for a delivered order
// @Description One review per buyer per order. Publishes an event so the seller's rating summary is recomputed asynchronously.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param review body CreateReviewRequest true "Review details"
// @Success 201 {object} map[string]interface{} "Review created successfully"
// @Failure 409 {object} map[string]string "Order already reviewed"
// @Failure 422 {object} map[string]string "Order not delivered"
// @Router /reviews [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	reviewerID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	var req CreateReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var wineID *uuid.UUID
	if req.WineID != nil {
		id, err := uuid.Parse(*req.WineID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid wine ID")
			return
		}
		wineID = &id
	}

	created, err := h.service.Create(r.Context(), reviewerID, review.CreateInput{
		OrderID: orderID,
		Rating:  req.Rating,
		Comment: req.Comment,
		WineID:  wineID,
		Type:    domain.ReviewType(req.Type),
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Created(w, created)
}

// GetByID handles GET /api/v1/reviews/:id
// @Summary Get a review
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Success 200 {object} map[string]interface{} "Review details"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	rev, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, rev)
}

// GetBySellerID handles GET /api/v1/sellers/:id/reviews
// @Summary Get reviews for a seller
// @Description Paginated seller reviews with the rating distribution and the cached rating summary. Results are cached.
// @Tags Reviews
// @Produce json
// @Param id path string true "Seller ID (UUID)"
// @Param rating query int false "Filter by exact rating (1-5)"
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Reviews with summary"
// @Failure 404 {object} map[string]string "Seller not found"
// @Router /sellers/{id}/reviews [get]
func (h *ReviewHandler) GetBySellerID(w http.ResponseWriter, r *http.Request) {
	sellerID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid seller ID")
		return
	}

	limit, offset := request.GetPaginationParams(r)
	rating := request.GetIntQuery(r, "rating", 0)
	if rating < 0 || rating > 5 {
		rating = 0
	}

	result, err := h.service.GetSellerReviews(r.Context(), sellerID, domain.ReviewFilters{
		Rating: rating,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Paginated(w, result, result.Total, limit, offset)
}

// ReviewableOrders handles GET /api/v1/reviews/reviewable
// @Summary List delivered orders the caller has not reviewed yet
// @Tags Reviews
// @Produce json
// @Success 200 {object} map[string]interface{} "Orders eligible for review"
// @Router /reviews/reviewable [get]
func (h *ReviewHandler) ReviewableOrders(w http.ResponseWriter, r *http.Request) {
	buyerID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	orders, err := h.service.ReviewableOrders(r.Context(), buyerID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, orders)
}

// Update handles PUT /api/v1/reviews/:id
// @Summary Update a review
// @Description Only the original reviewer may update. Triggers a rating recompute for the seller.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Param review body UpdateReviewRequest true "Updated review details"
// @Success 200 {object} map[string]interface{} "Review updated successfully"
// @Failure 403 {object} map[string]string "Not the reviewer"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id} [put]
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	reviewerID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req UpdateReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), reviewerID, id, req.Rating, req.Comment)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, updated)
}

// Respond handles POST /api/v1/reviews/:id/response
// @Summary Post the seller's public response to a review
// @Description Only the reviewed seller may respond. Raises the seller's response rate on the next recompute.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Param response body RespondToReviewRequest true "Response text"
// @Success 200 {object} map[string]interface{} "Review with response"
// @Failure 403 {object} map[string]string "Not the reviewed seller"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id}/response [post]
func (h *ReviewHandler) Respond(w http.ResponseWriter, r *http.Request) {
	sellerID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req RespondToReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Respond(r.Context(), sellerID, id, req.Response)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, updated)
}

// Delete handles DELETE /api/v1/reviews/:id
// @Summary Delete a review
// @Description The reviewer or an admin may delete. Triggers a rating recompute for the seller.
// @Tags Reviews
// @Param id path string true "Review ID (UUID)"
// @Success 204 "Review deleted successfully"
// @Failure 403 {object} map[string]string "Not allowed"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	if err := h.service.Delete(r.Context(), actorID, request.GetActorRole(r), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}
