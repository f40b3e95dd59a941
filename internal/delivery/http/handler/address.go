package handler

import (
	"net/http"

	"github.com/vinomercato/marketplace/internal/delivery/http/request"
	"github.com/vinomercato/marketplace/internal/delivery/http/response"
	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/usecase/address"
)

// AddressHandler handles HTTP requests for the caller's addresses
type AddressHandler struct {
	service *address.Service
	logger  *logger.Logger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(service *address.Service, log *logger.Logger) *AddressHandler {
	return &AddressHandler{
		service: service,
		logger:  log,
	}
}

// CreateAddressRequest represents the request body for creating an address
type CreateAddressRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=255"`
	Line1      string  `json:"line1" validate:"required,min=1,max=255"`
	Line2      *string `json:"line2"`
	City       string  `json:"city" validate:"required,min=1,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,min=1,max=20"`
	Country    string  `json:"country" validate:"required,len=2"`
}

// Create handles POST /api/v1/addresses
// @Summary Create an address
// @Tags Addresses
// @Accept json
// @Produce json
// @Param address body CreateAddressRequest true "Address details"
// @Success 201 {object} map[string]interface{} "Address created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /addresses [post]
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	var req CreateAddressRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	addr := &domain.Address{
		UserID:     userID,
		Name:       req.Name,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}

	if err := h.service.Create(r.Context(), addr); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Created(w, addr)
}

// List handles GET /api/v1/addresses
// @Summary List the caller's addresses
// @Tags Addresses
// @Produce json
// @Success 200 {object} map[string]interface{} "Addresses, most recent first"
// @Router /addresses [get]
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	addresses, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, addresses)
}

// GetByID handles GET /api/v1/addresses/:id
// @Summary Get one of the caller's addresses
// @Tags Addresses
// @Produce json
// @Param id path string true "Address ID (UUID)"
// @Success 200 {object} map[string]interface{} "Address"
// @Failure 403 {object} map[string]string "Address belongs to another user"
// @Failure 404 {object} map[string]string "Address not found"
// @Router /addresses/{id} [get]
func (h *AddressHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid address ID")
		return
	}

	addr, err := h.service.GetByID(r.Context(), userID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, addr)
}

// Delete handles DELETE /api/v1/addresses/:id
// @Summary Delete one of the caller's addresses
// @Tags Addresses
// @Param id path string true "Address ID (UUID)"
// @Success 204 "Address deleted"
// @Failure 403 {object} map[string]string "Address belongs to another user"
// @Failure 404 {object} map[string]string "Address not found"
// @Router /addresses/{id} [delete]
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := request.GetActorID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing or invalid user identity")
		return
	}

	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid address ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}
