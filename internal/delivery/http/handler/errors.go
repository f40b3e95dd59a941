package handler

import (
	"errors"
	"net/http"

	"github.com/vinomercato/marketplace/internal/delivery/http/response"
	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
)

// handleError maps service layer errors onto HTTP responses. Every handler
// funnels its service errors through here so the status mapping stays in
// one place.
func handleError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrForbidden):
		response.Error(w, http.StatusForbidden, "Not allowed")
	case errors.Is(err, domain.ErrConflict):
		response.Error(w, http.StatusConflict, "Resource already exists")
	case errors.Is(err, domain.ErrInvalidState):
		response.Error(w, http.StatusUnprocessableEntity, "Operation not allowed in current state")
	case errors.Is(err, domain.ErrInsufficientStock):
		response.Error(w, http.StatusUnprocessableEntity, "Insufficient stock")
	default:
		log.Error("Internal error in handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
