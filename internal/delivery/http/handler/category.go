package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vinomercato/marketplace/internal/delivery/http/request"
	"github.com/vinomercato/marketplace/internal/delivery/http/response"
	"github.com/vinomercato/marketplace/internal/domain"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/usecase/category"
)

// CategoryHandler handles HTTP requests for the category taxonomy
type CategoryHandler struct {
	service *category.Service
	logger  *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service *category.Service, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  log,
	}
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	Slug     string  `json:"slug" validate:"required,min=1,max=255"`
	ParentID *string `json:"parent_id"`
}

// UpdateCategoryRequest represents the request body for updating a category
type UpdateCategoryRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	Slug     string  `json:"slug" validate:"required,min=1,max=255"`
	ParentID *string `json:"parent_id"`
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Create handles POST /api/v1/categories
// @Summary Create a new category
// @Tags Categories
// @Accept json
// @Produce json
// @Param category body CreateCategoryRequest true "Category details"
// @Success 201 {object} map[string]interface{} "Category created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Slug already in use"
// @Router /categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	parentID, err := parseOptionalUUID(req.ParentID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid parent category ID")
		return
	}

	c := &domain.Category{
		Name:     req.Name,
		Slug:     req.Slug,
		ParentID: parentID,
	}

	if err := h.service.Create(r.Context(), c); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Created(w, c)
}

// List handles GET /api/v1/categories
// @Summary List all categories
// @Tags Categories
// @Produce json
// @Success 200 {object} map[string]interface{} "Categories ordered by name"
// @Router /categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, categories)
}

// GetByID handles GET /api/v1/categories/:id
// @Summary Get a category
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Success 200 {object} map[string]interface{} "Category details"
// @Failure 404 {object} map[string]string "Category not found"
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, c)
}

// Update handles PUT /api/v1/categories/:id
// @Summary Update a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Param category body UpdateCategoryRequest true "Updated category details"
// @Success 200 {object} map[string]interface{} "Category updated successfully"
// @Failure 404 {object} map[string]string "Category not found"
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	parentID, err := parseOptionalUUID(req.ParentID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid parent category ID")
		return
	}

	c := &domain.Category{
		ID:       id,
		Name:     req.Name,
		Slug:     req.Slug,
		ParentID: parentID,
	}

	if err := h.service.Update(r.Context(), c); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.Success(w, c)
}

// Delete handles DELETE /api/v1/categories/:id
// @Summary Delete a category
// @Description Listings in the category are kept and unlinked.
// @Tags Categories
// @Param id path string true "Category ID (UUID)"
// @Success 204 "Category deleted"
// @Failure 404 {object} map[string]string "Category not found"
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}
