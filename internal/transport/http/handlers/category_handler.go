package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

type createCategoryRequest struct {
	Name string `json:"name"`
}

// CategoryHandler handles category requests
type CategoryHandler struct {
	responder
	categories interfaces.CategoryService
}

func NewCategoryHandler(categories interfaces.CategoryService, logger logging.Logger) *CategoryHandler {
	return &CategoryHandler{responder: responder{logger: logger}, categories: categories}
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(ctx, w, err, "Failed to add category")
		return
	}

	category, err := h.categories.Create(ctx, req.Name)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to add category")
		return
	}

	h.respondOK(ctx, w, http.StatusCreated, "Category added successfully", category)
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.categories.List(ctx)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to retrieve categories")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Categories retrieved successfully", categories)
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	tracing.AddSpanAttributes(ctx, tracing.CategoryIDKey.String(id))

	if err := h.categories.Delete(ctx, id); err != nil {
		h.handleServiceError(ctx, w, err, "Failed to delete category")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Category and associated items deleted successfully", nil)
}
