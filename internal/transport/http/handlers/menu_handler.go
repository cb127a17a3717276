package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// MenuHandler handles menu item requests
type MenuHandler struct {
	responder
	menu interfaces.MenuService
}

func NewMenuHandler(menu interfaces.MenuService, logger logging.Logger) *MenuHandler {
	return &MenuHandler{responder: responder{logger: logger}, menu: menu}
}

// CreateMenuItem handles POST /api/menu
func (h *MenuHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.MenuItemInput
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(ctx, w, err, "Failed to add menu item")
		return
	}

	item, err := h.menu.Create(ctx, req)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to add menu item")
		return
	}

	h.respondOK(ctx, w, http.StatusCreated, "Menu item added successfully", item)
}

// ListMenuItems handles GET /api/menu
func (h *MenuHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.menu.List(ctx)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to retrieve menu items")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Menu items retrieved successfully", items)
}

// UpdateMenuItem handles PUT /api/menu/{id}
func (h *MenuHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	tracing.AddSpanAttributes(ctx, tracing.MenuItemIDKey.String(id))

	var req domain.MenuItemInput
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(ctx, w, err, "Failed to update menu item")
		return
	}

	item, err := h.menu.Update(ctx, id, req)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to update menu item")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Menu item updated successfully", item)
}

// DeleteMenuItem handles DELETE /api/menu/{id}
func (h *MenuHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	tracing.AddSpanAttributes(ctx, tracing.MenuItemIDKey.String(id))

	if err := h.menu.Delete(ctx, id); err != nil {
		h.handleServiceError(ctx, w, err, "Failed to delete menu item")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Menu item deleted successfully", nil)
}
