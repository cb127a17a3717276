package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

type updateStatusRequest struct {
	Status string `json:"status"`
}

// OrderHandler handles order requests
type OrderHandler struct {
	responder
	orders interfaces.OrderService
}

func NewOrderHandler(orders interfaces.OrderService, logger logging.Logger) *OrderHandler {
	return &OrderHandler{responder: responder{logger: logger}, orders: orders}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CreateOrderInput
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(ctx, w, err, "Failed to place order")
		return
	}

	order, err := h.orders.Create(ctx, req)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to place order")
		return
	}

	h.respondOK(ctx, w, http.StatusCreated, "Order placed successfully", order)
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orders.List(ctx)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to retrieve orders")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Orders retrieved successfully", orders)
}

// GetUserOrders handles GET /api/users/{id}/orders
func (h *OrderHandler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")
	tracing.AddSpanAttributes(ctx, tracing.UserIDKey.String(userID))

	orders, err := h.orders.ListByUser(ctx, userID)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to retrieve user orders")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "User orders retrieved successfully", orders)
}

// UpdateOrderStatus handles PATCH /api/orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	tracing.AddSpanAttributes(ctx, tracing.OrderIDKey.String(id))

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(ctx, w, err, "Failed to update order status")
		return
	}

	order, err := h.orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to update order status")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "Order status updated successfully", order)
}
