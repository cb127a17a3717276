package handlers

import (
	"net/http"

	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
)

// DashboardHandler serves the admin dashboard
type DashboardHandler struct {
	responder
	dashboard interfaces.DashboardService
}

func NewDashboardHandler(dashboard interfaces.DashboardService, logger logging.Logger) *DashboardHandler {
	return &DashboardHandler{responder: responder{logger: logger}, dashboard: dashboard}
}

// GetDashboardStats handles GET /api/dashboard-stats
func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.dashboard.GetDashboard(ctx)
	if err != nil {
		h.handleServiceError(ctx, w, err, "Failed to fetch dashboard stats")
		return
	}

	h.respondOK(ctx, w, http.StatusOK, "", result)
}
