package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/metrics"
)

// HealthCheckFunc reports whether one dependency is usable
type HealthCheckFunc func(ctx context.Context) error

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth is the result of one dependency check
type ComponentHealth struct {
	Status    HealthStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	CheckedAt time.Time    `json:"checked_at"`
	Duration  string       `json:"duration"`
}

// HealthResponse is the body of /health and /ready
type HealthResponse struct {
	Status     HealthStatus               `json:"status"`
	Service    string                     `json:"service"`
	Version    string                     `json:"version"`
	Timestamp  time.Time                  `json:"timestamp"`
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

type component struct {
	check    HealthCheckFunc
	critical bool
}

// HealthServer serves health, readiness, liveness and metrics endpoints.
// A failing critical component makes the service unhealthy; any other
// failing component only degrades it.
type HealthServer struct {
	service    string
	version    string
	components map[string]component
	metrics    metrics.Metrics
	logger     logging.Logger
	timeout    time.Duration
	startTime  time.Time
}

func NewHealthServer(service, version string, m metrics.Metrics, logger logging.Logger) *HealthServer {
	return &HealthServer{
		service:    service,
		version:    version,
		components: make(map[string]component),
		metrics:    m,
		logger:     logger,
		timeout:    3 * time.Second,
		startTime:  time.Now(),
	}
}

// AddComponent registers a dependency check
func (h *HealthServer) AddComponent(name string, critical bool, check HealthCheckFunc) {
	h.components[name] = component{check: check, critical: critical}
}

// HandleHealthCheck checks every component
func (h *HealthServer) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

// HandleReadinessCheck checks only the components the service cannot run without
func (h *HealthServer) HandleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

// HandleLivenessCheck answers as long as the process serves requests
func (h *HealthServer) HandleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(r.Context(), w, http.StatusOK, HealthResponse{
		Status:    HealthStatusHealthy,
		Service:   h.service,
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).String(),
	})
}

// HandleMetrics exposes the in-memory metrics snapshot
func (h *HealthServer) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"service":    h.service,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"uptime":     time.Since(h.startTime).String(),
		"start_time": h.startTime.UTC().Format(time.RFC3339),
	}
	if snapshotter, ok := h.metrics.(metrics.Snapshotter); ok {
		response["metrics"] = snapshotter.Snapshot()
	}
	h.writeJSONResponse(r.Context(), w, http.StatusOK, response)
}

func (h *HealthServer) respond(w http.ResponseWriter, r *http.Request, criticalOnly bool) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.components))
	for name, c := range h.components {
		if !criticalOnly || c.critical {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	overall := HealthStatusHealthy
	results := make(map[string]ComponentHealth, len(names))
	for _, name := range names {
		c := h.components[name]
		result := h.checkComponent(ctx, c.check)
		results[name] = result

		if result.Status == HealthStatusUnhealthy {
			if c.critical {
				overall = HealthStatusUnhealthy
			} else if overall == HealthStatusHealthy {
				overall = HealthStatusDegraded
			}
		}
		h.metrics.SetGauge("component_health", healthValue(result.Status), map[string]string{"component": name})
	}
	h.metrics.SetGauge("service_health", healthValue(overall), nil)

	status := http.StatusOK
	if overall == HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
		h.logger.Warn(ctx, "Health check failed", map[string]interface{}{"components": results})
	}

	h.writeJSONResponse(ctx, w, status, HealthResponse{
		Status:     overall,
		Service:    h.service,
		Version:    h.version,
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(h.startTime).String(),
		Components: results,
	})
}

func (h *HealthServer) checkComponent(ctx context.Context, check HealthCheckFunc) ComponentHealth {
	start := time.Now()
	result := ComponentHealth{Status: HealthStatusHealthy}
	if err := check(ctx); err != nil {
		result.Status = HealthStatusUnhealthy
		result.Message = err.Error()
	}
	result.CheckedAt = time.Now().UTC()
	result.Duration = time.Since(start).String()
	return result
}

func healthValue(status HealthStatus) float64 {
	switch status {
	case HealthStatusHealthy:
		return 1
	case HealthStatusDegraded:
		return 0.5
	default:
		return 0
	}
}

func (h *HealthServer) writeJSONResponse(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(ctx, "Failed to encode health response", err)
	}
}
