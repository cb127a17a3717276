package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/internal/transport/http/handlers"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/metrics"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*domain.JWTClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*domain.JWTClaims)
	return claims, ok
}

// routePattern is the matched chi pattern, or the raw path when nothing matched
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// LoggingMiddleware logs every request once it has been served
func LoggingMiddleware(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			if requestID := chimiddleware.GetReqID(r.Context()); requestID != "" {
				w.Header().Set(chimiddleware.RequestIDHeader, requestID)
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := map[string]interface{}{
				"method":        r.Method,
				"path":          r.URL.Path,
				"route":         routePattern(r),
				"status_code":   ww.Status(),
				"duration_ms":   time.Since(start).Milliseconds(),
				"remote_addr":   r.RemoteAddr,
				"response_size": ww.BytesWritten(),
			}
			if ww.Status() >= http.StatusInternalServerError {
				logger.Warn(r.Context(), "HTTP request failed", fields)
				return
			}
			logger.Info(r.Context(), "HTTP request processed", fields)
		})
	}
}

// TracingMiddleware starts a server span per request, continuing any incoming trace
func TracingMiddleware(tracer tracing.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					tracing.HTTPMethodKey.String(r.Method),
					tracing.HTTPUserAgentKey.String(r.UserAgent()),
				),
			)
			defer span.End()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			span.SetAttributes(
				tracing.HTTPRouteKey.String(routePattern(r)),
				tracing.HTTPStatusCodeKey.Int(ww.Status()),
			)
			if ww.Status() >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", ww.Status()))
			}
		})
	}
}

// MetricsMiddleware counts requests and records their latency per route
func MetricsMiddleware(m metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			labels := map[string]string{
				"method": r.Method,
				"route":  routePattern(r),
				"status": strconv.Itoa(ww.Status()),
			}
			m.IncrementCounter("http_requests_total", labels)
			m.RecordDuration("http_request_duration_seconds", time.Since(start), labels)
			if ww.Status() >= http.StatusBadRequest {
				m.IncrementCounter("http_requests_errors_total", labels)
			}
		})
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					if origin != "" {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Add("Vary", "Origin")
					}
					break
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodyMiddleware caps request bodies at limit bytes
func MaxBodyMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware admits only requests carrying a live admin session token
func AuthMiddleware(auth interfaces.AuthService, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := handlers.BearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			claims, err := auth.ValidateToken(ctx, token)
			if err != nil {
				if !errors.IsUnauthorized(err) {
					logger.Error(ctx, "Failed to validate token", err)
					writeAuthError(w, http.StatusInternalServerError, "Failed to validate token")
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if claims.Role != string(domain.RoleAdmin) {
				writeAuthError(w, http.StatusForbidden, "Admin access required")
				return
			}

			tracing.AddSpanAttributes(ctx, tracing.UserIDKey.String(claims.UserID))
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, claimsKey{}, claims)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"success":false,"message":%q}`, message)
}
