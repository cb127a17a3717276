package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/internal/transport/http/handlers"
	customMiddleware "github.com/amiosamu/restaurant-admin/internal/transport/http/middleware"
	"github.com/amiosamu/restaurant-admin/shared/platform/config"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/metrics"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// Handlers groups the API handlers mounted by the server
type Handlers struct {
	Dashboard *handlers.DashboardHandler
	Category  *handlers.CategoryHandler
	Menu      *handlers.MenuHandler
	Order     *handlers.OrderHandler
	User      *handlers.UserHandler
}

// Options tune the router
type Options struct {
	// Auth guards every API route except signup and login when set
	Auth           interfaces.AuthService
	AllowedOrigins []string
}

// Server represents the HTTP server
type Server struct {
	server       *http.Server
	router       *chi.Mux
	handlers     Handlers
	healthServer *HealthServer
	opts         Options
	config       config.ServerConfig
	logger       logging.Logger
	metrics      metrics.Metrics
	tracer       tracing.Tracer
}

func NewServer(
	cfg config.ServerConfig,
	h Handlers,
	healthServer *HealthServer,
	opts Options,
	logger logging.Logger,
	m metrics.Metrics,
	tracer tracing.Tracer,
) *Server {
	s := &Server{
		handlers:     h,
		healthServer: healthServer,
		opts:         opts,
		config:       cfg,
		logger:       logger,
		metrics:      m,
		tracer:       tracer,
	}

	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router = chi.NewRouter()

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}

	s.router.Use(customMiddleware.LoggingMiddleware(s.logger))
	s.router.Use(customMiddleware.TracingMiddleware(s.tracer))
	s.router.Use(customMiddleware.MetricsMiddleware(s.metrics))
	s.router.Use(customMiddleware.SecurityHeadersMiddleware())
	s.router.Use(customMiddleware.CORSMiddleware(s.opts.AllowedOrigins))
	s.router.Use(customMiddleware.MaxBodyMiddleware(s.config.MaxBodyBytes))

	s.router.Get("/health", s.healthServer.HandleHealthCheck)
	s.router.Get("/ready", s.healthServer.HandleReadinessCheck)
	s.router.Get("/live", s.healthServer.HandleLivenessCheck)

	// signup and login stay public
	s.router.Post("/api/signup", s.handlers.User.Signup)
	s.router.Post("/api/login", s.handlers.User.Login)

	s.router.Group(func(r chi.Router) {
		if s.opts.Auth != nil {
			r.Use(customMiddleware.AuthMiddleware(s.opts.Auth, s.logger))
		}

		r.Get("/api/metrics", s.healthServer.HandleMetrics)
		r.Post("/api/logout", s.handlers.User.Logout)
		r.Get("/api/dashboard-stats", s.handlers.Dashboard.GetDashboardStats)

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", s.handlers.User.ListUsers)
			r.Delete("/{id}", s.handlers.User.DeleteUser)
			r.Patch("/{id}/status", s.handlers.User.UpdateUserStatus)
			r.Get("/{id}/orders", s.handlers.Order.GetUserOrders)
		})

		r.Route("/api/categories", func(r chi.Router) {
			r.Post("/", s.handlers.Category.CreateCategory)
			r.Get("/", s.handlers.Category.ListCategories)
			r.Delete("/{id}", s.handlers.Category.DeleteCategory)
		})

		r.Route("/api/menu", func(r chi.Router) {
			r.Post("/", s.handlers.Menu.CreateMenuItem)
			r.Get("/", s.handlers.Menu.ListMenuItems)
			r.Put("/{id}", s.handlers.Menu.UpdateMenuItem)
			r.Delete("/{id}", s.handlers.Menu.DeleteMenuItem)
		})

		// paths the existing admin panel calls
		r.Post("/add-menu", s.handlers.Menu.CreateMenuItem)
		r.Get("/get-menu", s.handlers.Menu.ListMenuItems)
		r.Put("/update-menu/{id}", s.handlers.Menu.UpdateMenuItem)
		r.Delete("/delete-menu/{id}", s.handlers.Menu.DeleteMenuItem)

		r.Route("/api/orders", func(r chi.Router) {
			r.Post("/", s.handlers.Order.CreateOrder)
			r.Get("/", s.handlers.Order.ListOrders)
			r.Patch("/{id}/status", s.handlers.Order.UpdateOrderStatus)
		})
	})
}

// Start serves until Stop is called
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting HTTP server", map[string]interface{}{
		"address":       s.server.Addr,
		"read_timeout":  s.config.ReadTimeout.String(),
		"write_timeout": s.config.WriteTimeout.String(),
		"auth_enabled":  s.opts.Auth != nil,
	})
	s.logRoutes(ctx)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info(ctx, "Stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "Failed to gracefully shutdown HTTP server", err)
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info(ctx, "HTTP server stopped")
	return nil
}

// Router returns the router for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) logRoutes(ctx context.Context) {
	chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		s.logger.Debug(ctx, "Route registered", map[string]interface{}{
			"method": method,
			"route":  route,
		})
		return nil
	})
}
