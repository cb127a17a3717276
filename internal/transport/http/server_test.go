package http

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiosamu/restaurant-admin/internal/dashboard"
	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/internal/transport/http/handlers"
	"github.com/amiosamu/restaurant-admin/shared/platform/config"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/metrics"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

type fakeDashboard struct {
	result *dashboard.Dashboard
	err    error
}

func (f *fakeDashboard) GetDashboard(ctx context.Context) (*dashboard.Dashboard, error) {
	return f.result, f.err
}

type fakeCategories struct{}

func (fakeCategories) Create(ctx context.Context, name string) (*domain.Category, error) {
	return domain.NewCategory(name)
}
func (fakeCategories) List(ctx context.Context) ([]domain.CategoryWithCount, error) {
	return []domain.CategoryWithCount{}, nil
}
func (fakeCategories) Delete(ctx context.Context, id string) error {
	return errors.NewNotFound("Category not found")
}

type fakeMenu struct{}

func (fakeMenu) Create(ctx context.Context, in domain.MenuItemInput) (*domain.MenuItem, error) {
	return domain.NewMenuItem(in)
}
func (fakeMenu) List(ctx context.Context) ([]domain.MenuItemView, error) {
	return []domain.MenuItemView{{MenuItem: domain.MenuItem{ID: "m1", Name: "Margherita", Price: 9}}}, nil
}
func (fakeMenu) Update(ctx context.Context, id string, in domain.MenuItemInput) (*domain.MenuItem, error) {
	return nil, errors.NewNotFound("Menu item not found")
}
func (fakeMenu) Delete(ctx context.Context, id string) error { return nil }

type fakeOrders struct {
	lastUser string
}

func (f *fakeOrders) Create(ctx context.Context, in domain.CreateOrderInput) (*domain.Order, error) {
	return domain.NewOrder(in)
}
func (f *fakeOrders) List(ctx context.Context) ([]domain.OrderView, error) { return nil, nil }
func (f *fakeOrders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	f.lastUser = userID
	return []domain.Order{}, nil
}
func (f *fakeOrders) UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	if _, err := domain.ParseOrderStatus(status); err != nil {
		return nil, err
	}
	return &domain.Order{ID: id, Status: domain.OrderStatus(status)}, nil
}

type fakeUsers struct{}

func (fakeUsers) Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	return domain.NewUser(in, domain.RoleCustomer, 6)
}
func (fakeUsers) ListCustomers(ctx context.Context) ([]domain.User, error) { return nil, nil }
func (fakeUsers) Delete(ctx context.Context, id string) error              { return nil }
func (fakeUsers) UpdateStatus(ctx context.Context, id string, status string) (*domain.User, error) {
	return nil, nil
}
func (fakeUsers) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	return nil, nil
}

// fakeAuth accepts "admin-token" and "customer-token"
type fakeAuth struct {
	validateErr error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*interfaces.LoginResult, error) {
	return nil, errors.NewUnauthorized("Invalid email or password")
}
func (f *fakeAuth) Logout(ctx context.Context, token string) error { return nil }
func (f *fakeAuth) ValidateToken(ctx context.Context, token string) (*domain.JWTClaims, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	switch token {
	case "admin-token":
		return &domain.JWTClaims{UserID: "a1", Role: string(domain.RoleAdmin)}, nil
	case "customer-token":
		return &domain.JWTClaims{UserID: "c1", Role: string(domain.RoleCustomer)}, nil
	default:
		return nil, errors.NewUnauthorized("invalid token")
	}
}

type testServer struct {
	handler   http.Handler
	dashboard *fakeDashboard
	orders    *fakeOrders
	auth      *fakeAuth
	metrics   *metrics.InMemoryMetrics
	health    *HealthServer
}

func setup(t *testing.T, withAuth bool) *testServer {
	t.Helper()
	logger := logging.NewNoOpLogger()
	m, err := metrics.NewMetrics("admin-service-test")
	require.NoError(t, err)

	ts := &testServer{
		dashboard: &fakeDashboard{result: &dashboard.Dashboard{Stats: []dashboard.Stat{}}},
		orders:    &fakeOrders{},
		auth:      &fakeAuth{},
		metrics:   m,
	}
	ts.health = NewHealthServer("admin-service", "test", m, logger)

	opts := Options{AllowedOrigins: []string{"*"}}
	if withAuth {
		opts.Auth = ts.auth
	}

	srv := NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 0, RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		Handlers{
			Dashboard: handlers.NewDashboardHandler(ts.dashboard, logger),
			Category:  handlers.NewCategoryHandler(fakeCategories{}, logger),
			Menu:      handlers.NewMenuHandler(fakeMenu{}, logger),
			Order:     handlers.NewOrderHandler(ts.orders, logger),
			User:      handlers.NewUserHandler(fakeUsers{}, ts.auth, logger),
		},
		ts.health,
		opts,
		logger,
		m,
		tracing.NewNoOpTracer(),
	)
	ts.handler = srv.Router()
	return ts
}

func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) handlers.Response {
	t.Helper()
	var resp handlers.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestDashboardStats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := setup(t, false)

		rec := ts.do(http.MethodGet, "/api/dashboard-stats", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		data, ok := body["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, data, "stats")
		assert.Contains(t, data, "revenueData")
		assert.Contains(t, data, "categoryData")
		assert.Contains(t, data, "recentOrders")
	})

	t.Run("StoreFailure", func(t *testing.T) {
		ts := setup(t, false)
		ts.dashboard.err = errors.Wrap(stderrors.New("connection refused"), "failed to load dashboard data")

		rec := ts.do(http.MethodGet, "/api/dashboard-stats", "", "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decode(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, "Failed to fetch dashboard stats", resp.Message)
		assert.Contains(t, resp.Error, "connection refused")
	})
}

func TestAuthGuard(t *testing.T) {
	ts := setup(t, true)

	t.Run("MissingToken", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/dashboard-stats", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/dashboard-stats", "bogus", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("CustomerForbidden", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/orders", "customer-token", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/dashboard-stats", "admin-token", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("SessionStoreDown", func(t *testing.T) {
		ts := setup(t, true)
		ts.auth.validateErr = errors.NewExternal("redis unavailable")

		rec := ts.do(http.MethodGet, "/api/dashboard-stats", "admin-token", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("SignupIsPublic", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/signup", "", `{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "User registered successfully", resp.Message)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("LoginIsPublic", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/login", "", `{"email":"x@example.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("HealthIsPublic", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/live", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRoutes(t *testing.T) {
	ts := setup(t, false)

	t.Run("LegacyMenuPaths", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/get-menu", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Menu items retrieved successfully", decode(t, rec).Message)

		rec = ts.do(http.MethodDelete, "/delete-menu/m1", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = ts.do(http.MethodPut, "/update-menu/m1", "", `{"name":"X","category":"c1","price":3}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("CreateCategory", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/categories", "", `{"name":"Pizza"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Category added successfully", decode(t, rec).Message)
	})

	t.Run("DeleteMissingCategory", func(t *testing.T) {
		rec := ts.do(http.MethodDelete, "/api/categories/missing", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/menu", "", `{"name":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON payload", decode(t, rec).Message)
	})

	t.Run("UserOrders", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/users/u42/orders", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u42", ts.orders.lastUser)
	})

	t.Run("InvalidOrderStatus", func(t *testing.T) {
		rec := ts.do(http.MethodPatch, "/api/orders/o1/status", "", `{"status":"Shipped"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid status value", decode(t, rec).Message)
	})

	t.Run("RequestMetrics", func(t *testing.T) {
		ts := setup(t, false)
		ts.do(http.MethodGet, "/get-menu", "", "")

		snap := ts.metrics.Snapshot()
		var total int64
		for key, c := range snap.Counters {
			if strings.HasPrefix(key, "http_requests_total") {
				total += c.Value
			}
		}
		assert.Equal(t, int64(1), total)
	})
}

func TestHealthServer(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		ts := setup(t, false)
		ts.health.AddComponent("mongodb", true, func(ctx context.Context) error { return nil })

		rec := ts.do(http.MethodGet, "/health", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, HealthStatusHealthy, resp.Status)
		assert.Equal(t, HealthStatusHealthy, resp.Components["mongodb"].Status)
	})

	t.Run("OptionalComponentDegrades", func(t *testing.T) {
		ts := setup(t, false)
		ts.health.AddComponent("mongodb", true, func(ctx context.Context) error { return nil })
		ts.health.AddComponent("kafka", false, func(ctx context.Context) error { return stderrors.New("no brokers") })

		rec := ts.do(http.MethodGet, "/health", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, HealthStatusDegraded, resp.Status)
		assert.Equal(t, "no brokers", resp.Components["kafka"].Message)

		rec = ts.do(http.MethodGet, "/ready", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp = HealthResponse{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotContains(t, resp.Components, "kafka")
	})

	t.Run("CriticalComponentFails", func(t *testing.T) {
		ts := setup(t, false)
		ts.health.AddComponent("mongodb", true, func(ctx context.Context) error { return stderrors.New("timeout") })

		rec := ts.do(http.MethodGet, "/ready", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("Metrics", func(t *testing.T) {
		ts := setup(t, false)
		ts.do(http.MethodGet, "/live", "", "")

		rec := ts.do(http.MethodGet, "/api/metrics", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "http_requests_total")
	})
}
