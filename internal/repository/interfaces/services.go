package interfaces

import (
	"context"

	"github.com/amiosamu/restaurant-admin/internal/dashboard"
	"github.com/amiosamu/restaurant-admin/internal/domain"
)

// DashboardService builds the admin dashboard
type DashboardService interface {
	GetDashboard(ctx context.Context) (*dashboard.Dashboard, error)
}

// CategoryService manages categories
type CategoryService interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.CategoryWithCount, error)
	Delete(ctx context.Context, id string) error
}

// MenuService manages menu items
type MenuService interface {
	Create(ctx context.Context, in domain.MenuItemInput) (*domain.MenuItem, error)
	List(ctx context.Context) ([]domain.MenuItemView, error)
	Update(ctx context.Context, id string, in domain.MenuItemInput) (*domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

// OrderService manages orders and their lifecycle
type OrderService interface {
	Create(ctx context.Context, in domain.CreateOrderInput) (*domain.Order, error)
	List(ctx context.Context) ([]domain.OrderView, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error)
}

// UserService manages accounts
type UserService interface {
	Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error)
	ListCustomers(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status string) (*domain.User, error)
	EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error)
}

// LoginResult is returned by a successful login
type LoginResult struct {
	User        *domain.User    `json:"user"`
	Session     *domain.Session `json:"session"`
	AccessToken string          `json:"accessToken"`
}

// AuthService handles login sessions
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (*domain.JWTClaims, error)
}

// EventPublisher announces order lifecycle changes
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error
	Close() error
}
