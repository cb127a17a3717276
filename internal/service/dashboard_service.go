package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amiosamu/restaurant-admin/internal/dashboard"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/metrics"
)

// DashboardService reads all four collections and composes the dashboard
type DashboardService struct {
	orders     interfaces.OrderRepository
	menu       interfaces.MenuRepository
	categories interfaces.CategoryRepository
	users      interfaces.UserRepository
	obs        Observability
	now        func() time.Time
}

var _ interfaces.DashboardService = (*DashboardService)(nil)

func NewDashboardService(
	orders interfaces.OrderRepository,
	menu interfaces.MenuRepository,
	categories interfaces.CategoryRepository,
	users interfaces.UserRepository,
	obs Observability,
) *DashboardService {
	return &DashboardService{
		orders:     orders,
		menu:       menu,
		categories: categories,
		users:      users,
		obs:        obs,
		now:        time.Now,
	}
}

// GetDashboard loads a snapshot concurrently. Any read failure fails the
// whole request; no partial dashboard is returned.
func (s *DashboardService) GetDashboard(ctx context.Context) (*dashboard.Dashboard, error) {
	ctx, span := s.obs.startSpan(ctx, "DashboardService.GetDashboard")
	defer span.End()

	timer := metrics.StartTimer(s.obs.Metrics, "dashboard_build_duration_seconds", nil)

	var snap dashboard.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := s.orders.List(gctx)
		snap.Orders = orders
		return err
	})
	g.Go(func() error {
		items, err := s.menu.List(gctx)
		snap.MenuItems = items
		return err
	})
	g.Go(func() error {
		categories, err := s.categories.List(gctx)
		snap.Categories = categories
		return err
	})
	g.Go(func() error {
		users, err := s.users.List(gctx)
		snap.Users = users
		return err
	})

	if err := g.Wait(); err != nil {
		timer.Stop(map[string]string{"result": "error"})
		s.obs.count("dashboard_requests_total", "error")
		s.obs.Logger.Error(ctx, "Failed to load dashboard data", err)
		return nil, fail(span, errors.Wrap(err, "failed to load dashboard data"))
	}

	result := dashboard.Compose(snap, s.now())

	timer.Stop(map[string]string{"result": "success"})
	s.obs.count("dashboard_requests_total", "success")
	s.obs.Logger.Debug(ctx, "Dashboard composed", map[string]interface{}{
		"orders":     len(snap.Orders),
		"menu_items": len(snap.MenuItems),
		"categories": len(snap.Categories),
		"users":      len(snap.Users),
	})
	return result, nil
}
