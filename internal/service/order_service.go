package service

import (
	"context"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// OrderService manages orders and publishes their lifecycle events
type OrderService struct {
	orders    interfaces.OrderRepository
	users     interfaces.UserRepository
	publisher interfaces.EventPublisher
	obs       Observability
}

var _ interfaces.OrderService = (*OrderService)(nil)

func NewOrderService(
	orders interfaces.OrderRepository,
	users interfaces.UserRepository,
	publisher interfaces.EventPublisher,
	obs Observability,
) *OrderService {
	return &OrderService{orders: orders, users: users, publisher: publisher, obs: obs}
}

func (s *OrderService) Create(ctx context.Context, in domain.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.obs.startSpan(ctx, "OrderService.Create")
	defer span.End()

	order, err := domain.NewOrder(in)
	if err != nil {
		return nil, fail(span, err)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.obs.count("orders_created_total", "error")
		return nil, fail(span, err)
	}
	span.SetAttributes(tracing.OrderIDKey.String(order.ID))

	s.obs.count("orders_created_total", "success")
	s.obs.Metrics.RecordValue("order_amount", order.TotalAmount, nil)
	s.obs.Logger.Info(ctx, "Order created", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	})

	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		s.obs.count("order_events_published_total", "error")
		s.obs.Logger.Error(ctx, "Failed to publish order created event", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
	return order, nil
}

// List returns every order joined with its customer
func (s *OrderService) List(ctx context.Context) ([]domain.OrderView, error) {
	ctx, span := s.obs.startSpan(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	customers := make(map[string]*domain.OrderCustomer, len(users))
	for _, u := range users {
		customers[u.ID] = &domain.OrderCustomer{ID: u.ID, Name: u.Name, Email: u.Email}
	}

	views := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, domain.OrderView{Order: o, User: customers[o.UserID]})
	}
	return views, nil
}

// ListByUser returns the orders of one user, newest first
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	ctx, span := s.obs.startSpan(ctx, "OrderService.ListByUser", tracing.UserIDKey.String(userID))
	defer span.End()

	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fail(span, err)
	}
	return orders, nil
}

// UpdateStatus moves an order along its lifecycle. The write only succeeds
// if the order still has the status the transition was checked against.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	ctx, span := s.obs.startSpan(ctx, "OrderService.UpdateStatus",
		tracing.OrderIDKey.String(id), tracing.OrderStatusKey.String(status))
	defer span.End()

	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, fail(span, err)
	}

	current, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := current.CheckTransition(next); err != nil {
		return nil, fail(span, err)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, current.Status, next)
	if err != nil {
		if errors.IsConflict(err) {
			s.obs.Logger.Warn(ctx, "Order status changed concurrently", map[string]interface{}{
				"order_id": id,
				"expected": current.Status,
			})
		}
		s.obs.count("order_status_updates_total", "error")
		return nil, fail(span, err)
	}

	s.obs.count("order_status_updates_total", "success")
	s.obs.Logger.Info(ctx, "Order status updated", map[string]interface{}{
		"order_id": id,
		"from":     current.Status,
		"to":       updated.Status,
	})

	if err := s.publisher.PublishOrderStatusChanged(ctx, updated, current.Status); err != nil {
		s.obs.count("order_events_published_total", "error")
		s.obs.Logger.Error(ctx, "Failed to publish order status event", err, map[string]interface{}{
			"order_id": id,
		})
	}
	return updated, nil
}
