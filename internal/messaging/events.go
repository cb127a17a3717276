// Package messaging defines the order events the admin service publishes.
package messaging

import (
	"context"
	"time"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"

	EventSource = "admin-service"
)

// OrderEventData is the payload carried by every order event
type OrderEventData struct {
	OrderID        string             `json:"orderId"`
	DisplayID      string             `json:"displayId"`
	UserID         string             `json:"userId"`
	Status         domain.OrderStatus `json:"status"`
	PreviousStatus domain.OrderStatus `json:"previousStatus,omitempty"`
	TotalAmount    float64            `json:"totalAmount"`
	ItemCount      int                `json:"itemCount"`
	OccurredAt     time.Time          `json:"occurredAt"`
}

// NewOrderEventData snapshots the fields of order that consumers care about
func NewOrderEventData(order *domain.Order, previous domain.OrderStatus) OrderEventData {
	count := 0
	for _, item := range order.CartItems {
		count += item.Quantity
	}
	return OrderEventData{
		OrderID:        order.ID,
		DisplayID:      order.DisplayID(),
		UserID:         order.UserID,
		Status:         order.Status,
		PreviousStatus: previous,
		TotalAmount:    order.TotalAmount,
		ItemCount:      count,
		OccurredAt:     time.Now().UTC(),
	}
}

// NoOpPublisher drops every event. Used when no broker is configured.
type NoOpPublisher struct{}

var _ interfaces.EventPublisher = NoOpPublisher{}

func (NoOpPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return nil
}

func (NoOpPublisher) PublishOrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error {
	return nil
}

func (NoOpPublisher) Close() error { return nil }
