package kafka

import (
	"context"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/messaging"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	platformkafka "github.com/amiosamu/restaurant-admin/shared/platform/messaging/kafka"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
)

// Sender is the part of the platform producer the publisher needs
type Sender interface {
	SendEvent(ctx context.Context, topic string, event *platformkafka.Event) error
	Close() error
}

// Publisher sends order events to a single Kafka topic, keyed by order id
type Publisher struct {
	sender Sender
	topic  string
	logger logging.Logger
}

var _ interfaces.EventPublisher = (*Publisher)(nil)

// NewPublisher creates an order event publisher on topic
func NewPublisher(sender Sender, topic string, logger logging.Logger) *Publisher {
	return &Publisher{sender: sender, topic: topic, logger: logger}
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, messaging.EventOrderCreated, order, "")
}

func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error {
	return p.publish(ctx, messaging.EventOrderStatusChanged, order, previous)
}

func (p *Publisher) Close() error {
	return p.sender.Close()
}

func (p *Publisher) publish(ctx context.Context, eventType string, order *domain.Order, previous domain.OrderStatus) error {
	data := messaging.NewOrderEventData(order, previous)
	event := platformkafka.NewEvent(eventType, messaging.EventSource, order.ID, data)

	if err := p.sender.SendEvent(ctx, p.topic, event); err != nil {
		return err
	}

	p.logger.Info(ctx, "Order event published", map[string]interface{}{
		"event_type": eventType,
		"event_id":   event.ID,
		"order_id":   order.ID,
		"status":     order.Status,
		"topic":      p.topic,
	})
	return nil
}
