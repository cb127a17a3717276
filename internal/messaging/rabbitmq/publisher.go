package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/amiosamu/restaurant-admin/internal/domain"
	"github.com/amiosamu/restaurant-admin/internal/messaging"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
)

// Publisher sends order events to a topic exchange with the event type as routing key
type Publisher struct {
	conn     Connection
	exchange string
	logger   logging.Logger
}

var _ interfaces.EventPublisher = (*Publisher)(nil)

// NewPublisher creates an order event publisher on exchange
func NewPublisher(conn Connection, exchange string, logger logging.Logger) *Publisher {
	return &Publisher{conn: conn, exchange: exchange, logger: logger}
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, messaging.EventOrderCreated, order, "")
}

func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error {
	return p.publish(ctx, messaging.EventOrderStatusChanged, order, previous)
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

func (p *Publisher) publish(ctx context.Context, eventType string, order *domain.Order, previous domain.OrderStatus) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		return errors.WrapAs(err, errors.ErrorTypeExternal, "failed to declare exchange")
	}

	body, err := json.Marshal(messaging.NewOrderEventData(order, previous))
	if err != nil {
		return errors.Wrap(err, "failed to marshal order event")
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Type:         eventType,
		AppId:        messaging.EventSource,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, eventType, false, false, msg); err != nil {
		return errors.WrapAs(err, errors.ErrorTypeExternal, "failed to publish order event")
	}

	p.logger.Info(ctx, "Order event published", map[string]interface{}{
		"event_type": eventType,
		"order_id":   order.ID,
		"status":     order.Status,
		"exchange":   p.exchange,
	})
	return nil
}
