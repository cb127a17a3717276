package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ServiceName, cfg.Service.Name)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "adminboard", cfg.MongoDB.Database)
	assert.Equal(t, BrokerNone, cfg.Events.Broker)
	assert.Equal(t, "order-events", cfg.Events.OrderEventsTopic)
	assert.False(t, cfg.Admin.Enabled())
}

func TestLoadBrokerSelection(t *testing.T) {
	t.Run("Kafka flag", func(t *testing.T) {
		t.Setenv("KAFKA_ENABLED", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, BrokerKafka, cfg.Events.Broker)
	})

	t.Run("Explicit broker", func(t *testing.T) {
		t.Setenv("EVENTS_BROKER", "RabbitMQ")
		t.Setenv("RABBITMQ_EXCHANGE", "orders")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, BrokerRabbitMQ, cfg.Events.Broker)
		assert.Equal(t, "orders", cfg.Events.RabbitMQExchange)
	})

	t.Run("Unknown broker", func(t *testing.T) {
		t.Setenv("EVENTS_BROKER", "nats")
		_, err := Load()
		assert.True(t, errors.IsValidation(err))
	})
}

func TestLoadValidation(t *testing.T) {
	t.Run("Admin password without email", func(t *testing.T) {
		t.Setenv("ADMIN_PASSWORD", "secret123")
		_, err := Load()
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("Auth without secret", func(t *testing.T) {
		t.Setenv("AUTH_ENABLED", "true")
		_, err := Load()
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("Admin bootstrap", func(t *testing.T) {
		t.Setenv("ADMIN_EMAIL", "admin@example.com")
		t.Setenv("ADMIN_PASSWORD", "secret123")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Admin.Enabled())
	})
}
