package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amiosamu/restaurant-admin/shared/platform/config"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
)

// Connection manages a Redis client
type Connection struct {
	Client *redis.Client
	config config.RedisConfig
	logger logging.Logger
}

// NewConnection creates the client and verifies it with a ping
func NewConnection(ctx context.Context, cfg config.RedisConfig, logger logging.Logger) (*Connection, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Address(),
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
		MaxRetries:      cfg.MaxRetries,
	})

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.WrapAs(err, errors.ErrorTypeExternal, "failed to connect to Redis")
	}

	logger.Info(ctx, "Redis connection established", map[string]interface{}{
		"address":   cfg.Address(),
		"db":        cfg.DB,
		"pool_size": cfg.PoolSize,
	})

	return &Connection{
		Client: rdb,
		config: cfg,
		logger: logger,
	}, nil
}

// Close closes the client
func (c *Connection) Close() error {
	if c.Client == nil {
		return nil
	}
	if err := c.Client.Close(); err != nil {
		c.logger.Error(context.Background(), "Failed to close Redis connection", err)
		return err
	}
	c.logger.Info(context.Background(), "Redis connection closed")
	return nil
}

// HealthCheck pings the server
func (c *Connection) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return errors.NewInternal("Redis client is nil")
	}
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return errors.WrapAs(err, errors.ErrorTypeExternal, "Redis ping failed")
	}
	return nil
}

// PoolStats reports connection pool counters
func (c *Connection) PoolStats() map[string]interface{} {
	stats := c.Client.PoolStats()
	return map[string]interface{}{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
	}
}

// OperationTimeout bounds a single repository call
func (c *Connection) OperationTimeout() time.Duration {
	return c.config.ReadTimeout + c.config.WriteTimeout
}
