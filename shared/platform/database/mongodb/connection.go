package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/amiosamu/restaurant-admin/shared/platform/config"
	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
)

// Connection manages a MongoDB client bound to one database
type Connection struct {
	Client   *mongo.Client
	Database *mongo.Database
	config   config.MongoDBConfig
	logger   logging.Logger
}

// NewConnection connects and pings the primary
func NewConnection(ctx context.Context, cfg config.MongoDBConfig, logger logging.Logger) (*Connection, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.WrapAs(err, errors.ErrorTypeExternal, "failed to connect to MongoDB")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.WrapAs(err, errors.ErrorTypeExternal, "failed to ping MongoDB")
	}

	logger.Info(ctx, "MongoDB connection established", map[string]interface{}{
		"database":      cfg.Database,
		"max_pool_size": cfg.MaxPoolSize,
		"min_pool_size": cfg.MinPoolSize,
	})

	return &Connection{
		Client:   client,
		Database: client.Database(cfg.Database),
		config:   cfg,
		logger:   logger,
	}, nil
}

// Close disconnects the client
func (c *Connection) Close() error {
	if c.Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Client.Disconnect(ctx); err != nil {
		c.logger.Error(ctx, "Failed to close MongoDB connection", err)
		return err
	}
	c.logger.Info(ctx, "MongoDB connection closed")
	return nil
}

// HealthCheck pings the primary
func (c *Connection) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return errors.NewInternal("MongoDB client is nil")
	}
	if err := c.Client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.WrapAs(err, errors.ErrorTypeExternal, "MongoDB ping failed")
	}
	return nil
}

// Collection returns a collection with the given name
func (c *Connection) Collection(name string) *mongo.Collection {
	return c.Database.Collection(name)
}

// QueryTimeout is the per-operation deadline repositories apply
func (c *Connection) QueryTimeout() time.Duration {
	return c.config.QueryTimeout
}

// CreateIndexes creates indexes for a collection
func (c *Connection) CreateIndexes(ctx context.Context, collectionName string, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}

	names, err := c.Collection(collectionName).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to create indexes for collection %s", collectionName))
	}

	c.logger.Info(ctx, "Created indexes", map[string]interface{}{
		"collection": collectionName,
		"indexes":    names,
	})
	return nil
}
