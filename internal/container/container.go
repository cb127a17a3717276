package container

import (
	"context"
	"fmt"
	"time"

	"github.com/amiosamu/restaurant-admin/internal/config"
	"github.com/amiosamu/restaurant-admin/internal/messaging"
	kafkaPublisher "github.com/amiosamu/restaurant-admin/internal/messaging/kafka"
	"github.com/amiosamu/restaurant-admin/internal/messaging/rabbitmq"
	"github.com/amiosamu/restaurant-admin/internal/repository/interfaces"
	"github.com/amiosamu/restaurant-admin/internal/repository/memory"
	mongoRepo "github.com/amiosamu/restaurant-admin/internal/repository/mongodb"
	redisRepo "github.com/amiosamu/restaurant-admin/internal/repository/redis"
	"github.com/amiosamu/restaurant-admin/internal/service"
	httpTransport "github.com/amiosamu/restaurant-admin/internal/transport/http"
	"github.com/amiosamu/restaurant-admin/internal/transport/http/handlers"
	sharedMongo "github.com/amiosamu/restaurant-admin/shared/platform/database/mongodb"
	sharedRedis "github.com/amiosamu/restaurant-admin/shared/platform/database/redis"
	sharedKafka "github.com/amiosamu/restaurant-admin/shared/platform/messaging/kafka"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/metrics"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics metrics.Metrics
	Tracer  tracing.Tracer

	// Connections
	MongoConn     *sharedMongo.Connection
	RedisConn     *sharedRedis.Connection
	KafkaProducer *sharedKafka.Producer
	RabbitConn    rabbitmq.Connection

	// Repositories
	CategoryRepository interfaces.CategoryRepository
	MenuRepository     interfaces.MenuRepository
	OrderRepository    interfaces.OrderRepository
	UserRepository     interfaces.UserRepository
	SessionRepository  interfaces.SessionRepository
	EventPublisher     interfaces.EventPublisher

	// Services
	DashboardService *service.DashboardService
	CategoryService  *service.CategoryService
	MenuService      *service.MenuService
	OrderService     *service.OrderService
	UserService      *service.UserService
	AuthService      *service.AuthService

	HealthServer *httpTransport.HealthServer
	HTTPServer   *httpTransport.Server
}

// New builds every dependency from cfg. Failing to reach MongoDB is fatal;
// the optional brokers fail startup only when they are selected.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"observability", c.initObservability},
		{"databases", c.initDatabases},
		{"repositories", c.initRepositories},
		{"events", c.initEvents},
		{"services", c.initServices},
		{"transport", c.initTransport},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize %s: %w", step.name, err)
		}
	}

	c.Logger.Info(ctx, "Container initialized successfully", map[string]interface{}{
		"service":       cfg.Service.Name,
		"version":       cfg.Service.Version,
		"events_broker": cfg.Events.Broker,
		"redis_enabled": cfg.Redis.Enabled,
		"auth_enabled":  cfg.Security.AuthEnabled,
	})
	return c, nil
}

func (c *Container) initObservability(ctx context.Context) error {
	svc := c.Config.Service

	logger, err := logging.NewServiceLogger(svc.Name, svc.Version, c.Config.Observability.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	c.Logger = logger

	if c.Config.Observability.MetricsEnabled {
		m, err := metrics.NewMetrics(svc.Name)
		if err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}
		c.Metrics = m
	} else {
		c.Metrics = metrics.NewNoOpMetrics()
	}

	tracer, err := tracing.NewTracer(tracing.TracerConfig{
		ServiceName:    svc.Name,
		ServiceVersion: svc.Version,
		Environment:    svc.Environment,
		OTELEndpoint:   c.Config.Observability.OTELEndpoint,
		SamplingRatio:  c.Config.Observability.SamplingRatio,
		Enabled:        c.Config.Observability.TracingEnabled,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	c.Tracer = tracer
	return nil
}

func (c *Container) initDatabases(ctx context.Context) error {
	conn, err := sharedMongo.NewConnection(ctx, c.Config.MongoDB, c.Logger)
	if err != nil {
		return err
	}
	c.MongoConn = conn

	if err := mongoRepo.EnsureIndexes(ctx, conn); err != nil {
		return err
	}

	if c.Config.Redis.Enabled {
		redisConn, err := sharedRedis.NewConnection(ctx, c.Config.Redis, c.Logger)
		if err != nil {
			return err
		}
		c.RedisConn = redisConn
	}
	return nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	db := c.MongoConn.Database
	timeout := c.MongoConn.QueryTimeout()

	c.CategoryRepository = mongoRepo.NewCategoryRepository(db, timeout, c.Logger)
	c.MenuRepository = mongoRepo.NewMenuRepository(db, timeout, c.Logger)
	c.OrderRepository = mongoRepo.NewOrderRepository(db, timeout, c.Logger)
	c.UserRepository = mongoRepo.NewUserRepository(db, timeout, c.Logger)

	if c.RedisConn != nil {
		c.SessionRepository = redisRepo.NewSessionRepository(c.RedisConn.Client)
	} else {
		c.Logger.Warn(ctx, "Redis disabled, sessions are kept in process memory")
		c.SessionRepository = memory.NewSessionRepository()
	}
	return nil
}

func (c *Container) initEvents(ctx context.Context) error {
	switch c.Config.Events.Broker {
	case config.BrokerKafka:
		producer, err := sharedKafka.NewProducer(c.Config.Kafka, c.Logger, c.Metrics)
		if err != nil {
			return err
		}
		c.KafkaProducer = producer
		c.EventPublisher = kafkaPublisher.NewPublisher(producer, c.Config.Events.OrderEventsTopic, c.Logger)

	case config.BrokerRabbitMQ:
		conn, err := rabbitmq.Dial(c.Config.Events.RabbitMQURL)
		if err != nil {
			return err
		}
		c.RabbitConn = conn
		c.EventPublisher = rabbitmq.NewPublisher(conn, c.Config.Events.RabbitMQExchange, c.Logger)

	default:
		c.EventPublisher = messaging.NoOpPublisher{}
	}

	c.Logger.Info(ctx, "Order event publisher ready", map[string]interface{}{
		"broker": c.Config.Events.Broker,
	})
	return nil
}

func (c *Container) initServices(ctx context.Context) error {
	obs := service.Observability{Logger: c.Logger, Metrics: c.Metrics, Tracer: c.Tracer}
	security := c.Config.Security

	c.DashboardService = service.NewDashboardService(c.OrderRepository, c.MenuRepository, c.CategoryRepository, c.UserRepository, obs)
	c.CategoryService = service.NewCategoryService(c.CategoryRepository, c.MenuRepository, obs)
	c.MenuService = service.NewMenuService(c.MenuRepository, c.CategoryRepository, obs)
	c.OrderService = service.NewOrderService(c.OrderRepository, c.UserRepository, c.EventPublisher, obs)
	c.UserService = service.NewUserService(c.UserRepository, c.SessionRepository, security.PasswordMinLength, obs)
	c.AuthService = service.NewAuthService(c.UserRepository, c.SessionRepository, security.JWTSecret, security.JWTExpiration, obs)
	return nil
}

func (c *Container) initTransport(ctx context.Context) error {
	c.HealthServer = httpTransport.NewHealthServer(c.Config.Service.Name, c.Config.Service.Version, c.Metrics, c.Logger)
	c.HealthServer.AddComponent("mongodb", true, c.MongoConn.HealthCheck)
	if c.RedisConn != nil {
		c.HealthServer.AddComponent("redis", true, c.RedisConn.HealthCheck)
	}
	if c.KafkaProducer != nil {
		c.HealthServer.AddComponent("kafka", false, c.KafkaProducer.HealthCheck)
	}
	if c.RabbitConn != nil {
		conn := c.RabbitConn
		c.HealthServer.AddComponent("rabbitmq", false, func(context.Context) error {
			if conn.IsClosed() {
				return fmt.Errorf("connection closed")
			}
			return nil
		})
	}

	opts := httpTransport.Options{AllowedOrigins: c.Config.Security.CORSAllowedOrigins}
	if c.Config.Security.AuthEnabled {
		opts.Auth = c.AuthService
	}

	c.HTTPServer = httpTransport.NewServer(
		c.Config.Server,
		httpTransport.Handlers{
			Dashboard: handlers.NewDashboardHandler(c.DashboardService, c.Logger),
			Category:  handlers.NewCategoryHandler(c.CategoryService, c.Logger),
			Menu:      handlers.NewMenuHandler(c.MenuService, c.Logger),
			Order:     handlers.NewOrderHandler(c.OrderService, c.Logger),
			User:      handlers.NewUserHandler(c.UserService, c.AuthService, c.Logger),
		},
		c.HealthServer,
		opts,
		c.Logger,
		c.Metrics,
		c.Tracer,
	)
	return nil
}

// Close releases resources in reverse order of creation
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	// the publisher owns the kafka producer or the rabbitmq connection
	if c.EventPublisher != nil {
		errs = appendErr(errs, c.EventPublisher.Close(), "event publisher")
	}
	if c.RedisConn != nil {
		errs = appendErr(errs, c.RedisConn.Close(), "redis")
	}
	if c.MongoConn != nil {
		errs = appendErr(errs, c.MongoConn.Close(), "mongodb")
	}
	if c.Tracer != nil {
		errs = appendErr(errs, c.Tracer.Close(), "tracer")
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during container shutdown: %v", errs)
	}
	if c.Logger != nil {
		c.Logger.Info(ctx, "Container shutdown completed successfully")
	}
	return nil
}

func appendErr(errs []error, err error, what string) []error {
	if err != nil {
		return append(errs, fmt.Errorf("failed to close %s: %w", what, err))
	}
	return errs
}
