package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"

	"github.com/amiosamu/restaurant-admin/shared/platform/config"
	platformError "github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/metrics"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// Producer publishes JSON messages synchronously
type Producer struct {
	producer sarama.SyncProducer
	clientID string
	logger   logging.Logger
	metrics  metrics.Metrics

	mu     sync.RWMutex
	closed bool
}

// NewSaramaConfig translates the service config into a sarama config
func NewSaramaConfig(cfg config.KafkaConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.ClientID
	saramaConfig.Net.DialTimeout = cfg.ProducerTimeout
	saramaConfig.Net.ReadTimeout = cfg.ProducerTimeout
	saramaConfig.Net.WriteTimeout = cfg.ProducerTimeout
	saramaConfig.Producer.Retry.Max = cfg.ProducerRetries
	saramaConfig.Producer.Timeout = cfg.ProducerTimeout
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true

	switch cfg.RequiredAcks {
	case 0:
		saramaConfig.Producer.RequiredAcks = sarama.NoResponse
	case 1:
		saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	}

	switch cfg.Compression {
	case "none":
		saramaConfig.Producer.Compression = sarama.CompressionNone
	case "gzip":
		saramaConfig.Producer.Compression = sarama.CompressionGZIP
	case "lz4":
		saramaConfig.Producer.Compression = sarama.CompressionLZ4
	case "zstd":
		saramaConfig.Producer.Compression = sarama.CompressionZSTD
	default:
		saramaConfig.Producer.Compression = sarama.CompressionSnappy
	}

	return saramaConfig
}

// NewProducer connects a sync producer to the configured brokers
func NewProducer(cfg config.KafkaConfig, logger logging.Logger, m metrics.Metrics) (*Producer, error) {
	syncProducer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig(cfg))
	if err != nil {
		return nil, platformError.WrapAs(err, platformError.ErrorTypeExternal, "failed to create Kafka producer")
	}

	logger.Info(context.Background(), "Kafka producer created", map[string]interface{}{
		"brokers":     cfg.Brokers,
		"client_id":   cfg.ClientID,
		"compression": cfg.Compression,
	})

	return NewProducerWithClient(syncProducer, cfg.ClientID, logger, m), nil
}

// NewProducerWithClient wraps an existing sarama producer
func NewProducerWithClient(sp sarama.SyncProducer, clientID string, logger logging.Logger, m metrics.Metrics) *Producer {
	return &Producer{
		producer: sp,
		clientID: clientID,
		logger:   logger,
		metrics:  m,
	}
}

// SendMessage JSON-encodes value and sends it to topic
func (p *Producer) SendMessage(ctx context.Context, topic, key string, value interface{}, headers map[string]string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return platformError.NewInternal("producer is closed")
	}

	data, err := encodeValue(value)
	if err != nil {
		return platformError.Wrap(err, "failed to serialize message value")
	}

	message := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(data),
		Headers:   p.buildHeaders(ctx, headers),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.metrics.IncrementCounter("kafka_producer_errors_total", map[string]string{"topic": topic})
		p.logger.Error(ctx, "Failed to send Kafka message", err, map[string]interface{}{
			"topic": topic,
			"key":   key,
		})
		return platformError.WrapAs(err, platformError.ErrorTypeExternal, "failed to send Kafka message")
	}

	p.metrics.IncrementCounter("kafka_producer_messages_total", map[string]string{"topic": topic})
	p.logger.Debug(ctx, "Kafka message sent", map[string]interface{}{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	})

	return nil
}

// SendEvent sends an event keyed by its subject
func (p *Producer) SendEvent(ctx context.Context, topic string, event *Event) error {
	headers := map[string]string{
		"event-type":   event.Type,
		"event-id":     event.ID,
		"event-source": event.Source,
		"content-type": "application/json",
	}
	return p.SendMessage(ctx, topic, event.Subject, event, headers)
}

// Close closes the underlying producer; later sends fail
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.producer.Close(); err != nil {
		return platformError.Wrap(err, "failed to close Kafka producer")
	}
	p.logger.Info(context.Background(), "Kafka producer closed")
	return nil
}

// HealthCheck reports whether the producer still accepts messages
func (p *Producer) HealthCheck(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return platformError.NewInternal("producer is closed")
	}
	return nil
}

func encodeValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}

func (p *Producer) buildHeaders(ctx context.Context, headers map[string]string) []sarama.RecordHeader {
	carrier := propagation.MapCarrier{}
	tracing.InjectTraceContext(ctx, carrier)

	recordHeaders := make([]sarama.RecordHeader, 0, len(headers)+len(carrier)+2)
	for k, v := range headers {
		recordHeaders = append(recordHeaders, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	for k, v := range carrier {
		recordHeaders = append(recordHeaders, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	recordHeaders = append(recordHeaders,
		sarama.RecordHeader{Key: []byte("producer-id"), Value: []byte(p.clientID)},
		sarama.RecordHeader{Key: []byte("message-id"), Value: []byte(uuid.NewString())},
	)
	return recordHeaders
}

// Event is the envelope for every published domain event
type Event struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Source   string                 `json:"source"`
	Subject  string                 `json:"subject"`
	Time     time.Time              `json:"time"`
	Data     interface{}            `json:"data"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewEvent creates an event with a fresh ID and the current UTC time
func NewEvent(eventType, source, subject string, data interface{}) *Event {
	return &Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Source:  source,
		Subject: subject,
		Time:    time.Now().UTC(),
		Data:    data,
	}
}
