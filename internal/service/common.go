package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/metrics"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// Observability bundles what every service reports to
type Observability struct {
	Logger  logging.Logger
	Metrics metrics.Metrics
	Tracer  tracing.Tracer
}

// NoOpObservability is used by tests and tools that do not report anything
func NoOpObservability() Observability {
	return Observability{
		Logger:  logging.NewNoOpLogger(),
		Metrics: metrics.NewNoOpMetrics(),
		Tracer:  tracing.NewNoOpTracer(),
	}
}

func (o Observability) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// fail marks the span as failed and passes err through
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (o Observability) count(name, result string) {
	o.Metrics.IncrementCounter(name, map[string]string{"result": result})
}
