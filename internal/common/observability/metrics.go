package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records job level OpenTelemetry metrics next to the
// promauto collectors in the metrics package.
type Observability struct {
	meterProvider *metric.MeterProvider
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
}

// New exports through the default Prometheus registry so /metrics serves both.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	o, err := NewWithReader(serviceName, exporter)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(o.meterProvider)
	return o, nil
}

func NewWithReader(serviceName string, reader metric.Reader) (*Observability, error) {
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	meter := provider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create job counter: %w", err)
	}

	jobDuration, err := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create job histogram: %w", err)
	}

	return &Observability{
		meterProvider: provider,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
	}, nil
}

// RecordJob is safe on a nil receiver so workers can run without telemetry.
func (o *Observability) RecordJob(ctx context.Context, taskType string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("task_type", taskType))
	o.jobCounter.Add(ctx, 1, attrs)
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
