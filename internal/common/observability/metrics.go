package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	askCounter    otelmetric.Int64Counter
	askDuration   otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	askCounter, _ := meter.Int64Counter(
		"asks.processed",
		otelmetric.WithDescription("Number of queries answered"),
	)

	askDuration, _ := meter.Float64Histogram(
		"asks.duration",
		otelmetric.WithDescription("Query handling duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		askCounter:    askCounter,
		askDuration:   askDuration,
	}
}

func (o *Observability) RecordAsk(ctx context.Context, mode, outcome string) {
	if o.askCounter != nil {
		o.askCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("mode", mode),
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordAskDuration(ctx context.Context, duration time.Duration, mode string) {
	if o.askDuration != nil {
		o.askDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("mode", mode),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
