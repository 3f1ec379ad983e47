package metrics

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationsTotal          metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	GenerationAttemptsTotal   metric.Int64Counter
	SemanticWarningsTotal     metric.Int64Counter
	GenerationsInFlight       metric.Int64UpDownCounter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New creates the instruments on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.GenerationsTotal, err = meter.Int64Counter(
		"trip_plan_generations_total",
		metric.WithDescription("Total number of trip plan generations, by outcome"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("trip_plan_generations_total: %w", err)
	}

	m.GenerationDurationSeconds, err = meter.Float64Histogram(
		"trip_plan_generation_duration_seconds",
		metric.WithDescription("Duration of trip plan generations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("trip_plan_generation_duration_seconds: %w", err)
	}

	m.GenerationAttemptsTotal, err = meter.Int64Counter(
		"trip_plan_service_calls_total",
		metric.WithDescription("Total number of outbound generative service calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("trip_plan_service_calls_total: %w", err)
	}

	m.SemanticWarningsTotal, err = meter.Int64Counter(
		"trip_plan_semantic_warnings_total",
		metric.WithDescription("Total number of consistency warnings raised on accepted plans"),
		metric.WithUnit("{warning}"),
	)
	if err != nil {
		return nil, fmt.Errorf("trip_plan_semantic_warnings_total: %w", err)
	}

	m.GenerationsInFlight, err = meter.Int64UpDownCounter(
		"trip_plan_generations_in_flight",
		metric.WithDescription("Generations currently waiting on the generative service"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("trip_plan_generations_in_flight: %w", err)
	}
	return m, nil
}

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter("TripPlanner"))
		if err != nil {
			log.Fatalf("Metrics: Failed to create instruments: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// The recorders below are no-ops on a nil receiver so services can run
// without a meter provider in tests.

func (m *AppMetrics) GenerationStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.GenerationsInFlight.Add(ctx, 1)
}

func (m *AppMetrics) GenerationFinished(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.GenerationsInFlight.Add(ctx, -1)
	m.GenerationsTotal.Add(ctx, 1, attrs)
	m.GenerationDurationSeconds.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *AppMetrics) ServiceCall(ctx context.Context, provider string, failed bool) {
	if m == nil {
		return
	}
	m.GenerationAttemptsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.Bool("failed", failed),
	))
}

func (m *AppMetrics) Warnings(ctx context.Context, codes []string) {
	if m == nil {
		return
	}
	for _, code := range codes {
		m.SemanticWarningsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
	}
}
