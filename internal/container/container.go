package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/config"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	tripPlan "github.com/FACorreiaa/go-trip-planner/internal/api/trip_plan"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Generator       generativeAI.Generator
	TripPlanService *tripPlan.ServiceImpl
	TripPlanHandler *tripPlan.HandlerImpl
}

// NewContainer initializes and returns a new dependency container. appMetrics
// may be nil.
func NewContainer(ctx context.Context, cfg *config.Config, appMetrics *metrics.AppMetrics, logger *slog.Logger) (*Container, error) {
	gen := cfg.Generation

	generator, err := generativeAI.NewGenerator(ctx, generativeAI.Settings{
		Provider:    gen.Provider,
		Model:       gen.Model,
		APIKey:      gen.APIKey,
		BaseURL:     gen.BaseURL,
		Temperature: gen.Temperature,
		Timeout:     gen.Timeout,
		HTTPClient:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}, logger)
	if err != nil {
		logger.Error("Failed to create generation client", slog.Any("error", err))
		return nil, fmt.Errorf("generation client: %w", err)
	}

	service := tripPlan.NewServiceImpl(generator, tripPlan.Options{
		Provider:     gen.Provider,
		MaxAttempts:  gen.MaxAttempts,
		RetryBackoff: gen.RetryBackoff,
		CallTimeout:  gen.Timeout,
		Metrics:      appMetrics,
	}, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Generator:       generator,
		TripPlanService: service,
		TripPlanHandler: tripPlan.NewHandlerImpl(service, logger),
	}, nil
}
