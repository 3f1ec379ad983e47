package tripPlan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	tripParser "github.com/FACorreiaa/go-trip-planner/internal/api/trip_parser"
	tripPrompt "github.com/FACorreiaa/go-trip-planner/internal/api/trip_prompt"
	tripSchema "github.com/FACorreiaa/go-trip-planner/internal/api/trip_schema"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	DefaultMaxAttempts  = 2
	DefaultRetryBackoff = 500 * time.Millisecond

	failurePrefix = "Failed to generate trip plan: "
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service turns a trip request into a validated plan.
type Service interface {
	// Generate runs the pipeline synchronously. It never panics and always
	// returns exactly one of a plan or an error.
	Generate(ctx context.Context, req *types.TripPlanRequest) types.GenerationOutcome
	// GenerateTripPlan runs the pipeline in the background and invokes
	// exactly one of the callbacks, exactly once.
	GenerateTripPlan(ctx context.Context, req *types.TripPlanRequest, onSuccess func(*types.TripPlan), onError func(string)) *Invocation
	// Cancel abandons the in-flight generation with the given ID.
	Cancel(id uuid.UUID) bool
	Schema() *tripSchema.Node
}

// Options tunes the pipeline. Zero values fall back to the defaults.
type Options struct {
	Provider     string
	MaxAttempts  int
	RetryBackoff time.Duration
	// CallTimeout is the generator's per-call timeout, used to size the
	// in-flight registry TTL.
	CallTimeout time.Duration
	Clock       func() time.Time
	Metrics     *metrics.AppMetrics
}

type ServiceImpl struct {
	logger      *slog.Logger
	generator   generativeAI.Generator
	schema      *tripSchema.Node
	registry    *Registry
	metrics     *metrics.AppMetrics
	provider    string
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
}

func NewServiceImpl(generator generativeAI.Generator, opts Options, logger *slog.Logger) *ServiceImpl {
	s := &ServiceImpl{
		logger:      logger,
		generator:   generator,
		schema:      tripSchema.TripPlanSchema(),
		metrics:     opts.Metrics,
		provider:    opts.Provider,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.RetryBackoff,
		now:         opts.Clock,
	}
	if s.provider == "" {
		s.provider = generativeAI.ProviderGemini
	}
	if s.maxAttempts < 1 {
		s.maxAttempts = DefaultMaxAttempts
	}
	if s.backoff <= 0 {
		s.backoff = DefaultRetryBackoff
	}
	if s.now == nil {
		s.now = time.Now
	}
	callTimeout := opts.CallTimeout
	if callTimeout <= 0 {
		callTimeout = generativeAI.DefaultTimeout
	}
	s.registry = NewRegistry(time.Duration(s.maxAttempts)*(callTimeout+s.backoff) + time.Minute)
	return s
}

func (s *ServiceImpl) Schema() *tripSchema.Node { return s.schema }

func (s *ServiceImpl) Cancel(id uuid.UUID) bool { return s.registry.Cancel(id) }

func (s *ServiceImpl) GenerateTripPlan(ctx context.Context, req *types.TripPlanRequest,
	onSuccess func(*types.TripPlan), onError func(string)) *Invocation {
	id, ok := GenerationIDFromContext(ctx)
	if !ok {
		id = uuid.New()
		ctx = ContextWithGenerationID(ctx, id)
	}
	ctx, cancel := context.WithCancel(ctx)
	inv := newInvocation(id, cancel)
	inv.start()

	go func() {
		defer cancel()
		outcome := s.Generate(ctx, req)
		if !inv.finish(outcome) {
			return
		}
		s.deliver(ctx, outcome, onSuccess, onError)
	}()
	return inv
}

func (s *ServiceImpl) deliver(ctx context.Context, outcome types.GenerationOutcome, onSuccess func(*types.TripPlan), onError func(string)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Trip plan callback panicked",
				slog.String("generation_id", outcome.ID.String()), slog.Any("panic", r))
		}
	}()
	if outcome.Succeeded() {
		if onSuccess != nil {
			onSuccess(outcome.Plan)
		}
		return
	}
	if onError != nil {
		onError(outcome.Err.Msg)
	}
}

func (s *ServiceImpl) Generate(ctx context.Context, req *types.TripPlanRequest) (outcome types.GenerationOutcome) {
	id, ok := GenerationIDFromContext(ctx)
	if !ok {
		id = uuid.New()
	}
	outcome.ID = id

	ctx, span := otel.Tracer("TripPlanService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("generation.id", id.String()),
		attribute.String("generation.provider", s.provider),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Generate"), slog.String("generation_id", id.String()))
	start := time.Now()
	called := false

	defer func() {
		if r := recover(); r != nil {
			l.ErrorContext(ctx, "Trip plan pipeline panicked", slog.Any("panic", r))
			outcome.Plan = nil
			outcome.Warnings = nil
			outcome.Err = &types.GenerationError{
				Kind: types.KindServiceError,
				Msg:  failurePrefix + "internal error",
				Err:  fmt.Errorf("panic: %v", r),
			}
		}
		result := "success"
		if outcome.Err != nil {
			result = string(outcome.Err.Kind)
			span.RecordError(outcome.Err)
			span.SetStatus(codes.Error, outcome.Err.Msg)
		} else {
			span.SetStatus(codes.Ok, "trip plan generated")
		}
		span.SetAttributes(
			attribute.Int("generation.attempts", outcome.Attempts),
			attribute.Int("generation.warnings", len(outcome.Warnings)),
		)
		if called {
			s.metrics.GenerationFinished(ctx, result, time.Since(start))
		}
	}()

	if err := req.Validate(); err != nil {
		l.InfoContext(ctx, "Rejected trip plan request", slog.Any("error", err))
		outcome.Err = missingInput(err)
		return outcome
	}
	l = l.With(slog.String("destination", req.Destination))

	prompt, err := tripPrompt.Synthesize(*req, s.now())
	if err != nil {
		outcome.Err = missingInput(err)
		return outcome
	}
	days, _ := req.Duration.Days()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := s.registry.Add(id, cancel); err != nil {
		l.WarnContext(ctx, "Duplicate generation ID", slog.Any("error", err))
		outcome.Err = &types.GenerationError{
			Kind: types.KindMissingInput,
			Msg:  fmt.Sprintf("Invalid trip request: generation %s is already in progress", id),
			Err:  err,
		}
		return outcome
	}
	defer s.registry.Remove(id)

	called = true
	s.metrics.GenerationStarted(ctx)
	l.DebugContext(ctx, "Requesting trip plan", slog.Int("prompt_length", len(prompt)))

	raw, attempts, err := s.invoke(ctx, l, prompt)
	outcome.Attempts = attempts
	if err != nil {
		l.ErrorContext(ctx, "Generative service call failed", slog.Any("error", err), slog.Int("attempts", attempts))
		outcome.Err = &types.GenerationError{Kind: types.KindServiceError, Msg: failurePrefix + err.Error(), Err: err}
		return outcome
	}

	plan, err := tripParser.Parse(raw, s.schema)
	if err != nil {
		kind := types.KindMalformedResponse
		var violation *tripParser.SchemaViolationError
		if errors.As(err, &violation) {
			kind = types.KindSchemaViolation
		}
		l.ErrorContext(ctx, "Rejected generated trip plan", slog.String("kind", string(kind)), slog.Any("error", err))
		outcome.Err = &types.GenerationError{Kind: kind, Msg: failurePrefix + err.Error(), Err: err}
		return outcome
	}

	warnings := tripParser.CheckSemantics(plan, s.now(), days)
	if len(warnings) > 0 {
		warned := make([]string, 0, len(warnings))
		for _, w := range warnings {
			l.WarnContext(ctx, "Trip plan consistency warning",
				slog.String("code", w.Code), slog.String("field", w.Field), slog.String("detail", w.Message))
			warned = append(warned, w.Code)
		}
		s.metrics.Warnings(ctx, warned)
	}

	l.InfoContext(ctx, "Trip plan generated",
		slog.Int("days", len(plan.Activities.Days)),
		slog.Int("accommodations", len(plan.Accommodations)),
		slog.Int("warnings", len(warnings)))
	outcome.Plan = plan
	outcome.Warnings = warnings
	return outcome
}

// invoke calls the generator, retrying only retryable service errors.
func (s *ServiceImpl) invoke(ctx context.Context, l *slog.Logger, prompt string) (string, int, error) {
	for attempt := 1; ; attempt++ {
		raw, err := s.generator.Generate(ctx, prompt, s.schema)
		s.metrics.ServiceCall(ctx, s.provider, err != nil)
		if err == nil {
			return raw, attempt, nil
		}

		var se *generativeAI.ServiceError
		if !errors.As(err, &se) {
			err = &generativeAI.ServiceError{Provider: s.provider, Err: err}
		} else if se.Retryable && attempt < s.maxAttempts && ctx.Err() == nil {
			l.WarnContext(ctx, "Retrying generative service call",
				slog.Int("attempt", attempt), slog.Duration("backoff", s.backoff), slog.Any("error", err))
			timer := time.NewTimer(s.backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", attempt, err
			case <-timer.C:
			}
			continue
		}
		return "", attempt, err
	}
}

func missingInput(err error) *types.GenerationError {
	if errors.Is(err, types.ErrMissingUserPrompt) {
		return &types.GenerationError{Kind: types.KindMissingInput, Msg: "Missing user prompt", Err: err}
	}
	detail := strings.TrimPrefix(err.Error(), types.ErrInvalidRequest.Error()+": ")
	return &types.GenerationError{Kind: types.KindMissingInput, Msg: "Invalid trip request: " + detail, Err: err}
}

type generationIDKey struct{}

// ContextWithGenerationID names the generation started with ctx.
func ContextWithGenerationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, generationIDKey{}, id)
}

func GenerationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(generationIDKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
