package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	tripSchema "github.com/FACorreiaa/go-trip-planner/internal/api/trip_schema"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultTimeout     = 60 * time.Second
)

// Generator sends one prompt to the generative service, constrained to the
// given schema, and returns the raw response text. Implementations make exactly
// one outbound call per invocation and never retry.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *tripSchema.Node) (string, error)
}

// Settings configures a Generator. APIKey is the only credential; it is read
// once at startup and injected here.
type Settings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// NewGenerator builds the Generator for the configured provider.
func NewGenerator(ctx context.Context, s Settings, logger *slog.Logger) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "", ProviderGemini:
		c, err := NewAIClient(ctx, s, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderOpenAI:
		return NewOpenAIClient(s, logger), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", s.Provider)
	}
}

var _ Generator = (*AIClient)(nil)

// AIClient talks to the Gemini API.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

// NewAIClient creates the Gemini client. A missing API key is not an error
// here: the client is still returned and every call fails with a ServiceError.
func NewAIClient(ctx context.Context, s Settings, logger *slog.Logger) (*AIClient, error) {
	ai := &AIClient{
		model:       s.Model,
		temperature: s.Temperature,
		timeout:     s.Timeout,
		logger:      logger.With(slog.String("provider", ProviderGemini)),
	}
	if ai.model == "" {
		ai.model = DefaultGeminiModel
	}
	if ai.timeout <= 0 {
		ai.timeout = DefaultTimeout
	}
	if s.APIKey == "" {
		ai.logger.WarnContext(ctx, "Gemini API key is not configured; trip plan generation will fail")
		return ai, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     s.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: s.HTTPClient,
	}
	if s.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	ai.client = client
	return ai, nil
}

func (ai *AIClient) Generate(ctx context.Context, prompt string, schema *tripSchema.Node) (string, error) {
	if ai.client == nil {
		return "", &ServiceError{Provider: ProviderGemini, Err: ErrMissingCredential}
	}

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(ai.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema.ToGenAI(),
	}

	start := time.Now()
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", classify(ctx, ProviderGemini, err)
	}
	ai.logger.DebugContext(ctx, "Gemini response received",
		slog.String("model", ai.model),
		slog.Duration("latency", time.Since(start)))

	txt := result.Text()
	if strings.TrimSpace(txt) == "" {
		return "", &ServiceError{Provider: ProviderGemini, Err: ErrEmptyResponse}
	}
	return txt, nil
}
