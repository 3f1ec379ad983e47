package generativeAI

import (
	"context"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	tripSchema "github.com/FACorreiaa/go-trip-planner/internal/api/trip_schema"
)

const DefaultOpenAIModel = "gpt-4o-mini"

var _ Generator = (*OpenAIClient)(nil)

// OpenAIClient implements Generator with the chat completions API and a JSON
// schema response format.
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	configured  bool
	logger      *slog.Logger
}

func NewOpenAIClient(s Settings, logger *slog.Logger) *OpenAIClient {
	o := &OpenAIClient{
		model:       s.Model,
		temperature: s.Temperature,
		timeout:     s.Timeout,
		configured:  s.APIKey != "",
		logger:      logger.With(slog.String("provider", ProviderOpenAI)),
	}
	if o.model == "" || strings.HasPrefix(o.model, "gemini") {
		o.model = DefaultOpenAIModel
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	if !o.configured {
		o.logger.Warn("OpenAI API key is not configured; trip plan generation will fail")
	}

	// retries belong to the pipeline, not the transport
	opts := []option.RequestOption{option.WithAPIKey(s.APIKey), option.WithMaxRetries(0)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	if s.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(s.HTTPClient))
	}
	o.client = openai.NewClient(opts...)
	return o
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string, schema *tripSchema.Node) (string, error) {
	if !o.configured {
		return "", &ServiceError{Provider: ProviderOpenAI, Err: ErrMissingCredential}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(float64(o.temperature)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "trip_plan",
					Description: openai.String("Structured trip plan"),
					Schema:      schema.ToJSONSchema(),
				},
			},
		},
	})
	if err != nil {
		return "", classify(ctx, ProviderOpenAI, err)
	}
	o.logger.DebugContext(ctx, "OpenAI response received",
		slog.String("model", o.model),
		slog.Duration("latency", time.Since(start)))

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &ServiceError{Provider: ProviderOpenAI, Err: ErrEmptyResponse}
	}
	return resp.Choices[0].Message.Content, nil
}
