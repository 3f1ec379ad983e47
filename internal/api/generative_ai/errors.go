package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	openai "github.com/openai/openai-go"
	"google.golang.org/genai"
)

var (
	ErrMissingCredential = errors.New("service credential is not configured")
	ErrEmptyResponse     = errors.New("service returned no content")
)

// ServiceError is returned for every failure of an outbound generation call.
type ServiceError struct {
	Provider   string
	StatusCode int
	Timeout    bool
	Retryable  bool
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s request timed out: %v", e.Provider, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	}
}

func (e *ServiceError) Unwrap() error { return e.Err }

// classify wraps a provider error, deciding whether a fresh attempt could
// succeed. ctx is the per-call context carrying the timeout.
func classify(ctx context.Context, provider string, err error) *ServiceError {
	se := &ServiceError{Provider: provider, Err: err}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		se.Timeout = true
		se.Retryable = true
		return se
	}
	if errors.Is(err, context.Canceled) {
		return se
	}

	if code := statusCode(err); code != 0 {
		se.StatusCode = code
		se.Retryable = code == http.StatusTooManyRequests ||
			code == http.StatusRequestTimeout ||
			code >= http.StatusInternalServerError
		return se
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		se.Retryable = true
	}
	return se
}

func statusCode(err error) int {
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code
	}
	var geminiPtrErr *genai.APIError
	if errors.As(err, &geminiPtrErr) && geminiPtrErr != nil {
		return geminiPtrErr.Code
	}
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) && openaiErr != nil {
		return openaiErr.StatusCode
	}
	return 0
}
