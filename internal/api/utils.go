package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// MaxBodyBytes caps a trip request body. Real requests are a few hundred bytes.
const MaxBodyBytes = 64 << 10

// ErrorResponse writes the failure body shared by every trip plan endpoint.
// Success is always false and RequestID comes from the chi request ID middleware.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, body types.TripPlanErrorResponse) {
	body.Success = false
	body.RequestID = middleware.GetReqID(r.Context())
	WriteJSONResponse(w, r, status, body)
}

// WriteJSONResponse marshals data before touching the response, so an
// encoding failure still yields a clean 500.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	ctx := r.Context()
	body, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode response",
			slog.Any("error", err), slog.String("request_id", middleware.GetReqID(ctx)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.WarnContext(ctx, "Client went away before the response was written",
			slog.Any("error", err), slog.String("request_id", middleware.GetReqID(ctx)))
		return
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// DecodeJSONBody decodes exactly one JSON value into dst. Unknown keys and
// bodies over MaxBodyBytes are rejected. Errors read well in a 400 body.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return describeDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func describeDecodeError(err error) error {
	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		tooLarge   *http.MaxBytesError
		invalidDst *json.InvalidUnmarshalError
	)
	switch {
	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", typeErr.Offset)
		}
		return fmt.Errorf("body contains incorrect JSON type for field %q (wanted %s)", typeErr.Field, typeErr.Type)
	case errors.As(err, &tooLarge):
		return fmt.Errorf("body must not be larger than %d bytes", tooLarge.Limit)
	case errors.As(err, &invalidDst):
		return fmt.Errorf("decode target: %w", err)
	}
	// encoding/json has no typed error for unknown fields
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return fmt.Errorf("body contains unknown key %s", name)
	}
	return fmt.Errorf("error decoding JSON body: %w", err)
}
