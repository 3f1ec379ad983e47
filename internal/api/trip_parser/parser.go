package tripParser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	tripSchema "github.com/FACorreiaa/go-trip-planner/internal/api/trip_schema"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// MalformedResponseError means the raw text is not a single JSON value.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// SchemaViolationError names the first field that broke the schema.
type SchemaViolationError struct {
	Path   string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Reason)
}

// Parse decodes raw response text and validates it against schema before
// building the typed plan.
func Parse(raw string, schema *tripSchema.Node) (*types.TripPlan, error) {
	body := cleanJSONString(raw)
	if body == "" {
		return nil, &MalformedResponseError{Err: errors.New("empty response")}
	}

	var value any
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &MalformedResponseError{Err: errors.New("unexpected data after the JSON value")}
	}

	if err := schema.Validate(value); err != nil {
		var v *tripSchema.Violation
		if errors.As(err, &v) {
			return nil, &SchemaViolationError{Path: v.Path, Reason: v.Reason}
		}
		return nil, &SchemaViolationError{Path: "(root)", Reason: err.Error()}
	}

	normalized, err := json.Marshal(schema.Normalize(value))
	if err != nil {
		return nil, &MalformedResponseError{Err: err}
	}
	var plan types.TripPlan
	if err := json.NewDecoder(bytes.NewReader(normalized)).Decode(&plan); err != nil {
		// the schema admitted something the Go types cannot hold
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaViolationError{Path: typeErr.Field, Reason: fmt.Sprintf("cannot decode %s into %s", typeErr.Value, typeErr.Type)}
		}
		return nil, &MalformedResponseError{Err: err}
	}
	return &plan, nil
}

// cleanJSONString removes a Markdown code fence around the payload, if any.
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
