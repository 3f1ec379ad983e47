package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MaxTripDays is the longest trip the planner accepts.
const MaxTripDays = 30

var (
	ErrMissingUserPrompt = errors.New("missing user prompt")
	ErrInvalidRequest    = errors.New("invalid trip request")
)

// TravelType describes who is travelling.
type TravelType string

const (
	TravelSolo    TravelType = "solo"
	TravelCouple  TravelType = "couple"
	TravelFamily  TravelType = "family"
	TravelFriends TravelType = "friends"
)

// Normalize lower-cases the value and maps the empty value to solo.
func (t TravelType) Normalize() TravelType {
	n := TravelType(strings.ToLower(strings.TrimSpace(string(t))))
	if n == "" {
		return TravelSolo
	}
	return n
}

func (t TravelType) Valid() bool {
	switch t.Normalize() {
	case TravelSolo, TravelCouple, TravelFamily, TravelFriends:
		return true
	}
	return false
}

// TripDuration is the requested trip length in days. The onboarding form sends
// it as a string ("8"), other clients send a number; both decode.
type TripDuration string

func (d *TripDuration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = TripDuration(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a string or a number: %w", err)
	}
	*d = TripDuration(n.String())
	return nil
}

// Days coerces the duration into a positive count of days.
func (d TripDuration) Days() (int, error) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return 0, fmt.Errorf("%w: duration is required", ErrInvalidRequest)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("%w: duration %q is not a whole number of days", ErrInvalidRequest, s)
		}
		n = int(f)
	}
	if n < 1 || n > MaxTripDays {
		return 0, fmt.Errorf("%w: duration must be between 1 and %d days, got %d", ErrInvalidRequest, MaxTripDays, n)
	}
	return n, nil
}

// TripPlanRequest is the travel intent collected by the onboarding form.
type TripPlanRequest struct {
	Destination string       `json:"destination" example:"Tokyo"`
	Duration    TripDuration `json:"duration" swaggertype:"string" example:"8"`
	TravelType  TravelType   `json:"travelType" example:"family"`
}

// Validate checks the request before any network call is made.
func (r *TripPlanRequest) Validate() error {
	if r == nil || strings.TrimSpace(r.Destination) == "" {
		return ErrMissingUserPrompt
	}
	if _, err := r.Duration.Days(); err != nil {
		return err
	}
	if !r.TravelType.Valid() {
		return fmt.Errorf("%w: unknown travel type %q", ErrInvalidRequest, r.TravelType)
	}
	return nil
}

// TripPlan is the validated itinerary handed to the display layer.
type TripPlan struct {
	TripInfo        TripInfo        `json:"tripInfo"`
	Accommodations  []Accommodation `json:"accommodations"`
	Activities      ActivityPlan    `json:"activities"`
	CityDescriptors []string        `json:"cityDescriptors"`
}

type TripInfo struct {
	City            string     `json:"city"`
	Country         string     `json:"country"`
	FlightInfo      FlightInfo `json:"flightInfo"`
	Duration        string     `json:"duration"`
	Size            string     `json:"size"`
	ActivitiesCount int        `json:"activitiesCount"`
	TripDates       TripDates  `json:"tripDates"`
}

type FlightInfo struct {
	DepartureDate    string `json:"departureDate"`
	DepartureTime    string `json:"departureTime"`
	DepartureAirport string `json:"departureAirport"`
	DepartureCity    string `json:"departureCity"`
	DepartureCountry string `json:"departureCountry"`
	ArrivalAirport   string `json:"arrivalAirport"`
	ArrivalCity      string `json:"arrivalCity"`
	ArrivalCountry   string `json:"arrivalCountry"`
}

// TripDates holds DD.MM.YYYY strings.
type TripDates struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Accommodation struct {
	HotelName   string `json:"hotelName"`
	RatingLabel string `json:"ratingLabel"`
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	Nights      int    `json:"nights"`
	StatusText  string `json:"statusText"`
	HotelType   string `json:"hotelType"`
}

type ActivityPlan struct {
	TotalCount int   `json:"totalCount"`
	Days       []Day `json:"days"`
}

type Day struct {
	Date       string     `json:"date"`
	Day        string     `json:"day"`
	Month      string     `json:"month"`
	IsFirstDay bool       `json:"isFirstDay"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Timing       string `json:"timing"`
	Duration     string `json:"duration"`
	PickUp       string `json:"pickUp"`
	ActivityType string `json:"activityType"`
}

// ScheduledActivities is the sum of per-day activity counts.
func (a ActivityPlan) ScheduledActivities() int {
	total := 0
	for _, d := range a.Days {
		total += len(d.Activities)
	}
	return total
}

// ErrorKind classifies a failed generation.
type ErrorKind string

const (
	KindMissingInput      ErrorKind = "missing_input"
	KindServiceError      ErrorKind = "service_error"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindSchemaViolation   ErrorKind = "schema_violation"

	// KindNotFound is only used by the HTTP layer, for cancelling an unknown generation.
	KindNotFound ErrorKind = "not_found"
)

// GenerationError is the single failure value delivered to callers.
type GenerationError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *GenerationError) Error() string { return e.Msg }

func (e *GenerationError) Unwrap() error { return e.Err }

// SemanticWarning flags an internal inconsistency in an otherwise valid plan.
type SemanticWarning struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// GenerationOutcome is Success(Plan) or Failure(Err); never both.
type GenerationOutcome struct {
	ID       uuid.UUID
	Plan     *TripPlan
	Err      *GenerationError
	Warnings []SemanticWarning
	Attempts int
}

func (o GenerationOutcome) Succeeded() bool {
	return o.Err == nil && o.Plan != nil
}

// TripPlanResponse is the HTTP success body.
type TripPlanResponse struct {
	Success      bool              `json:"success" example:"true"`
	GenerationID string            `json:"generation_id"`
	Data         *TripPlan         `json:"data"`
	Warnings     []SemanticWarning `json:"warnings,omitempty"`
}

// TripPlanErrorResponse is the HTTP failure body.
type TripPlanErrorResponse struct {
	Success      bool      `json:"success" example:"false"`
	Error        string    `json:"error" example:"Missing user prompt"`
	Kind         ErrorKind `json:"kind" example:"missing_input"`
	RequestID    string    `json:"request_id,omitempty"`
	GenerationID string    `json:"generation_id,omitempty"`
}
