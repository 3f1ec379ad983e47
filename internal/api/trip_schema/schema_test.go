package tripSchema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const validPlan = `{
  "tripInfo": {
    "city": "Tokyo", "country": "Japan",
    "flightInfo": {
      "departureDate": "20.10.2026", "departureTime": "09:00 am",
      "departureAirport": "LIS", "departureCity": "Lisbon", "departureCountry": "Portugal",
      "arrivalAirport": "HND", "arrivalCity": "Tokyo", "arrivalCountry": "Japan"
    },
    "duration": "2 days", "size": "4 (2M,2F)", "activitiesCount": 2,
    "tripDates": {"start": "20.10.2026", "end": "22.10.2026"}
  },
  "accommodations": [{
    "hotelName": "Andaz Tokyo", "ratingLabel": "Excellent",
    "checkIn": "20.10.2026, 03:00 pm", "checkOut": "22.10.2026, 11:00 am",
    "nights": 2, "statusText": "Confirmed", "hotelType": "Luxury Hotel"
  }],
  "activities": {
    "totalCount": 2,
    "days": [
      {"date": "20", "day": "Tue", "month": "OCT", "isFirstDay": true, "activities": [
        {"title": "Senso-ji", "description": "Old temple.", "timing": "8:00 AM", "duration": "2 hours", "pickUp": "From Hotel", "activityType": "Temple Visit"}
      ]},
      {"date": "21", "day": "Wed", "month": "OCT", "isFirstDay": false, "activities": [
        {"title": "Ginza", "description": "Shopping.", "timing": "10:00 AM", "duration": "3 hours", "pickUp": "From Hotel", "activityType": "Shopping"}
      ]}
    ]
  },
  "cityDescriptors": ["Tokyo Tower", "neon streets", "temples"]
}`

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func violationOf(t *testing.T, err error) *Violation {
	t.Helper()
	var v *Violation
	require.True(t, errors.As(err, &v), "expected *Violation, got %v", err)
	return v
}

func TestValidate_ValidPlan(t *testing.T) {
	assert.NoError(t, TripPlanSchema().Validate(decode(t, validPlan)))
}

func TestValidate_FirstViolationInDeclarationOrder(t *testing.T) {
	schema := TripPlanSchema()

	tests := []struct {
		name     string
		mutate   func(v map[string]any)
		wantPath string
	}{
		{
			name: "missing root field",
			mutate: func(v map[string]any) {
				delete(v, "activities")
			},
			wantPath: "activities",
		},
		{
			name: "earlier sibling wins",
			mutate: func(v map[string]any) {
				delete(v, "cityDescriptors")
				delete(v["tripInfo"].(map[string]any), "country")
			},
			wantPath: "tripInfo.country",
		},
		{
			name: "nested flight field",
			mutate: func(v map[string]any) {
				flight := v["tripInfo"].(map[string]any)["flightInfo"].(map[string]any)
				delete(flight, "arrivalAirport")
				delete(flight, "arrivalCountry")
			},
			wantPath: "tripInfo.flightInfo.arrivalAirport",
		},
		{
			name: "null counts as missing",
			mutate: func(v map[string]any) {
				v["tripInfo"].(map[string]any)["city"] = nil
			},
			wantPath: "tripInfo.city",
		},
		{
			name: "wrong primitive type",
			mutate: func(v map[string]any) {
				v["accommodations"].([]any)[0].(map[string]any)["nights"] = "two"
			},
			wantPath: "accommodations[0].nights",
		},
		{
			name: "fractional integer",
			mutate: func(v map[string]any) {
				v["activities"].(map[string]any)["totalCount"] = 2.5
			},
			wantPath: "activities.totalCount",
		},
		{
			name: "array item field",
			mutate: func(v map[string]any) {
				days := v["activities"].(map[string]any)["days"].([]any)
				delete(days[1].(map[string]any)["activities"].([]any)[0].(map[string]any), "pickUp")
			},
			wantPath: "activities.days[1].activities[0].pickUp",
		},
		{
			name: "boolean expected",
			mutate: func(v map[string]any) {
				days := v["activities"].(map[string]any)["days"].([]any)
				days[0].(map[string]any)["isFirstDay"] = "yes"
			},
			wantPath: "activities.days[0].isFirstDay",
		},
		{
			name: "empty accommodations",
			mutate: func(v map[string]any) {
				v["accommodations"] = []any{}
			},
			wantPath: "accommodations",
		},
		{
			name: "too few descriptors",
			mutate: func(v map[string]any) {
				v["cityDescriptors"] = []any{"a", "b"}
			},
			wantPath: "cityDescriptors",
		},
		{
			name: "too many descriptors",
			mutate: func(v map[string]any) {
				many := make([]any, 11)
				for i := range many {
					many[i] = "d"
				}
				v["cityDescriptors"] = many
			},
			wantPath: "cityDescriptors",
		},
		{
			name: "descriptor item type",
			mutate: func(v map[string]any) {
				v["cityDescriptors"] = []any{"a", "b", 3.0}
			},
			wantPath: "cityDescriptors[2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decode(t, validPlan)
			tt.mutate(v)
			err := schema.Validate(v)
			require.Error(t, err)
			assert.Equal(t, tt.wantPath, violationOf(t, err).Path)
		})
	}
}

func TestValidate_RootMustBeObject(t *testing.T) {
	err := TripPlanSchema().Validate([]any{})
	v := violationOf(t, err)
	assert.Equal(t, "(root)", v.Path)
	assert.Contains(t, v.Reason, "expected object, got array")
}

func TestValidate_Integer(t *testing.T) {
	n := &Node{Type: TypeInteger}
	for _, ok := range []any{json.Number("3"), json.Number("3.0"), json.Number("1e1"), json.Number("-2"), 4.0} {
		assert.NoError(t, n.Validate(ok), "%v", ok)
	}
	for _, bad := range []any{json.Number("3.5"), json.Number("2.5e-1"), json.Number("1e300"), 2.5} {
		err := n.Validate(bad)
		require.Error(t, err, "%v", bad)
		assert.Contains(t, violationOf(t, err).Reason, "expected integer")
	}
}

func TestNormalize_WholeNumbers(t *testing.T) {
	v := decode(t, validPlan)
	v["accommodations"].([]any)[0].(map[string]any)["nights"] = json.Number("2.0")
	v["activities"].(map[string]any)["totalCount"] = json.Number("1e1")
	v["tripInfo"].(map[string]any)["activitiesCount"] = 2.0

	schema := TripPlanSchema()
	require.NoError(t, schema.Validate(v))
	out := schema.Normalize(v).(map[string]any)

	assert.Equal(t, json.Number("2"), out["accommodations"].([]any)[0].(map[string]any)["nights"])
	assert.Equal(t, json.Number("10"), out["activities"].(map[string]any)["totalCount"])
	assert.Equal(t, json.Number("2"), out["tripInfo"].(map[string]any)["activitiesCount"])
	assert.Equal(t, "Tokyo", out["tripInfo"].(map[string]any)["city"])
}

func TestToGenAI(t *testing.T) {
	s := TripPlanSchema().ToGenAI()

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"tripInfo", "accommodations", "activities", "cityDescriptors"}, s.Required)
	assert.Equal(t, s.Required, s.PropertyOrdering)

	acc := s.Properties["accommodations"]
	require.NotNil(t, acc)
	assert.Equal(t, genai.TypeArray, acc.Type)
	require.NotNil(t, acc.MinItems)
	assert.Equal(t, int64(1), *acc.MinItems)
	assert.Nil(t, acc.MaxItems)
	assert.Equal(t, genai.TypeInteger, acc.Items.Properties["nights"].Type)

	desc := s.Properties["cityDescriptors"]
	assert.Equal(t, int64(3), *desc.MinItems)
	assert.Equal(t, int64(10), *desc.MaxItems)
	assert.Equal(t, genai.TypeString, desc.Items.Type)

	flight := s.Properties["tripInfo"].Properties["flightInfo"]
	assert.Len(t, flight.Required, 8)
}

func TestToJSONSchema(t *testing.T) {
	s := TripPlanSchema().ToJSONSchema()

	assert.Equal(t, "object", s["type"])
	assert.Equal(t, []string{"tripInfo", "accommodations", "activities", "cityDescriptors"}, s["required"])

	props := s["properties"].(map[string]any)
	desc := props["cityDescriptors"].(map[string]any)
	assert.Equal(t, 3, desc["minItems"])
	assert.Equal(t, 10, desc["maxItems"])

	// must survive a JSON round trip to be usable as a request body
	_, err := json.Marshal(s)
	assert.NoError(t, err)
}

func TestProperty(t *testing.T) {
	schema := TripPlanSchema()
	require.NotNil(t, schema.Property("tripInfo"))
	assert.Equal(t, TypeObject, schema.Property("tripInfo").Type)
	assert.Nil(t, schema.Property("nope"))
}
