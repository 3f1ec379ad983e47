package tripParser

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tripSchema "github.com/FACorreiaa/go-trip-planner/internal/api/trip_schema"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var today = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func tokyoPlan() *types.TripPlan {
	activity := func(title string) types.Activity {
		return types.Activity{
			Title:        title,
			Description:  "A short description.",
			Timing:       "9:00 AM",
			Duration:     "2 hours",
			PickUp:       "From Hotel",
			ActivityType: "Sightseeing",
		}
	}
	return &types.TripPlan{
		TripInfo: types.TripInfo{
			City:    "Tokyo",
			Country: "Japan",
			FlightInfo: types.FlightInfo{
				DepartureDate:    "20.10.2026",
				DepartureTime:    "09:00 am",
				DepartureAirport: "LIS",
				DepartureCity:    "Lisbon",
				DepartureCountry: "Portugal",
				ArrivalAirport:   "HND",
				ArrivalCity:      "Tokyo",
				ArrivalCountry:   "Japan",
			},
			Duration:        "3 days",
			Size:            "4 (2M,2F)",
			ActivitiesCount: 5,
			TripDates:       types.TripDates{Start: "20.10.2026", End: "23.10.2026"},
		},
		Accommodations: []types.Accommodation{{
			HotelName:   "Andaz Tokyo",
			RatingLabel: "Excellent",
			CheckIn:     "20.10.2026, 03:00 pm",
			CheckOut:    "23.10.2026, 11:00 am",
			Nights:      3,
			StatusText:  "Confirmed",
			HotelType:   "Luxury Hotel",
		}},
		Activities: types.ActivityPlan{
			TotalCount: 5,
			Days: []types.Day{
				{Date: "20", Day: "Tue", Month: "OCT", IsFirstDay: true, Activities: []types.Activity{activity("Senso-ji"), activity("Asakusa")}},
				{Date: "21", Day: "Wed", Month: "OCT", Activities: []types.Activity{activity("Ginza"), activity("Tsukiji")}},
				{Date: "22", Day: "Thu", Month: "OCT", Activities: []types.Activity{activity("Shibuya")}},
			},
		},
		CityDescriptors: []string{"Tokyo Tower", "neon streets", "temples", "Mount Fuji"},
	}
}

func planJSON(t *testing.T, plan *types.TripPlan) string {
	t.Helper()
	b, err := json.Marshal(plan)
	require.NoError(t, err)
	return string(b)
}

func mutated(t *testing.T, mutate func(v map[string]any)) string {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(planJSON(t, tokyoPlan())), &v))
	mutate(v)
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestParse_Valid(t *testing.T) {
	plan, err := Parse(planJSON(t, tokyoPlan()), tripSchema.TripPlanSchema())
	require.NoError(t, err)

	assert.Equal(t, "Tokyo", plan.TripInfo.City)
	assert.Len(t, plan.Accommodations, 1)
	assert.Equal(t, 3, plan.Accommodations[0].Nights)
	assert.Equal(t, plan.Activities.TotalCount, plan.Activities.ScheduledActivities())
	assert.Equal(t, tokyoPlan(), plan)
}

func TestParse_StripsCodeFence(t *testing.T) {
	raw := "```json\n" + planJSON(t, tokyoPlan()) + "\n```"
	plan, err := Parse(raw, tripSchema.TripPlanSchema())
	require.NoError(t, err)
	assert.Equal(t, "Japan", plan.TripInfo.Country)
}

func TestParse_Malformed(t *testing.T) {
	for _, raw := range []string{"not json{", "", "   ", `{"tripInfo": `, planJSON(t, tokyoPlan()) + " {}"} {
		_, err := Parse(raw, tripSchema.TripPlanSchema())
		var malformed *MalformedResponseError
		require.True(t, errors.As(err, &malformed), "raw %q: got %v", raw, err)
		assert.Contains(t, err.Error(), "malformed response")
	}
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(v map[string]any)
		wantPath string
	}{
		{"zero accommodations", func(v map[string]any) { v["accommodations"] = []any{} }, "accommodations"},
		{"missing accommodations", func(v map[string]any) { delete(v, "accommodations") }, "accommodations"},
		{"two descriptors", func(v map[string]any) { v["cityDescriptors"] = []any{"a", "b"} }, "cityDescriptors"},
		{"missing trip dates", func(v map[string]any) {
			delete(v["tripInfo"].(map[string]any), "tripDates")
		}, "tripInfo.tripDates"},
		{"string nights", func(v map[string]any) {
			v["accommodations"].([]any)[0].(map[string]any)["nights"] = "3"
		}, "accommodations[0].nights"},
		{"fractional nights", func(v map[string]any) {
			v["accommodations"].([]any)[0].(map[string]any)["nights"] = 2.5
		}, "accommodations[0].nights"},
		{"fractional total count", func(v map[string]any) {
			v["activities"].(map[string]any)["totalCount"] = 4.25
		}, "activities.totalCount"},
		{"days not an array", func(v map[string]any) {
			v["activities"].(map[string]any)["days"] = map[string]any{}
		}, "activities.days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(mutated(t, tt.mutate), tripSchema.TripPlanSchema())
			var violation *SchemaViolationError
			require.True(t, errors.As(err, &violation), "got %v", err)
			assert.Equal(t, tt.wantPath, violation.Path)
			assert.Contains(t, err.Error(), "schema violation at "+tt.wantPath)
		})
	}
}

func TestParse_WholeNumbersWithFraction(t *testing.T) {
	raw := planJSON(t, tokyoPlan())
	raw = strings.Replace(raw, `"nights":3`, `"nights":3.0`, 1)
	raw = strings.Replace(raw, `"totalCount":5`, `"totalCount":1e1`, 1)
	raw = strings.Replace(raw, `"activitiesCount":5`, `"activitiesCount":5.000`, 1)
	require.Contains(t, raw, `"nights":3.0`)
	require.Contains(t, raw, `"totalCount":1e1`)

	plan, err := Parse(raw, tripSchema.TripPlanSchema())
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Accommodations[0].Nights)
	assert.Equal(t, 10, plan.Activities.TotalCount)
	assert.Equal(t, 5, plan.TripInfo.ActivitiesCount)
	assert.Equal(t, "Tokyo", plan.TripInfo.City)
}

func TestParse_RootArray(t *testing.T) {
	_, err := Parse(`[1,2,3]`, tripSchema.TripPlanSchema())
	var violation *SchemaViolationError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "(root)", violation.Path)
}
