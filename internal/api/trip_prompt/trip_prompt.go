package tripPrompt

import (
	"fmt"
	"strings"
	"time"

	tripSchema "github.com/FACorreiaa/go-trip-planner/internal/api/trip_schema"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	isoDate             = "2006-01-02"
	tripDate            = "02.01.2006"
	Accommodations      = 3
	MinActivitiesPerDay = 2
	MaxActivitiesPerDay = 3
)

var partyHints = map[types.TravelType]string{
	types.TravelSolo:    "a solo traveller (group size 1)",
	types.TravelCouple:  "a couple (group size 2, e.g. \"2 (1M,1F)\")",
	types.TravelFamily:  "a family (e.g. \"4 (2M,2F)\" for two adults and two children)",
	types.TravelFriends: "a group of friends (e.g. \"4 (2M,2F)\")",
}

// Synthesize builds the generation instruction for a trip request. It is a
// pure function of its inputs.
func Synthesize(req types.TripPlanRequest, today time.Time) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	days, _ := req.Duration.Days()
	travelType := req.TravelType.Normalize()
	destination := strings.TrimSpace(req.Destination)

	return fmt.Sprintf(`
      Parse the following user input and generate a detailed trip plan: "%s for %d days with %s".
      The travellers are %s.

      Create a comprehensive trip plan with the following structure:

      1. Trip Information (tripInfo):
         - City and country name
         - Flight details (flightInfo): departure date, departure time, departure airport, city and country,
           arrival airport, city and country. Use realistic IATA airport codes.
         - Trip duration in days ("%d days")
         - Group size (e.g., "4 (2M,2F)" for 2 males and 2 females)
         - Number of activities planned (activitiesCount)
         - Trip start and end dates (tripDates, formatted as DD.MM.YYYY)

      2. Accommodations:
         - Generate %d realistic accommodations, in stay order, with:
           * Hotel name (realistic and specific to the location)
           * Rating label (e.g., "Very good", "Excellent")
           * Check-in and check-out dates and times (formatted as DD.MM.YYYY, HH:MM am/pm)
           * Number of nights, a whole number equal to the days between check-in and check-out
           * Status text (e.g., "Confirmed")
           * Hotel type (e.g., "Luxury Hotel", "Boutique Hotel", "Resort") for image search purposes

      3. Activities:
         - Total number of activities (totalCount), equal to the sum of activities over all days
         - Day-by-day breakdown, exactly %d days in chronological order:
           * Date (DD format)
           * Day (three-letter format: Sun, Mon, etc.)
           * Month (three-letter format: JAN, FEB, etc.)
           * isFirstDay set to true for the first day only
           * %d-%d detailed activities per day with:
             - Activity title (specific to the destination)
             - Short description (2-3 sentences) for image search purposes
             - Timing (e.g., "8:00 AM")
             - Duration (e.g., "2 hours")
             - Pick-up information (e.g., "From Hotel")
             - Activity type (e.g., "Temple Visit", "Shopping", "Museum", "Beach") for image search purposes

      4. City Descriptors (cityDescriptors):
         - List of %d-%d unique keywords or short phrases that best describe this city (for image search purposes)
         - Include landmarks, architectural styles, natural features, etc.

      Base all trip details on %s, or suggest a popular tourist destination if it is not a real place.
      Format every date as DD.MM.YYYY.
      Make sure dates are realistic and sequential, starting on or after the current date %s (%s).
      Ensure all times and schedules make logical sense for the destination.
      Output as JSON following the provided schema. Every one of these fields is required:
%s
    `,
		destination, days, travelType, partyHints[travelType],
		days,
		Accommodations,
		days, MinActivitiesPerDay, MaxActivitiesPerDay,
		tripSchema.MinCityDescriptors, tripSchema.MaxCityDescriptors,
		destination,
		today.Format(isoDate), today.Format(tripDate),
		fieldChecklist(tripSchema.TripPlanSchema()),
	), nil
}

// fieldChecklist lists every required field of the schema, one per line, in
// declaration order.
func fieldChecklist(root *tripSchema.Node) string {
	var b strings.Builder
	var walk func(n *tripSchema.Node, path string)
	walk = func(n *tripSchema.Node, path string) {
		switch n.Type {
		case tripSchema.TypeObject:
			for _, p := range n.Properties {
				if !p.Required {
					continue
				}
				child := p.Name
				if path != "" {
					child = path + "." + p.Name
				}
				fmt.Fprintf(&b, "      - %s (%s): %s\n", child, p.Schema.Type, p.Schema.Description)
				walk(p.Schema, child)
			}
		case tripSchema.TypeArray:
			if n.Items != nil {
				walk(n.Items, path+"[]")
			}
		}
	}
	walk(root, "")
	return strings.TrimRight(b.String(), "\n")
}
