package tripParser

import (
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const dateLayout = "02.01.2006"

// Warning codes.
const (
	WarnFirstDayCount       = "first_day_count"
	WarnFirstDayPosition    = "first_day_position"
	WarnNightsNotPositive   = "nights_not_positive"
	WarnNightsMismatch      = "nights_mismatch"
	WarnEmptyDescriptor     = "empty_descriptor"
	WarnDuplicateDescriptor = "duplicate_descriptor"
	WarnTotalCountMismatch  = "total_count_mismatch"
	WarnActivitiesCount     = "activities_count_mismatch"
	WarnDateOrder           = "date_order"
	WarnPastStart           = "start_before_today"
	WarnDayCount            = "day_count_mismatch"
)

// CheckSemantics runs the soft consistency checks on a plan that already
// passed schema validation. It never rejects the plan. requestedDays may be 0
// when the requested duration is unknown.
func CheckSemantics(plan *types.TripPlan, today time.Time, requestedDays int) []types.SemanticWarning {
	if plan == nil {
		return nil
	}
	var warnings []types.SemanticWarning
	add := func(code, field, format string, args ...any) {
		warnings = append(warnings, types.SemanticWarning{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	days := plan.Activities.Days
	firstDays := 0
	for i, d := range days {
		if !d.IsFirstDay {
			continue
		}
		firstDays++
		if i != 0 {
			add(WarnFirstDayPosition, fmt.Sprintf("activities.days[%d].isFirstDay", i),
				"day %d is flagged as the first day but is not the chronologically first entry", i)
		}
	}
	if len(days) > 0 && firstDays != 1 {
		add(WarnFirstDayCount, "activities.days", "expected exactly one first day, found %d", firstDays)
	}
	if requestedDays > 0 && len(days) != requestedDays {
		add(WarnDayCount, "activities.days", "expected %d day entries, found %d", requestedDays, len(days))
	}

	for i, a := range plan.Accommodations {
		field := fmt.Sprintf("accommodations[%d].nights", i)
		if a.Nights <= 0 {
			add(WarnNightsNotPositive, field, "nights must be positive, got %d", a.Nights)
			continue
		}
		in, inOK := parseDate(a.CheckIn)
		out, outOK := parseDate(a.CheckOut)
		if inOK && outOK {
			if span := int(out.Sub(in).Hours() / 24); span != a.Nights {
				add(WarnNightsMismatch, field, "nights is %d but check-in to check-out spans %d", a.Nights, span)
			}
		}
	}

	seen := make(map[string]int, len(plan.CityDescriptors))
	for i, d := range plan.CityDescriptors {
		key := strings.ToLower(strings.TrimSpace(d))
		field := fmt.Sprintf("cityDescriptors[%d]", i)
		if key == "" {
			add(WarnEmptyDescriptor, field, "descriptor is empty")
			continue
		}
		if prev, dup := seen[key]; dup {
			add(WarnDuplicateDescriptor, field, "duplicates cityDescriptors[%d]", prev)
			continue
		}
		seen[key] = i
	}

	scheduled := plan.Activities.ScheduledActivities()
	if plan.Activities.TotalCount != scheduled {
		add(WarnTotalCountMismatch, "activities.totalCount", "totalCount is %d but %d activities are scheduled", plan.Activities.TotalCount, scheduled)
	}
	if plan.TripInfo.ActivitiesCount != plan.Activities.TotalCount {
		add(WarnActivitiesCount, "tripInfo.activitiesCount", "activitiesCount is %d but totalCount is %d", plan.TripInfo.ActivitiesCount, plan.Activities.TotalCount)
	}

	start, startOK := parseDate(plan.TripInfo.TripDates.Start)
	end, endOK := parseDate(plan.TripInfo.TripDates.End)
	if startOK && endOK && end.Before(start) {
		add(WarnDateOrder, "tripInfo.tripDates", "end %s is before start %s", plan.TripInfo.TripDates.End, plan.TripInfo.TripDates.Start)
	}
	if startOK {
		y, m, d := today.Date()
		if start.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
			add(WarnPastStart, "tripInfo.tripDates.start", "trip starts %s, before today", plan.TripInfo.TripDates.Start)
		}
	}

	return warnings
}

// parseDate reads the DD.MM.YYYY prefix of a date or "date, time" string.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
