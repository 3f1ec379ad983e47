package tripParser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func codes(warnings []types.SemanticWarning) []string {
	var out []string
	for _, w := range warnings {
		out = append(out, w.Code)
	}
	return out
}

func TestCheckSemantics_Clean(t *testing.T) {
	assert.Empty(t, CheckSemantics(tokyoPlan(), today, 3))
	assert.Nil(t, CheckSemantics(nil, today, 3))
}

func TestCheckSemantics(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *types.TripPlan)
		want   []string
	}{
		{
			name:   "two first days",
			mutate: func(p *types.TripPlan) { p.Activities.Days[1].IsFirstDay = true },
			want:   []string{WarnFirstDayPosition, WarnFirstDayCount},
		},
		{
			name:   "no first day",
			mutate: func(p *types.TripPlan) { p.Activities.Days[0].IsFirstDay = false },
			want:   []string{WarnFirstDayCount},
		},
		{
			name: "first day not first",
			mutate: func(p *types.TripPlan) {
				p.Activities.Days[0].IsFirstDay = false
				p.Activities.Days[2].IsFirstDay = true
			},
			want: []string{WarnFirstDayPosition},
		},
		{
			name:   "nights mismatch",
			mutate: func(p *types.TripPlan) { p.Accommodations[0].Nights = 2 },
			want:   []string{WarnNightsMismatch},
		},
		{
			name:   "zero nights",
			mutate: func(p *types.TripPlan) { p.Accommodations[0].Nights = 0 },
			want:   []string{WarnNightsNotPositive},
		},
		{
			name:   "unparseable check-in is not checked",
			mutate: func(p *types.TripPlan) { p.Accommodations[0].CheckIn = "Oct 20"; p.Accommodations[0].Nights = 9 },
			want:   nil,
		},
		{
			name:   "duplicate descriptor after trim",
			mutate: func(p *types.TripPlan) { p.CityDescriptors[2] = "  Tokyo Tower " },
			want:   []string{WarnDuplicateDescriptor},
		},
		{
			name:   "empty descriptor",
			mutate: func(p *types.TripPlan) { p.CityDescriptors[0] = "   " },
			want:   []string{WarnEmptyDescriptor},
		},
		{
			name: "total count mismatch",
			mutate: func(p *types.TripPlan) {
				p.Activities.TotalCount = 9
				p.TripInfo.ActivitiesCount = 9
			},
			want: []string{WarnTotalCountMismatch},
		},
		{
			name:   "activities count mismatch",
			mutate: func(p *types.TripPlan) { p.TripInfo.ActivitiesCount = 4 },
			want:   []string{WarnActivitiesCount},
		},
		{
			name:   "end before start",
			mutate: func(p *types.TripPlan) { p.TripInfo.TripDates.End = "19.10.2026" },
			want:   []string{WarnDateOrder},
		},
		{
			name: "starts in the past",
			mutate: func(p *types.TripPlan) {
				p.TripInfo.TripDates.Start = "01.10.2026"
			},
			want: []string{WarnPastStart},
		},
		{
			name:   "missing day",
			mutate: func(p *types.TripPlan) { p.Activities.Days = p.Activities.Days[:2]; p.Activities.TotalCount = 4; p.TripInfo.ActivitiesCount = 4 },
			want:   []string{WarnDayCount},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := tokyoPlan()
			tt.mutate(plan)
			assert.Equal(t, tt.want, codes(CheckSemantics(plan, today, 3)))
		})
	}
}

func TestCheckSemantics_UnknownDuration(t *testing.T) {
	plan := tokyoPlan()
	plan.Activities.Days = plan.Activities.Days[:1]
	plan.Activities.TotalCount = 2
	plan.TripInfo.ActivitiesCount = 2
	assert.Empty(t, CheckSemantics(plan, today, 0))
}
