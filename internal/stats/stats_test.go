package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var now = time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

func TestVisitsEmpty(t *testing.T) {
	assert.Equal(t, VisitStats{}, Visits(nil, now))
}

func TestVisitsRollingWindows(t *testing.T) {
	visits := []Visit{
		{CheckedInAt: now.Add(-2 * time.Hour), DurationMinutes: 60},
		{CheckedInAt: now.AddDate(0, 0, -6), DurationMinutes: 45},
		{CheckedInAt: now.AddDate(0, 0, -10), DurationMinutes: 30},
		{CheckedInAt: now.AddDate(0, 0, -40), DurationMinutes: 50},
	}

	s := Visits(visits, now)
	assert.Equal(t, 4, s.TotalVisits)
	assert.Equal(t, 185, s.TotalMinutes)
	assert.Equal(t, 46, s.AverageDurationMinutes)
	assert.Equal(t, 2, s.VisitsThisWeek)
	assert.Equal(t, 3, s.VisitsThisMonth)
}

func TestVisitsAverageRoundsToNearest(t *testing.T) {
	s := Visits([]Visit{
		{CheckedInAt: now, DurationMinutes: 10},
		{CheckedInAt: now, DurationMinutes: 11},
	}, now)
	assert.Equal(t, 11, s.AverageDurationMinutes)
}

func TestWorkoutsCalendarWindows(t *testing.T) {
	sessions := []Session{
		// Sunday of this week.
		{CompletedAt: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), DurationMinutes: 40, TotalSets: 10, TotalReps: 100, TotalVolume: 1500.25},
		// Saturday of last week, still this month.
		{CompletedAt: time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC), DurationMinutes: 50, TotalSets: 12, TotalReps: 96, TotalVolume: 2000},
		// Last month.
		{CompletedAt: time.Date(2024, 2, 28, 9, 0, 0, 0, time.UTC), DurationMinutes: 31, TotalSets: 8, TotalReps: 64, TotalVolume: 800.5},
	}

	s := Workouts(sessions, now)
	assert.Equal(t, 3, s.TotalWorkouts)
	assert.Equal(t, 121, s.TotalMinutes)
	assert.Equal(t, 30, s.TotalSets)
	assert.Equal(t, 260, s.TotalReps)
	assert.InDelta(t, 4300.75, s.TotalVolume, 1e-9)
	assert.Equal(t, 40, s.AverageDuration)
	assert.Equal(t, 1, s.ThisWeekWorkouts)
	assert.Equal(t, 40, s.ThisWeekMinutes)
	assert.Equal(t, 2, s.ThisMonthWorkouts)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"wednesday", now, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"sunday itself", time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"saturday crosses month", time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.now))
		})
	}
}

func TestWeekStartKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	got := WeekStart(time.Date(2024, 3, 13, 1, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), got)
	assert.Equal(t, MonthStart(now), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
}

type sample struct {
	at     time.Time
	weight *float64
}

func f(v float64) *float64 { return &v }

func TestTrendSkipsMissingAndSorts(t *testing.T) {
	samples := []sample{
		{at: now, weight: f(80.2)},
		{at: now.AddDate(0, 0, -2), weight: nil},
		{at: now.AddDate(0, 0, -5), weight: f(81.0)},
	}

	points := Trend(samples,
		func(s sample) time.Time { return s.at },
		func(s sample) *float64 { return s.weight })

	require.Len(t, points, 2)
	assert.Equal(t, 81.0, points[0].Value)
	assert.Equal(t, 80.2, points[1].Value)
	assert.Empty(t, Trend([]sample{}, func(s sample) time.Time { return s.at }, func(s sample) *float64 { return s.weight }))
}

func TestLookbackStart(t *testing.T) {
	assert.Equal(t, now.AddDate(0, 0, -30), LookbackStart(now, 0))
	assert.Equal(t, now.AddDate(0, 0, -7), LookbackStart(now, 7))
}
