// Package stats holds the read-side rollups over finished visits and
// workouts. Everything here is pure; callers load the rows.
package stats

import (
	"math"
	"sort"
	"time"
)

const DefaultTrendDays = 30

// Visit is a closed check-in.
type Visit struct {
	CheckedInAt     time.Time `db:"checked_in_at"`
	DurationMinutes int       `db:"duration_minutes"`
}

type VisitStats struct {
	TotalVisits            int `json:"totalVisits"`
	TotalMinutes           int `json:"totalMinutes"`
	AverageDurationMinutes int `json:"averageDurationMinutes"`
	VisitsThisWeek         int `json:"visitsThisWeek"`
	VisitsThisMonth        int `json:"visitsThisMonth"`
}

// Visits rolls up closed check-ins. The week and month windows are rolling,
// [now-7d, now] and [now-1 month, now].
func Visits(visits []Visit, now time.Time) VisitStats {
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	var s VisitStats
	for _, v := range visits {
		s.TotalVisits++
		s.TotalMinutes += v.DurationMinutes
		if within(v.CheckedInAt, weekAgo, now) {
			s.VisitsThisWeek++
		}
		if within(v.CheckedInAt, monthAgo, now) {
			s.VisitsThisMonth++
		}
	}
	s.AverageDurationMinutes = average(s.TotalMinutes, s.TotalVisits)
	return s
}

// Session is a completed workout session.
type Session struct {
	CompletedAt     time.Time `db:"completed_at"`
	DurationMinutes int       `db:"duration_minutes"`
	TotalSets       int       `db:"total_sets"`
	TotalReps       int       `db:"total_reps"`
	TotalVolume     float64   `db:"total_volume"`
}

type WorkoutStats struct {
	TotalWorkouts     int     `json:"totalWorkouts"`
	TotalMinutes      int     `json:"totalMinutes"`
	TotalSets         int     `json:"totalSets"`
	TotalReps         int     `json:"totalReps"`
	TotalVolume       float64 `json:"totalVolume"`
	AverageDuration   int     `json:"averageDuration"`
	ThisWeekWorkouts  int     `json:"thisWeekWorkouts"`
	ThisWeekMinutes   int     `json:"thisWeekMinutes"`
	ThisMonthWorkouts int     `json:"thisMonthWorkouts"`
}

// Workouts rolls up completed sessions. Week and month are calendar windows
// in now's location, the week starting on Sunday.
func Workouts(sessions []Session, now time.Time) WorkoutStats {
	weekStart := WeekStart(now)
	monthStart := MonthStart(now)

	var s WorkoutStats
	for _, sess := range sessions {
		s.TotalWorkouts++
		s.TotalMinutes += sess.DurationMinutes
		s.TotalSets += sess.TotalSets
		s.TotalReps += sess.TotalReps
		s.TotalVolume += sess.TotalVolume

		if !sess.CompletedAt.Before(weekStart) {
			s.ThisWeekWorkouts++
			s.ThisWeekMinutes += sess.DurationMinutes
		}
		if !sess.CompletedAt.Before(monthStart) {
			s.ThisMonthWorkouts++
		}
	}
	s.TotalVolume = math.Round(s.TotalVolume*100) / 100
	s.AverageDuration = average(s.TotalMinutes, s.TotalWorkouts)
	return s
}

// WeekStart is the most recent Sunday at midnight.
func WeekStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// Point is one sample of a trend line.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Trend keeps the samples where value reports a measurement and orders them
// by time, oldest first.
func Trend[T any](items []T, at func(T) time.Time, value func(T) *float64) []Point {
	points := make([]Point, 0, len(items))
	for _, item := range items {
		v := value(item)
		if v == nil {
			continue
		}
		points = append(points, Point{Date: at(item), Value: *v})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// LookbackStart is the beginning of a trend window of the given days.
func LookbackStart(now time.Time, days int) time.Time {
	if days <= 0 {
		days = DefaultTrendDays
	}
	return now.AddDate(0, 0, -days)
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func average(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}
