package workout

import "math"

// Summary is the set of aggregates stamped on a session when it completes.
type Summary struct {
	Sets   int
	Reps   int
	Volume float64
}

// Summarize totals a session's logs. Missing reps count as 0 toward reps but
// as 1 when weighting volume, so weighted timed sets still add volume.
func Summarize(logs []Log) Summary {
	var s Summary
	for _, l := range logs {
		s.Sets++

		reps := 0
		if l.Reps != nil {
			reps = *l.Reps
		}
		s.Reps += reps

		if l.Weight != nil {
			multiplier := reps
			if l.Reps == nil {
				multiplier = 1
			}
			s.Volume += *l.Weight * float64(multiplier)
		}
	}
	s.Volume = math.Round(s.Volume*100) / 100
	return s
}
