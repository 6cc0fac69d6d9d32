package membership

import (
	"math"
	"time"
)

const DefaultCycleDays = 30

// Proration is illustrative arithmetic for a mid-cycle plan change. No
// money moves.
type Proration struct {
	CurrentPlanCredit float64   `json:"currentPlanCredit"`
	NewPlanCharge     float64   `json:"newPlanCharge"`
	NetAmount         float64   `json:"netAmount"`
	DaysRemaining     int       `json:"daysRemaining"`
	NextBillingDate   time.Time `json:"nextBillingDate"`
}

// ComputeProration credits the unused share of the current plan and charges
// the same share of the new one. Amounts are rounded to cents.
func ComputeProration(currentPrice, newPrice float64, daysRemaining, cycleDays int) Proration {
	if cycleDays <= 0 {
		cycleDays = DefaultCycleDays
	}
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	credit := currentPrice * float64(daysRemaining) / float64(cycleDays)
	charge := newPrice * float64(daysRemaining) / float64(cycleDays)

	return Proration{
		CurrentPlanCredit: roundCents(credit),
		NewPlanCharge:     roundCents(charge),
		NetAmount:         roundCents(charge - credit),
		DaysRemaining:     daysRemaining,
	}
}

// DaysRemaining counts started days left until cycleEnd, never negative.
func DaysRemaining(cycleEnd, now time.Time) int {
	days := math.Ceil(cycleEnd.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
