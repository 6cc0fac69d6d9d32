package checkin

import (
	"time"

	"github.com/google/uuid"
)

type CheckIn struct {
	ID              int64      `db:"id" json:"id"`
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	GymID           int64      `db:"gym_id" json:"gym_id"`
	MembershipID    int64      `db:"membership_id" json:"membership_id"`
	CheckedInAt     time.Time  `db:"checked_in_at" json:"checked_in_at"`
	CheckedOutAt    *time.Time `db:"checked_out_at" json:"checked_out_at"`
	DurationMinutes *int       `db:"duration_minutes" json:"duration_minutes"`
}

type CheckInWithGym struct {
	CheckIn
	GymName string `db:"gym_name" json:"gym_name"`
	GymCity string `db:"gym_city" json:"gym_city"`
}

type CheckInRequest struct {
	GymID int64 `json:"gymId" binding:"required,gt=0" example:"1"`
}

// CheckOutRequest is optional; without an id the open check-in is closed.
type CheckOutRequest struct {
	CheckInID int64 `json:"checkInId" binding:"omitempty,gt=0"`
}

type HistoryQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

func (q *HistoryQuery) normalize() {
	if q.Limit == 0 {
		q.Limit = 20
	}
}

type CheckInResponse struct {
	CheckIn *CheckIn `json:"checkIn"`
}

type CurrentCheckInResponse struct {
	CheckIn *CheckInWithGym `json:"checkIn"`
}

type CheckOutResponse struct {
	CheckIn         *CheckIn `json:"checkIn"`
	DurationMinutes int      `json:"durationMinutes"`
	Message         string   `json:"message" example:"Checked out successfully"`
}

type HistoryResponse struct {
	CheckIns []CheckInWithGym `json:"checkIns"`
	Total    int              `json:"total"`
}
