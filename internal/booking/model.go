package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusWaitlist  Status = "waitlist"
	StatusCancelled Status = "cancelled"
	StatusAttended  Status = "attended"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrAlreadyBooked   = errors.New("user already has an active booking for this class")
	ErrNoWaitlist      = errors.New("no waitlisted booking")
)

type Booking struct {
	ID          int64      `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	ScheduleID  int64      `db:"class_schedule_id" json:"class_schedule_id"`
	Status      Status     `db:"status" json:"status"`
	BookedAt    time.Time  `db:"booked_at" json:"booked_at"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

// Active reports whether the booking still holds a seat or a waitlist place.
func (b *Booking) Active() bool {
	return b.Status == StatusConfirmed || b.Status == StatusWaitlist
}

type BookingWithDetails struct {
	Booking
	GymID           int64     `db:"gym_id" json:"gym_id"`
	ClassID         int64     `db:"class_id" json:"class_id"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	ClassName       string    `db:"class_name" json:"class_name"`
	ClassCategory   string    `db:"class_category" json:"class_category"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	InstructorName  *string   `db:"instructor_name" json:"instructor_name,omitempty"`
	GymName         string    `db:"gym_name" json:"gym_name"`
}

type CreateBookingRequest struct {
	ScheduleID int64 `json:"scheduleId" binding:"required,gt=0" example:"12"`
}

type ListFilter struct {
	Status   Status `form:"status" binding:"omitempty,oneof=confirmed waitlist cancelled attended"`
	Upcoming bool   `form:"upcoming"`
}

// CancelResult is the outcome of a cancellation. Promoted is nil when the
// cancelled booking was not confirmed or nobody was waiting.
type CancelResult struct {
	Booking  *Booking
	Promoted *Booking
}

type BookingResponse struct {
	Booking *BookingWithDetails `json:"booking"`
}

type BookingsResponse struct {
	Bookings []BookingWithDetails `json:"bookings"`
}

type ScheduleBookingsResponse struct {
	Bookings []Booking `json:"bookings"`
}

type CancelBookingResponse struct {
	Message string   `json:"message" example:"Booking cancelled successfully"`
	Booking *Booking `json:"booking"`
}
