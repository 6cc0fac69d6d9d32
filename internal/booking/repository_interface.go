package booking

import (
	"context"
	"time"

	"fitclub/internal/capacity"

	"github.com/google/uuid"
)

// Repository is the booking persistence. Methods called on the Repository
// passed to WithinTx's callback run in that transaction.
type Repository interface {
	capacity.Store

	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	HasActiveBooking(ctx context.Context, userID uuid.UUID, scheduleID int64) (bool, error)
	InsertBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id int64) (*Booking, error)
	LockBooking(ctx context.Context, id int64) (*Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to Status, cancelledAt *time.Time) (bool, error)
	OldestWaitlisted(ctx context.Context, scheduleID int64) (*Booking, error)

	GetBookingWithDetails(ctx context.Context, id int64) (*BookingWithDetails, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, filter ListFilter, now time.Time) ([]BookingWithDetails, error)
	ListScheduleBookings(ctx context.Context, scheduleID int64) ([]Booking, error)
}
