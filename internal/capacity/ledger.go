// Package capacity tracks the seats left on each class schedule instance and
// decides whether a new booking is confirmed or waitlisted.
package capacity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Decision string

const (
	Confirmed Decision = "confirmed"
	Waitlist  Decision = "waitlist"
)

var (
	ErrScheduleNotFound  = errors.New("class schedule not found")
	ErrScheduleCancelled = errors.New("this class has been cancelled")
	ErrScheduleStarted   = errors.New("cannot book a class that has already started")
	ErrCapacityInvariant = errors.New("capacity ledger out of bounds")
)

type Schedule struct {
	ID             int64     `db:"id" json:"id"`
	GymID          int64     `db:"gym_id" json:"gym_id"`
	ClassID        int64     `db:"class_id" json:"class_id"`
	ScheduledAt    time.Time `db:"scheduled_at" json:"scheduled_at"`
	Capacity       int       `db:"capacity" json:"capacity"`
	SpotsRemaining int       `db:"spots_remaining" json:"spots_remaining"`
	IsCancelled    bool      `db:"is_cancelled" json:"is_cancelled"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Bookable reports whether new bookings may be taken at now.
func (s *Schedule) Bookable(now time.Time) error {
	if s.IsCancelled {
		return ErrScheduleCancelled
	}
	if !s.ScheduledAt.After(now) {
		return ErrScheduleStarted
	}
	return nil
}

// Store is the persistence the ledger needs. Implementations run inside the
// caller's transaction; Decrement and Increment are conditional and report
// whether a row changed. LockSchedule holds the schedule row until the
// transaction ends.
type Store interface {
	GetSchedule(ctx context.Context, id int64) (*Schedule, error)
	LockSchedule(ctx context.Context, id int64) (*Schedule, error)
	DecrementSpots(ctx context.Context, id int64) (bool, error)
	IncrementSpots(ctx context.Context, id int64) (bool, error)
}

type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: store, now: now}
}

// TryReserve takes a seat when one is left. Only a confirmed decision changes
// spots_remaining. The schedule row stays locked until commit, so a waitlist
// decision cannot interleave with a concurrent Release and promotion.
func (l *Ledger) TryReserve(ctx context.Context, scheduleID int64) (Decision, error) {
	schedule, err := l.store.LockSchedule(ctx, scheduleID)
	if err != nil {
		return "", err
	}
	if err := schedule.Bookable(l.now()); err != nil {
		return "", err
	}

	taken, err := l.store.DecrementSpots(ctx, scheduleID)
	if err != nil {
		return "", fmt.Errorf("reserve seat on schedule %d: %w", scheduleID, err)
	}
	if taken {
		return Confirmed, nil
	}
	return Waitlist, nil
}

// Release returns a seat freed by a confirmed booking. It locks the schedule
// row first, so the promotion that follows sees every committed waitlist entry.
func (l *Ledger) Release(ctx context.Context, scheduleID int64) error {
	if _, err := l.store.LockSchedule(ctx, scheduleID); err != nil {
		return fmt.Errorf("release seat on schedule %d: %w", scheduleID, err)
	}
	released, err := l.store.IncrementSpots(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("release seat on schedule %d: %w", scheduleID, err)
	}
	if !released {
		return fmt.Errorf("release seat on schedule %d: %w", scheduleID, ErrCapacityInvariant)
	}
	return nil
}

// Consume hands a just-released seat to a promoted booking.
func (l *Ledger) Consume(ctx context.Context, scheduleID int64) error {
	taken, err := l.store.DecrementSpots(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("consume seat on schedule %d: %w", scheduleID, err)
	}
	if !taken {
		return fmt.Errorf("consume seat on schedule %d: %w", scheduleID, ErrCapacityInvariant)
	}
	return nil
}
