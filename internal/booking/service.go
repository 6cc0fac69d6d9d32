package booking

import (
	"context"
	"errors"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/capacity"
	"fitclub/internal/logger"
	"fitclub/internal/metrics"

	"github.com/google/uuid"
)

type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, scheduleID int64) (*BookingWithDetails, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, bookingID int64) (*CancelResult, error)
	ListMyBookings(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]BookingWithDetails, error)
	ListScheduleBookings(ctx context.Context, scheduleID int64) ([]Booking, error)
	MarkAttended(ctx context.Context, bookingID int64) (*Booking, error)
}

type service struct {
	repo     Repository
	notifier *Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier *Notifier) Service {
	return &service{repo: repo, notifier: notifier, now: time.Now}
}

func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, scheduleID int64) (*BookingWithDetails, error) {
	schedule, err := s.repo.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, translate(err, "Failed to fetch class schedule")
	}
	if err := schedule.Bookable(s.now()); err != nil {
		return nil, translate(err, "")
	}

	exists, err := s.repo.HasActiveBooking(ctx, userID, scheduleID)
	if err != nil {
		return nil, translate(err, "Failed to check existing bookings")
	}
	if exists {
		return nil, translate(ErrAlreadyBooked, "")
	}

	var booking *Booking
	err = s.repo.WithinTx(ctx, func(tx Repository) error {
		decision, err := capacity.NewLedger(tx, s.now).TryReserve(ctx, scheduleID)
		if err != nil {
			return err
		}

		b := &Booking{
			UserID:     userID,
			ScheduleID: scheduleID,
			Status:     Status(decision),
			BookedAt:   s.now(),
		}
		if err := tx.InsertBooking(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, translate(err, "Failed to create booking")
	}

	metrics.RecordBooking(string(booking.Status))
	logger.Info("booking created",
		"booking_id", booking.ID,
		"user_id", userID,
		"class_schedule_id", scheduleID,
		"status", booking.Status,
	)

	detail := s.details(ctx, booking)
	s.notifier.Booked(ctx, detail)
	return detail, nil
}

func (s *service) CancelBooking(ctx context.Context, userID uuid.UUID, bookingID int64) (*CancelResult, error) {
	var result CancelResult
	var previous Status

	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		b, err := tx.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrBookingNotFound
		}
		switch b.Status {
		case StatusCancelled:
			return apperr.Validation("Booking is already cancelled")
		case StatusAttended:
			return apperr.Validation("Cannot cancel a completed booking")
		}

		cancelledAt := s.now()
		ok, err := tx.UpdateStatus(ctx, b.ID, b.Status, StatusCancelled, &cancelledAt)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("Booking was modified by another request")
		}

		previous = b.Status
		b.Status = StatusCancelled
		b.CancelledAt = &cancelledAt
		result.Booking = b

		if previous != StatusConfirmed {
			return nil
		}

		ledger := capacity.NewLedger(tx, s.now)
		if err := ledger.Release(ctx, b.ScheduleID); err != nil {
			return err
		}
		promoted, err := promoteNext(ctx, tx, ledger, b.ScheduleID)
		if err != nil {
			return err
		}
		result.Promoted = promoted
		return nil
	})
	if err != nil {
		return nil, translate(err, "Failed to cancel booking")
	}

	metrics.RecordBookingCancellation(string(previous))
	logger.Info("booking cancelled", "booking_id", bookingID, "user_id", userID, "previous_status", previous)
	s.notifier.Cancelled(ctx, s.details(ctx, result.Booking))

	if result.Promoted != nil {
		metrics.RecordWaitlistPromotion()
		logger.Info("waitlist booking promoted",
			"booking_id", result.Promoted.ID,
			"class_schedule_id", result.Promoted.ScheduleID,
		)
		s.notifier.Promoted(ctx, s.details(ctx, result.Promoted))
	}

	return &result, nil
}

// promoteNext confirms the longest-waiting booking and hands it the seat
// just released. A candidate whose status changed under us is skipped.
func promoteNext(ctx context.Context, tx Repository, ledger *capacity.Ledger, scheduleID int64) (*Booking, error) {
	for {
		candidate, err := tx.OldestWaitlisted(ctx, scheduleID)
		if errors.Is(err, ErrNoWaitlist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		ok, err := tx.UpdateStatus(ctx, candidate.ID, StatusWaitlist, StatusConfirmed, nil)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if err := ledger.Consume(ctx, scheduleID); err != nil {
			return nil, err
		}
		candidate.Status = StatusConfirmed
		return candidate, nil
	}
}

func (s *service) ListMyBookings(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]BookingWithDetails, error) {
	bookings, err := s.repo.ListUserBookings(ctx, userID, filter, s.now())
	if err != nil {
		return nil, apperr.Database("Failed to fetch bookings", err)
	}
	return bookings, nil
}

func (s *service) ListScheduleBookings(ctx context.Context, scheduleID int64) ([]Booking, error) {
	if _, err := s.repo.GetSchedule(ctx, scheduleID); err != nil {
		return nil, translate(err, "Failed to fetch class schedule")
	}
	bookings, err := s.repo.ListScheduleBookings(ctx, scheduleID)
	if err != nil {
		return nil, apperr.Database("Failed to fetch bookings", err)
	}
	return bookings, nil
}

func (s *service) MarkAttended(ctx context.Context, bookingID int64) (*Booking, error) {
	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, translate(err, "Failed to fetch booking")
	}
	if b.Status != StatusConfirmed {
		return nil, apperr.Validation("Only confirmed bookings can be marked as attended")
	}

	ok, err := s.repo.UpdateStatus(ctx, b.ID, StatusConfirmed, StatusAttended, nil)
	if err != nil {
		return nil, apperr.Database("Failed to update booking", err)
	}
	if !ok {
		return nil, apperr.Conflict("Booking was modified by another request")
	}

	b.Status = StatusAttended
	return b, nil
}

// details attaches schedule and class data. A failed lookup degrades to the bare booking.
func (s *service) details(ctx context.Context, b *Booking) *BookingWithDetails {
	detail, err := s.repo.GetBookingWithDetails(ctx, b.ID)
	if err != nil {
		logger.WithError(err).Warn("failed to load booking details", "booking_id", b.ID)
		return &BookingWithDetails{Booking: *b}
	}
	return detail
}

func translate(err error, message string) error {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, capacity.ErrScheduleNotFound):
		return apperr.NotFound("Class schedule")
	case errors.Is(err, capacity.ErrScheduleCancelled):
		return apperr.Validation("This class has been cancelled")
	case errors.Is(err, capacity.ErrScheduleStarted):
		return apperr.Validation("This class has already started")
	case errors.Is(err, ErrAlreadyBooked):
		return apperr.Conflict("You already have a booking for this class")
	case errors.Is(err, ErrBookingNotFound):
		return apperr.NotFound("Booking")
	case errors.Is(err, capacity.ErrCapacityInvariant):
		return apperr.Internal("Class capacity is inconsistent", err)
	default:
		return apperr.Database(message, err)
	}
}
