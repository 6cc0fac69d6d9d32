package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitclub/internal/capacity"
	"fitclub/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const activeBookingIndex = "bookings_one_active_per_user"

const bookingColumns = `id, user_id, class_schedule_id, status, booked_at, cancelled_at`

const detailsSelect = `
	SELECT b.id, b.user_id, b.class_schedule_id, b.status, b.booked_at, b.cancelled_at,
		s.gym_id, s.class_id, s.scheduled_at,
		c.name AS class_name, c.category AS class_category, c.duration_minutes, c.instructor_name,
		g.name AS gym_name
	FROM bookings b
	JOIN class_schedules s ON s.id = b.class_schedule_id
	JOIN classes c ON c.id = s.class_id
	JOIN gyms g ON g.id = s.gym_id
`

type repository struct {
	capacity.Store
	ext sqlx.ExtContext
	db  *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{Store: capacity.NewStore(conn), ext: conn, db: conn}
}

func (r *repository) WithinTx(ctx context.Context, fn func(tx Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&repository{Store: capacity.NewStore(tx), ext: tx})
	})
}

func (r *repository) HasActiveBooking(ctx context.Context, userID uuid.UUID, scheduleID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE user_id = $1 AND class_schedule_id = $2 AND status IN ('confirmed', 'waitlist'))`
	return db.Exists(ctx, r.ext, query, userID, scheduleID)
}

func (r *repository) InsertBooking(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (user_id, class_schedule_id, status, booked_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := sqlx.GetContext(ctx, r.ext, &b.ID, query, b.UserID, b.ScheduleID, b.Status, b.BookedAt)
	if err != nil {
		if db.IsUniqueViolation(err, activeBookingIndex) {
			return ErrAlreadyBooked
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *repository) getBooking(ctx context.Context, id int64, lock bool) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var b Booking
	if err := sqlx.GetContext(ctx, r.ext, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	return r.getBooking(ctx, id, false)
}

func (r *repository) LockBooking(ctx context.Context, id int64) (*Booking, error) {
	return r.getBooking(ctx, id, true)
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to Status, cancelledAt *time.Time) (bool, error) {
	query := `
		UPDATE bookings SET status = $1, cancelled_at = COALESCE($2, cancelled_at)
		WHERE id = $3 AND status = $4
	`

	result, err := r.ext.ExecContext(ctx, query, to, cancelledAt, id, from)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *repository) OldestWaitlisted(ctx context.Context, scheduleID int64) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE class_schedule_id = $1 AND status = 'waitlist'
		ORDER BY booked_at, id
		LIMIT 1
	`

	var b Booking
	if err := sqlx.GetContext(ctx, r.ext, &b, query, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoWaitlist
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetBookingWithDetails(ctx context.Context, id int64) (*BookingWithDetails, error) {
	query := detailsSelect + ` WHERE b.id = $1`

	var b BookingWithDetails
	if err := sqlx.GetContext(ctx, r.ext, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListUserBookings(ctx context.Context, userID uuid.UUID, filter ListFilter, now time.Time) ([]BookingWithDetails, error) {
	conds := []string{"b.user_id = $1"}
	args := []interface{}{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if filter.Upcoming {
		args = append(args, now)
		conds = append(conds, "b.status IN ('confirmed', 'waitlist')", fmt.Sprintf("s.scheduled_at > $%d", len(args)))
	}

	query := detailsSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY b.booked_at DESC`

	bookings := []BookingWithDetails{}
	if err := sqlx.SelectContext(ctx, r.ext, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListScheduleBookings(ctx context.Context, scheduleID int64) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE class_schedule_id = $1
		ORDER BY booked_at, id
	`

	bookings := []Booking{}
	if err := sqlx.SelectContext(ctx, r.ext, &bookings, query, scheduleID); err != nil {
		return nil, err
	}
	return bookings, nil
}
