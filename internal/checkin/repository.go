package checkin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitclub/internal/db"
	"fitclub/internal/guard"
	"fitclub/internal/stats"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const openCheckInIndex = "check_ins_one_open_per_user"

const checkInColumns = `id, user_id, gym_id, membership_id, checked_in_at, checked_out_at, duration_minutes`

const withGymSelect = `
	SELECT c.id, c.user_id, c.gym_id, c.membership_id, c.checked_in_at, c.checked_out_at, c.duration_minutes,
		g.name AS gym_name, g.city AS gym_city
	FROM check_ins c
	JOIN gyms g ON g.id = c.gym_id
`

type repository struct {
	ext sqlx.ExtContext
	db  *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{ext: conn, db: conn}
}

func (r *repository) WithinTx(ctx context.Context, fn func(tx Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&repository{ext: tx})
	})
}

func (r *repository) FindOpen(ctx context.Context, userID uuid.UUID) (*CheckIn, error) {
	var c CheckIn
	err := sqlx.GetContext(ctx, r.ext, &c, `
		SELECT `+checkInColumns+`
		FROM check_ins
		WHERE user_id = $1 AND checked_out_at IS NULL
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, guard.ErrNotOpen
	}
	if err != nil {
		return nil, fmt.Errorf("find open check-in: %w", err)
	}
	return &c, nil
}

func (r *repository) InsertOpen(ctx context.Context, c *CheckIn) error {
	err := sqlx.GetContext(ctx, r.ext, &c.ID, `
		INSERT INTO check_ins (user_id, gym_id, membership_id, checked_in_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.UserID, c.GymID, c.MembershipID, c.CheckedInAt)
	if err != nil {
		if db.IsUniqueViolation(err, openCheckInIndex) {
			return guard.ErrAlreadyOpen
		}
		return fmt.Errorf("insert check-in: %w", err)
	}
	return nil
}

func (r *repository) LockOpen(ctx context.Context, userID uuid.UUID, id int64) (*CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE user_id = $1 AND checked_out_at IS NULL`
	args := []interface{}{userID}
	if id != 0 {
		query += ` AND id = $2`
		args = append(args, id)
	}
	query += ` FOR UPDATE`

	var c CheckIn
	err := sqlx.GetContext(ctx, r.ext, &c, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, guard.ErrNotOpen
	}
	if err != nil {
		return nil, fmt.Errorf("lock open check-in: %w", err)
	}
	return &c, nil
}

func (r *repository) MarkClosed(ctx context.Context, c *CheckIn) (bool, error) {
	result, err := r.ext.ExecContext(ctx, `
		UPDATE check_ins
		SET checked_out_at = $1, duration_minutes = $2
		WHERE id = $3 AND checked_out_at IS NULL
	`, c.CheckedOutAt, c.DurationMinutes, c.ID)
	if err != nil {
		return false, fmt.Errorf("close check-in: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *repository) Current(ctx context.Context, userID uuid.UUID) (*CheckInWithGym, error) {
	var c CheckInWithGym
	err := sqlx.GetContext(ctx, r.ext, &c, withGymSelect+`
		WHERE c.user_id = $1 AND c.checked_out_at IS NULL
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, guard.ErrNotOpen
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]CheckInWithGym, int, error) {
	var total int
	if err := sqlx.GetContext(ctx, r.ext, &total, `
		SELECT COUNT(*) FROM check_ins WHERE user_id = $1 AND checked_out_at IS NOT NULL
	`, userID); err != nil {
		return nil, 0, err
	}

	checkIns := []CheckInWithGym{}
	err := sqlx.SelectContext(ctx, r.ext, &checkIns, withGymSelect+`
		WHERE c.user_id = $1 AND c.checked_out_at IS NOT NULL
		ORDER BY c.checked_in_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return checkIns, total, nil
}

func (r *repository) ClosedVisits(ctx context.Context, userID uuid.UUID) ([]stats.Visit, error) {
	visits := []stats.Visit{}
	err := sqlx.SelectContext(ctx, r.ext, &visits, `
		SELECT checked_in_at, COALESCE(duration_minutes, 0) AS duration_minutes
		FROM check_ins
		WHERE user_id = $1 AND checked_out_at IS NOT NULL
	`, userID)
	return visits, err
}
