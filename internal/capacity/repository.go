package capacity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type store struct {
	db sqlx.ExtContext
}

// NewStore returns a Store over a *sqlx.DB or *sqlx.Tx.
func NewStore(db sqlx.ExtContext) Store {
	return &store{db: db}
}

const scheduleSelect = `
	SELECT id, gym_id, class_id, scheduled_at, capacity, spots_remaining, is_cancelled, created_at
	FROM class_schedules
	WHERE id = $1
`

func (s *store) GetSchedule(ctx context.Context, id int64) (*Schedule, error) {
	return s.getSchedule(ctx, scheduleSelect, id)
}

func (s *store) LockSchedule(ctx context.Context, id int64) (*Schedule, error) {
	return s.getSchedule(ctx, scheduleSelect+"FOR UPDATE", id)
}

func (s *store) getSchedule(ctx context.Context, query string, id int64) (*Schedule, error) {
	var schedule Schedule
	if err := sqlx.GetContext(ctx, s.db, &schedule, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

func (s *store) DecrementSpots(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE class_schedules SET spots_remaining = spots_remaining - 1
		WHERE id = $1 AND spots_remaining > 0
	`
	return s.exec(ctx, query, id)
}

func (s *store) IncrementSpots(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE class_schedules SET spots_remaining = spots_remaining + 1
		WHERE id = $1 AND spots_remaining < capacity
	`
	return s.exec(ctx, query, id)
}

func (s *store) exec(ctx context.Context, query string, args ...interface{}) (bool, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}
