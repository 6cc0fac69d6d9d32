package goal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const goalColumns = `id, user_id, name, description, type, target_value, current_value, unit,
	start_date, target_date, status, created_at, updated_at`

var updatable = map[string]bool{
	"name":          true,
	"description":   true,
	"type":          true,
	"target_value":  true,
	"current_value": true,
	"unit":          true,
	"start_date":    true,
	"target_date":   true,
	"status":        true,
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, userID uuid.UUID) ([]Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	goals := []Goal{}
	if err := r.db.SelectContext(ctx, &goals, query, userID); err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *repository) Get(ctx context.Context, userID uuid.UUID, id int64) (*Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE id = $1 AND user_id = $2
	`

	var g Goal
	err := r.db.GetContext(ctx, &g, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) Create(ctx context.Context, g *Goal) error {
	query := `
		INSERT INTO goals (user_id, name, description, type, target_value, current_value, unit,
			start_date, target_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		g.UserID, g.Name, g.Description, g.Type, g.TargetValue, g.CurrentValue, g.Unit,
		g.StartDate, g.TargetDate, g.Status, g.CreatedAt,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

func (r *repository) Update(ctx context.Context, userID uuid.UUID, id int64, changes Changes, now time.Time) (*Goal, error) {
	columns := make([]string, 0, len(changes))
	for col := range changes {
		if !updatable[col] {
			return nil, fmt.Errorf("goal column %q is not updatable", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := []string{"updated_at = $1"}
	args := []interface{}{now}
	for _, col := range columns {
		args = append(args, changes[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, id, userID)

	query := fmt.Sprintf(`UPDATE goals SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), goalColumns)

	var g Goal
	err := r.db.GetContext(ctx, &g, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGoalNotFound
	}
	return nil
}
