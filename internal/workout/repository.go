package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitclub/internal/db"
	"fitclub/internal/guard"
	"fitclub/internal/stats"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const inProgressIndex = "workout_sessions_one_in_progress_per_user"

const sessionColumns = `id, user_id, workout_id, name, notes, started_at, completed_at, status,
	duration_minutes, total_sets, total_reps, total_volume`

const workoutColumns = `id, user_id, name, description, category, estimated_duration, difficulty,
	target_muscles, exercises, is_template, is_public, created_at, updated_at`

const logColumns = `id, session_id, exercise_id, set_number, reps, weight, duration_seconds, notes, completed_at`

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

func (r *repository) FindOpen(ctx context.Context, userID uuid.UUID) (*Session, error) {
	var s Session
	err := sqlx.GetContext(ctx, r.ext, &s, `
		SELECT `+sessionColumns+`
		FROM workout_sessions
		WHERE user_id = $1 AND status = 'in_progress'
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, guard.ErrNotOpen
	}
	if err != nil {
		return nil, fmt.Errorf("find active session: %w", err)
	}
	return &s, nil
}

func (r *repository) InsertOpen(ctx context.Context, s *Session) error {
	err := sqlx.GetContext(ctx, r.ext, &s.ID, `
		INSERT INTO workout_sessions (user_id, workout_id, name, notes, started_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, s.UserID, s.WorkoutID, s.Name, s.Notes, s.StartedAt, string(s.Status))
	if err != nil {
		if db.IsUniqueViolation(err, inProgressIndex) {
			return guard.ErrAlreadyOpen
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *repository) LockOpen(ctx context.Context, userID uuid.UUID, id int64) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM workout_sessions WHERE user_id = $1 AND status = 'in_progress'`
	args := []interface{}{userID}
	if id != 0 {
		query += ` AND id = $2`
		args = append(args, id)
	}
	query += ` FOR UPDATE`

	var s Session
	err := sqlx.GetContext(ctx, r.ext, &s, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, guard.ErrNotOpen
	}
	if err != nil {
		return nil, fmt.Errorf("lock active session: %w", err)
	}
	return &s, nil
}

func (r *repository) MarkClosed(ctx context.Context, s *Session) (bool, error) {
	result, err := r.ext.ExecContext(ctx, `
		UPDATE workout_sessions
		SET status = $1, completed_at = $2, duration_minutes = $3,
			total_sets = $4, total_reps = $5, total_volume = $6
		WHERE id = $7 AND status = 'in_progress'
	`, string(s.Status), s.CompletedAt, s.DurationMinutes, s.TotalSets, s.TotalReps, s.TotalVolume, s.ID)
	if err != nil {
		return false, fmt.Errorf("close session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *repository) ListExercises(ctx context.Context, filter ExerciseFilter) ([]Exercise, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Q != "" {
		conds = append(conds, "name ILIKE "+arg("%"+filter.Q+"%"))
	}
	if filter.MuscleGroup != "" {
		conds = append(conds, arg(filter.MuscleGroup)+" = ANY(muscle_groups)")
	}
	if filter.ExerciseType != "" {
		conds = append(conds, "exercise_type = "+arg(filter.ExerciseType))
	}
	if filter.Difficulty != "" {
		conds = append(conds, "difficulty = "+arg(filter.Difficulty))
	}

	query := `SELECT id, name, description, exercise_type, muscle_groups, equipment, difficulty, instructions, created_at FROM exercises`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	exercises := []Exercise{}
	if err := sqlx.SelectContext(ctx, r.ext, &exercises, query, args...); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

func (r *repository) ListWorkouts(ctx context.Context, userID uuid.UUID) ([]Workout, error) {
	workouts := []Workout{}
	err := sqlx.SelectContext(ctx, r.ext, &workouts, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return workouts, err
}

func (r *repository) ListPublicWorkouts(ctx context.Context) ([]Workout, error) {
	workouts := []Workout{}
	err := sqlx.SelectContext(ctx, r.ext, &workouts, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE is_public = true AND is_template = true
		ORDER BY created_at DESC
	`)
	return workouts, err
}

// GetWorkout returns a plan the user owns or one that is public.
func (r *repository) GetWorkout(ctx context.Context, id int64, userID uuid.UUID) (*Workout, error) {
	var w Workout
	err := sqlx.GetContext(ctx, r.ext, &w, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE id = $1 AND (user_id = $2 OR is_public = true)
	`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) CreateWorkout(ctx context.Context, w *Workout) error {
	return sqlx.GetContext(ctx, r.ext, w, `
		INSERT INTO workouts (user_id, name, description, category, estimated_duration, difficulty,
			target_muscles, exercises, is_template, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING `+workoutColumns,
		w.UserID, w.Name, w.Description, w.Category, w.EstimatedDuration, w.Difficulty,
		w.TargetMuscles, w.Exercises, w.IsTemplate, w.IsPublic, w.CreatedAt)
}

func (r *repository) InsertLog(ctx context.Context, l *Log) error {
	err := sqlx.GetContext(ctx, r.ext, &l.ID, `
		INSERT INTO workout_logs (session_id, exercise_id, set_number, reps, weight, duration_seconds, notes, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, l.SessionID, l.ExerciseID, l.SetNumber, l.Reps, l.Weight, l.DurationSeconds, l.Notes, l.CompletedAt)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrUnknownExercise
		}
		return fmt.Errorf("insert workout log: %w", err)
	}
	return nil
}

func (r *repository) ListLogs(ctx context.Context, sessionID int64) ([]Log, error) {
	logs := []Log{}
	err := sqlx.SelectContext(ctx, r.ext, &logs, `
		SELECT `+logColumns+`
		FROM workout_logs
		WHERE session_id = $1
		ORDER BY completed_at, id
	`, sessionID)
	return logs, err
}

func (r *repository) History(ctx context.Context, userID uuid.UUID, filter HistoryFilter) ([]Session, int, error) {
	where := "user_id = $1 AND status = 'completed'"
	args := []interface{}{userID}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND completed_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND completed_at <= $%d", len(args))
	}

	var total int
	if err := sqlx.GetContext(ctx, r.ext, &total, `SELECT COUNT(*) FROM workout_sessions WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	page := append(args, filter.Limit, filter.Offset)
	sessions := []Session{}
	err := sqlx.SelectContext(ctx, r.ext, &sessions, fmt.Sprintf(
		`SELECT %s FROM workout_sessions WHERE %s ORDER BY completed_at DESC LIMIT $%d OFFSET $%d`,
		sessionColumns, where, len(args)+1, len(args)+2,
	), page...)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *repository) CompletedSessions(ctx context.Context, userID uuid.UUID) ([]stats.Session, error) {
	sessions := []stats.Session{}
	err := sqlx.SelectContext(ctx, r.ext, &sessions, `
		SELECT completed_at, COALESCE(duration_minutes, 0) AS duration_minutes, total_sets, total_reps, total_volume
		FROM workout_sessions
		WHERE user_id = $1 AND status = 'completed'
	`, userID)
	return sessions, err
}
