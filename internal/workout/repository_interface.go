package workout

import (
	"context"

	"fitclub/internal/stats"

	"github.com/google/uuid"
)

// Repository satisfies guard.Store for workout sessions, and also covers the
// exercise library, workout plans and set logs.
type Repository interface {
	FindOpen(ctx context.Context, userID uuid.UUID) (*Session, error)
	InsertOpen(ctx context.Context, s *Session) error
	LockOpen(ctx context.Context, userID uuid.UUID, id int64) (*Session, error)
	MarkClosed(ctx context.Context, s *Session) (bool, error)
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	ListExercises(ctx context.Context, filter ExerciseFilter) ([]Exercise, error)

	ListWorkouts(ctx context.Context, userID uuid.UUID) ([]Workout, error)
	ListPublicWorkouts(ctx context.Context) ([]Workout, error)
	GetWorkout(ctx context.Context, id int64, userID uuid.UUID) (*Workout, error)
	CreateWorkout(ctx context.Context, w *Workout) error

	InsertLog(ctx context.Context, l *Log) error
	ListLogs(ctx context.Context, sessionID int64) ([]Log, error)

	History(ctx context.Context, userID uuid.UUID, filter HistoryFilter) ([]Session, int, error)
	CompletedSessions(ctx context.Context, userID uuid.UUID) ([]stats.Session, error)
}
