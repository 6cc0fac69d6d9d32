package workout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fitclub/internal/api"
	"fitclub/internal/apperr"
	"fitclub/internal/events"
	"fitclub/internal/guard"
	"fitclub/internal/logger"
	"fitclub/internal/metrics"
	"fitclub/internal/stats"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

const defaultHistoryLimit = 20

type Service interface {
	ListExercises(ctx context.Context, filter ExerciseFilter) ([]Exercise, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID) ([]Workout, error)
	ListPublicWorkouts(ctx context.Context) ([]Workout, error)
	GetWorkout(ctx context.Context, userID uuid.UUID, id int64) (*Workout, error)
	CreateWorkout(ctx context.Context, userID uuid.UUID, req CreateWorkoutRequest) (*Workout, error)

	StartSession(ctx context.Context, userID uuid.UUID, req StartSessionRequest) (*Session, error)
	ActiveSession(ctx context.Context, userID uuid.UUID) (*SessionWithLogs, error)
	LogSet(ctx context.Context, userID uuid.UUID, sessionID int64, req LogSetRequest) (*Log, error)
	CompleteSession(ctx context.Context, userID uuid.UUID, sessionID int64) (*Session, error)
	CancelSession(ctx context.Context, userID uuid.UUID, sessionID int64) (*Session, error)

	History(ctx context.Context, userID uuid.UUID, query HistoryQuery) ([]Session, int, error)
	Stats(ctx context.Context, userID uuid.UUID) (stats.WorkoutStats, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
	guard     *guard.Guard[*Session, Repository]
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher) Service {
	return newService(repo, publisher, time.Now)
}

func newService(repo Repository, publisher events.Publisher, now func() time.Time) *service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		guard:     guard.New[*Session, Repository](repo, now),
		now:       now,
	}
}

func (s *service) ListExercises(ctx context.Context, filter ExerciseFilter) ([]Exercise, error) {
	exercises, err := s.repo.ListExercises(ctx, filter)
	if err != nil {
		return nil, apperr.Database("Failed to fetch exercises", err)
	}
	return exercises, nil
}

func (s *service) ListWorkouts(ctx context.Context, userID uuid.UUID) ([]Workout, error) {
	workouts, err := s.repo.ListWorkouts(ctx, userID)
	if err != nil {
		return nil, apperr.Database("Failed to fetch workouts", err)
	}
	return workouts, nil
}

func (s *service) ListPublicWorkouts(ctx context.Context) ([]Workout, error) {
	workouts, err := s.repo.ListPublicWorkouts(ctx)
	if err != nil {
		return nil, apperr.Database("Failed to fetch public workouts", err)
	}
	return workouts, nil
}

func (s *service) GetWorkout(ctx context.Context, userID uuid.UUID, id int64) (*Workout, error) {
	w, err := s.repo.GetWorkout(ctx, id, userID)
	if errors.Is(err, ErrWorkoutNotFound) {
		return nil, apperr.NotFound("Workout")
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch workout", err)
	}
	return w, nil
}

func (s *service) CreateWorkout(ctx context.Context, userID uuid.UUID, req CreateWorkoutRequest) (*Workout, error) {
	exercises := req.Exercises
	if exercises == nil {
		exercises = []WorkoutExercise{}
	}
	raw, err := json.Marshal(exercises)
	if err != nil {
		return nil, apperr.Internal("Failed to encode workout exercises", err)
	}
	muscles := req.TargetMuscles
	if muscles == nil {
		muscles = []string{}
	}

	w := &Workout{
		UserID:            userID,
		Name:              req.Name,
		Description:       optional(req.Description),
		Category:          optional(req.Category),
		EstimatedDuration: req.EstimatedDuration,
		Difficulty:        req.Difficulty,
		TargetMuscles:     pq.StringArray(muscles),
		Exercises:         types.JSONText(raw),
		IsTemplate:        req.IsTemplate,
		IsPublic:          req.IsPublic,
		CreatedAt:         s.now(),
	}
	if err := s.repo.CreateWorkout(ctx, w); err != nil {
		return nil, apperr.Database("Failed to create workout", err)
	}
	logger.Info("workout created", "workout_id", w.ID, "user_id", userID)
	return w, nil
}

func (s *service) StartSession(ctx context.Context, userID uuid.UUID, req StartSessionRequest) (*Session, error) {
	name := quickWorkoutName
	if req.WorkoutID != nil {
		w, err := s.GetWorkout(ctx, userID, *req.WorkoutID)
		if err != nil {
			return nil, err
		}
		name = w.Name
	}

	session, err := s.guard.Open(ctx, userID, func(at time.Time) *Session {
		return &Session{
			UserID:    userID,
			WorkoutID: req.WorkoutID,
			Name:      name,
			Notes:     optional(req.Notes),
			StartedAt: at,
			Status:    StatusInProgress,
		}
	})
	if errors.Is(err, guard.ErrAlreadyOpen) {
		return nil, apperr.Conflict("You already have an active workout session")
	}
	if err != nil {
		return nil, apperr.Database("Failed to start workout session", err)
	}

	metrics.RecordWorkoutSession(string(StatusInProgress))
	logger.Info("workout session started", "session_id", session.ID, "user_id", userID)
	return session, nil
}

// ActiveSession returns the in-progress session with its logs, or nil.
func (s *service) ActiveSession(ctx context.Context, userID uuid.UUID) (*SessionWithLogs, error) {
	session, err := s.repo.FindOpen(ctx, userID)
	if errors.Is(err, guard.ErrNotOpen) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch active session", err)
	}
	logs, err := s.repo.ListLogs(ctx, session.ID)
	if err != nil {
		return nil, apperr.Database("Failed to fetch session logs", err)
	}
	return &SessionWithLogs{Session: *session, Logs: logs}, nil
}

// LogSet appends a set to the caller's in-progress session. The session row
// stays locked while the log is written so completion cannot interleave.
func (s *service) LogSet(ctx context.Context, userID uuid.UUID, sessionID int64, req LogSetRequest) (*Log, error) {
	l := &Log{
		SessionID:       sessionID,
		ExerciseID:      req.ExerciseID,
		SetNumber:       req.SetNumber,
		Reps:            req.Reps,
		Weight:          req.Weight,
		DurationSeconds: req.Duration,
		Notes:           optional(req.Notes),
		CompletedAt:     s.now(),
	}

	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		if _, err := tx.LockOpen(ctx, userID, sessionID); err != nil {
			return err
		}
		return tx.InsertLog(ctx, l)
	})
	switch {
	case errors.Is(err, guard.ErrNotOpen):
		return nil, apperr.NotFound("Active session")
	case errors.Is(err, ErrUnknownExercise):
		return nil, apperr.NotFound("Exercise")
	case err != nil:
		return nil, apperr.Database("Failed to log set", err)
	}

	metrics.RecordWorkoutSet()
	return l, nil
}

func (s *service) CompleteSession(ctx context.Context, userID uuid.UUID, sessionID int64) (*Session, error) {
	session, err := s.guard.Close(ctx, userID, sessionID, func(tx Repository, sess *Session, at time.Time) error {
		logs, err := tx.ListLogs(ctx, sess.ID)
		if err != nil {
			return err
		}
		summary := Summarize(logs)
		minutes := guard.DurationMinutes(sess.StartedAt, at)

		sess.Status = StatusCompleted
		sess.CompletedAt = &at
		sess.DurationMinutes = &minutes
		sess.TotalSets = summary.Sets
		sess.TotalReps = summary.Reps
		sess.TotalVolume = summary.Volume
		return nil
	})
	if errors.Is(err, guard.ErrNotOpen) {
		return nil, apperr.NotFound("Active session")
	}
	if err != nil {
		return nil, apperr.Database("Failed to complete workout session", err)
	}

	metrics.RecordWorkoutSession(string(StatusCompleted))
	logger.Info("workout session completed",
		"session_id", session.ID,
		"user_id", userID,
		"duration_minutes", *session.DurationMinutes,
		"total_sets", session.TotalSets,
	)
	if err := s.publisher.Publish(ctx, events.WorkoutCompleted, session); err != nil {
		logger.WithError(err).Warn("failed to publish workout event", "session_id", session.ID)
	}
	return session, nil
}

func (s *service) CancelSession(ctx context.Context, userID uuid.UUID, sessionID int64) (*Session, error) {
	session, err := s.guard.Close(ctx, userID, sessionID, func(_ Repository, sess *Session, at time.Time) error {
		sess.Status = StatusCancelled
		sess.CompletedAt = &at
		return nil
	})
	if errors.Is(err, guard.ErrNotOpen) {
		return nil, apperr.NotFound("Active session")
	}
	if err != nil {
		return nil, apperr.Database("Failed to cancel workout session", err)
	}

	metrics.RecordWorkoutSession(string(StatusCancelled))
	logger.Info("workout session cancelled", "session_id", session.ID, "user_id", userID)
	return session, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, query HistoryQuery) ([]Session, int, error) {
	filter, err := query.filter()
	if err != nil {
		return nil, 0, err
	}
	sessions, total, err := s.repo.History(ctx, userID, filter)
	if err != nil {
		return nil, 0, apperr.Database("Failed to fetch workout history", err)
	}
	return sessions, total, nil
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (stats.WorkoutStats, error) {
	sessions, err := s.repo.CompletedSessions(ctx, userID)
	if err != nil {
		return stats.WorkoutStats{}, apperr.Database("Failed to fetch workout stats", err)
	}
	return stats.Workouts(sessions, s.now()), nil
}

func (q *HistoryQuery) normalize() {
	if q.Limit == 0 {
		q.Limit = defaultHistoryLimit
	}
}

// filter resolves the query. The end date is inclusive of its whole day.
func (q HistoryQuery) filter() (HistoryFilter, error) {
	q.normalize()
	f := HistoryFilter{Limit: q.Limit, Offset: q.Offset}
	if q.StartDate != "" {
		from, err := api.ParseDate(q.StartDate)
		if err != nil {
			return f, apperr.Validation("Invalid start date")
		}
		f.From = &from
	}
	if q.EndDate != "" {
		to, err := api.ParseDate(q.EndDate)
		if err != nil {
			return f, apperr.Validation("Invalid end date")
		}
		if len(q.EndDate) == len("2006-01-02") {
			to = to.Add(24*time.Hour - time.Millisecond)
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, apperr.Validation("End date must be after start date")
	}
	return f, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
