package checkin

import (
	"context"
	"errors"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/db"
	"fitclub/internal/events"
	"fitclub/internal/guard"
	"fitclub/internal/logger"
	"fitclub/internal/membership"
	"fitclub/internal/metrics"
	"fitclub/internal/stats"

	"github.com/google/uuid"
)

// Memberships finds the membership a check-in is charged to.
type Memberships interface {
	Active(ctx context.Context, userID uuid.UUID) (*membership.MembershipWithGym, error)
}

type Service interface {
	CheckIn(ctx context.Context, userID uuid.UUID, gymID int64) (*CheckIn, error)
	CheckOut(ctx context.Context, userID uuid.UUID, checkInID int64) (*CheckIn, error)
	Current(ctx context.Context, userID uuid.UUID) (*CheckInWithGym, error)
	History(ctx context.Context, userID uuid.UUID, query HistoryQuery) ([]CheckInWithGym, int, error)
	Stats(ctx context.Context, userID uuid.UUID) (stats.VisitStats, error)
}

type service struct {
	repo        Repository
	memberships Memberships
	publisher   events.Publisher
	guard       *guard.Guard[*CheckIn, Repository]
	now         func() time.Time
}

func NewService(repo Repository, memberships Memberships, publisher events.Publisher) Service {
	return newService(repo, memberships, publisher, time.Now)
}

func newService(repo Repository, memberships Memberships, publisher events.Publisher, now func() time.Time) *service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		repo:        repo,
		memberships: memberships,
		publisher:   publisher,
		guard:       guard.New[*CheckIn, Repository](repo, now),
		now:         now,
	}
}

func (s *service) CheckIn(ctx context.Context, userID uuid.UUID, gymID int64) (*CheckIn, error) {
	m, err := s.memberships.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.Validation("No active membership found")
	}
	if !m.CoversGym(gymID) {
		return nil, apperr.Validation("You do not have access to this gym")
	}

	c, err := s.guard.Open(ctx, userID, func(at time.Time) *CheckIn {
		return &CheckIn{UserID: userID, GymID: gymID, MembershipID: m.ID, CheckedInAt: at}
	})
	switch {
	case errors.Is(err, guard.ErrAlreadyOpen):
		return nil, apperr.Conflict("You are already checked in")
	case db.IsForeignKeyViolation(err):
		return nil, apperr.NotFound("Gym")
	case err != nil:
		return nil, apperr.Database("Failed to check in", err)
	}

	metrics.RecordCheckIn()
	logger.Info("checked in", "check_in_id", c.ID, "user_id", userID, "gym_id", gymID)
	s.publish(ctx, events.CheckInOpened, c)
	return c, nil
}

func (s *service) CheckOut(ctx context.Context, userID uuid.UUID, checkInID int64) (*CheckIn, error) {
	c, err := s.guard.Close(ctx, userID, checkInID, func(_ Repository, c *CheckIn, at time.Time) error {
		minutes := guard.DurationMinutes(c.CheckedInAt, at)
		c.CheckedOutAt = &at
		c.DurationMinutes = &minutes
		return nil
	})
	if errors.Is(err, guard.ErrNotOpen) {
		return nil, apperr.NotFound("Active check-in")
	}
	if err != nil {
		return nil, apperr.Database("Failed to check out", err)
	}

	metrics.RecordCheckOut(*c.DurationMinutes)
	logger.Info("checked out", "check_in_id", c.ID, "user_id", userID, "duration_minutes", *c.DurationMinutes)
	s.publish(ctx, events.CheckInClosed, c)
	return c, nil
}

func (s *service) publish(ctx context.Context, key string, c *CheckIn) {
	if err := s.publisher.Publish(ctx, key, c); err != nil {
		logger.WithError(err).Warn("failed to publish check-in event", "routing_key", key, "check_in_id", c.ID)
	}
}

func (s *service) Current(ctx context.Context, userID uuid.UUID) (*CheckInWithGym, error) {
	c, err := s.repo.Current(ctx, userID)
	if errors.Is(err, guard.ErrNotOpen) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch current check-in", err)
	}
	return c, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, query HistoryQuery) ([]CheckInWithGym, int, error) {
	query.normalize()
	checkIns, total, err := s.repo.History(ctx, userID, query.Limit, query.Offset)
	if err != nil {
		return nil, 0, apperr.Database("Failed to fetch check-in history", err)
	}
	return checkIns, total, nil
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (stats.VisitStats, error) {
	visits, err := s.repo.ClosedVisits(ctx, userID)
	if err != nil {
		return stats.VisitStats{}, apperr.Database("Failed to fetch check-in stats", err)
	}
	return stats.Visits(visits, s.now()), nil
}
