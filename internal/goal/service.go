package goal

import (
	"context"
	"errors"
	"time"

	"fitclub/internal/api"
	"fitclub/internal/apperr"
	"fitclub/internal/events"
	"fitclub/internal/logger"

	"github.com/google/uuid"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]Goal, error)
	Get(ctx context.Context, userID uuid.UUID, id int64) (*Goal, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateGoalRequest) (*Goal, error)
	Update(ctx context.Context, userID uuid.UUID, id int64, req UpdateGoalRequest) (*Goal, error)
	// UpdateProgress records the current value and completes the goal once
	// the target is reached.
	UpdateProgress(ctx context.Context, userID uuid.UUID, id int64, req ProgressRequest) (*Goal, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

type service struct {
	repo      Repository
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher) Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

var errDateOrder = apperr.Validation("Target date must be after start date")

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Goal, error) {
	goals, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperr.Database("Failed to fetch goals", err)
	}
	return goals, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, id int64) (*Goal, error) {
	g, err := s.repo.Get(ctx, userID, id)
	if errors.Is(err, ErrGoalNotFound) {
		return nil, apperr.NotFound("Goal")
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch goal", err)
	}
	return g, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateGoalRequest) (*Goal, error) {
	start, target, err := parseRange(req.StartDate, req.TargetDate)
	if err != nil {
		return nil, err
	}

	g := &Goal{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		StartDate:   start,
		TargetDate:  target,
		Status:      StatusActive,
		CreatedAt:   s.now(),
	}
	if req.CurrentValue != nil {
		g.CurrentValue = *req.CurrentValue
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, apperr.Database("Failed to create goal", err)
	}
	logger.Info("goal created", "goal_id", g.ID, "user_id", userID, "type", g.Type)
	return g, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, id int64, req UpdateGoalRequest) (*Goal, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	changes := Changes{}
	if req.StartDate != nil || req.TargetDate != nil {
		start, target := existing.StartDate, existing.TargetDate
		if req.StartDate != nil {
			if start, err = api.ParseDate(*req.StartDate); err != nil {
				return nil, apperr.Validation("Invalid start date")
			}
			changes["start_date"] = start
		}
		if req.TargetDate != nil {
			if target, err = api.ParseDate(*req.TargetDate); err != nil {
				return nil, apperr.Validation("Invalid target date")
			}
			changes["target_date"] = target
		}
		if !target.After(start) {
			return nil, errDateOrder
		}
	}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.Type != nil {
		changes["type"] = *req.Type
	}
	if req.TargetValue != nil {
		changes["target_value"] = *req.TargetValue
	}
	if req.CurrentValue != nil {
		changes["current_value"] = *req.CurrentValue
	}
	if req.Unit != nil {
		changes["unit"] = *req.Unit
	}
	if len(changes) == 0 {
		return existing, nil
	}

	return s.update(ctx, userID, id, changes, "Failed to update goal")
}

func (s *service) UpdateProgress(ctx context.Context, userID uuid.UUID, id int64, req ProgressRequest) (*Goal, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	status := existing.Status
	if *req.CurrentValue >= existing.TargetValue {
		status = StatusCompleted
	}

	g, err := s.update(ctx, userID, id, Changes{
		"current_value": *req.CurrentValue,
		"status":        string(status),
	}, "Failed to update goal progress")
	if err != nil {
		return nil, err
	}

	if status == StatusCompleted && existing.Status != StatusCompleted {
		logger.Info("goal completed", "goal_id", id, "user_id", userID)
		if err := s.publisher.Publish(ctx, events.GoalCompleted, g); err != nil {
			logger.WithError(err).Warn("failed to publish goal event", "goal_id", id)
		}
	}
	return g, nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, ErrGoalNotFound) {
		return apperr.NotFound("Goal")
	}
	if err != nil {
		return apperr.Database("Failed to delete goal", err)
	}
	logger.Info("goal deleted", "goal_id", id, "user_id", userID)
	return nil
}

func (s *service) update(ctx context.Context, userID uuid.UUID, id int64, changes Changes, message string) (*Goal, error) {
	g, err := s.repo.Update(ctx, userID, id, changes, s.now())
	if errors.Is(err, ErrGoalNotFound) {
		return nil, apperr.NotFound("Goal")
	}
	if err != nil {
		return nil, apperr.Database(message, err)
	}
	return g, nil
}

func parseRange(startDate, targetDate string) (time.Time, time.Time, error) {
	start, err := api.ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("Invalid start date")
	}
	target, err := api.ParseDate(targetDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("Invalid target date")
	}
	if !target.After(start) {
		return time.Time{}, time.Time{}, errDateOrder
	}
	return start, target, nil
}
