package gym

import (
	"context"
	"errors"
	"time"

	"fitclub/internal/api"
	"fitclub/internal/apperr"
	"fitclub/internal/logger"
)

type Service interface {
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int64) (*Gym, error)
	SearchGyms(ctx context.Context, query SearchQuery) ([]Gym, error)
	NearbyGyms(ctx context.Context, query NearbyQuery) ([]GymWithDistance, error)

	GetClasses(ctx context.Context, filter ClassFilter) ([]Class, error)
	GetSchedules(ctx context.Context, filter ScheduleFilter) ([]ScheduleWithClass, error)
	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*Schedule, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *service) GetAllGyms(ctx context.Context) ([]Gym, error) {
	gyms, err := s.repo.GetAllGyms(ctx)
	if err != nil {
		return nil, apperr.Database("Failed to fetch gyms", err)
	}
	return gyms, nil
}

func (s *service) GetGymByID(ctx context.Context, id int64) (*Gym, error) {
	gym, err := s.repo.GetGymByID(ctx, id)
	if errors.Is(err, ErrGymNotFound) {
		return nil, apperr.NotFound("Gym")
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch gym", err)
	}
	return gym, nil
}

func (s *service) SearchGyms(ctx context.Context, query SearchQuery) ([]Gym, error) {
	gyms, err := s.repo.SearchGyms(ctx, query.Q, query.City)
	if err != nil {
		return nil, apperr.Database("Failed to search gyms", err)
	}
	return gyms, nil
}

func (s *service) NearbyGyms(ctx context.Context, query NearbyQuery) ([]GymWithDistance, error) {
	gyms, err := s.repo.GetAllGyms(ctx)
	if err != nil {
		return nil, apperr.Database("Failed to fetch gyms", err)
	}
	return Nearby(gyms, *query.Lat, *query.Lng, query.radius()), nil
}

func (q NearbyQuery) radius() float64 {
	if q.Radius <= 0 {
		return DefaultNearbyRadius
	}
	return q.Radius
}

func (s *service) GetClasses(ctx context.Context, filter ClassFilter) ([]Class, error) {
	classes, err := s.repo.GetClasses(ctx, filter)
	if err != nil {
		return nil, apperr.Database("Failed to fetch classes", err)
	}
	return classes, nil
}

// GetSchedules lists upcoming, non-cancelled schedules. A date narrows the
// list to that day and takes precedence over startDate/endDate.
func (s *service) GetSchedules(ctx context.Context, filter ScheduleFilter) ([]ScheduleWithClass, error) {
	window, err := s.window(filter)
	if err != nil {
		return nil, err
	}
	schedules, err := s.repo.GetSchedules(ctx, window)
	if err != nil {
		return nil, apperr.Database("Failed to fetch schedules", err)
	}
	return schedules, nil
}

func (s *service) window(f ScheduleFilter) (ScheduleWindow, error) {
	w := ScheduleWindow{GymID: f.GymID, ClassID: f.ClassID, From: s.now()}

	from, to := f.StartDate, f.EndDate
	if f.Date != "" {
		from, to = f.Date, f.Date
	}
	if from != "" {
		start, err := api.ParseDate(from)
		if err != nil {
			return w, apperr.Validation("Invalid start date")
		}
		start = dayStart(start)
		if start.After(w.From) {
			w.From = start
		}
	}
	if to != "" {
		end, err := api.ParseDate(to)
		if err != nil {
			return w, apperr.Validation("Invalid end date")
		}
		end = dayStart(end).Add(24*time.Hour - time.Millisecond)
		w.To = &end
	}
	return w, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *service) CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*Schedule, error) {
	class, err := s.repo.GetClassByID(ctx, req.ClassID)
	if errors.Is(err, ErrClassNotFound) {
		return nil, apperr.NotFound("Class")
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch class", err)
	}
	if !class.IsActive {
		return nil, apperr.Validation("Class is not active")
	}

	at, err := api.ParseDate(req.ScheduledAt)
	if err != nil {
		return nil, apperr.Validation("Invalid scheduled time")
	}
	if !at.After(s.now()) {
		return nil, apperr.Validation("Scheduled time must be in the future")
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = class.MaxCapacity
	}
	if capacity < 1 {
		return nil, apperr.Validation("Capacity must be at least 1")
	}

	schedule := &Schedule{
		GymID:       class.GymID,
		ClassID:     class.ID,
		ScheduledAt: at,
		Capacity:    capacity,
	}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, apperr.Database("Failed to create schedule", err)
	}

	logger.Info("class scheduled",
		"schedule_id", schedule.ID,
		"class_id", class.ID,
		"gym_id", class.GymID,
		"scheduled_at", at,
		"capacity", capacity,
	)
	return schedule, nil
}
