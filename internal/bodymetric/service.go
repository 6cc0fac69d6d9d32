package bodymetric

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fitclub/internal/api"
	"fitclub/internal/apperr"
	"fitclub/internal/logger"
	"fitclub/internal/stats"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Metric, error)
	Get(ctx context.Context, userID uuid.UUID, id int64) (*Metric, error)
	Create(ctx context.Context, userID uuid.UUID, req MetricRequest) (*Metric, error)
	Update(ctx context.Context, userID uuid.UUID, id int64, req MetricRequest) (*Metric, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
	// Trends returns weight and body-fat series for the last days days.
	Trends(ctx context.Context, userID uuid.UUID, days int) (*TrendsResponse, error)
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

func (s *service) List(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Metric, error) {
	filter, err := query.filter()
	if err != nil {
		return nil, err
	}
	metrics, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, apperr.Database("Failed to fetch body metrics", err)
	}
	return metrics, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, id int64) (*Metric, error) {
	m, err := s.repo.Get(ctx, userID, id)
	if errors.Is(err, ErrMetricNotFound) {
		return nil, apperr.NotFound("Body metric")
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch body metric", err)
	}
	return m, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req MetricRequest) (*Metric, error) {
	m, err := req.metric()
	if err != nil {
		return nil, err
	}
	m.UserID = userID
	m.CreatedAt = s.now()

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, apperr.Database("Failed to create body metric", err)
	}
	logger.Info("body metric recorded", "metric_id", m.ID, "user_id", userID)
	return m, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, id int64, req MetricRequest) (*Metric, error) {
	m, err := req.metric()
	if err != nil {
		return nil, err
	}
	m.ID = id
	m.UserID = userID
	m.UpdatedAt = s.now()

	err = s.repo.Update(ctx, m)
	if errors.Is(err, ErrMetricNotFound) {
		return nil, apperr.NotFound("Body metric")
	}
	if err != nil {
		return nil, apperr.Database("Failed to update body metric", err)
	}
	return m, nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, ErrMetricNotFound) {
		return apperr.NotFound("Body metric")
	}
	if err != nil {
		return apperr.Database("Failed to delete body metric", err)
	}
	return nil
}

func (s *service) Trends(ctx context.Context, userID uuid.UUID, days int) (*TrendsResponse, error) {
	metrics, err := s.repo.Since(ctx, userID, stats.LookbackStart(s.now(), days))
	if err != nil {
		return nil, apperr.Database("Failed to fetch body metrics", err)
	}

	at := func(m Metric) time.Time { return m.RecordedAt }
	return &TrendsResponse{
		WeightTrend:  stats.Trend(metrics, at, func(m Metric) *float64 { return m.Weight }),
		BodyFatTrend: stats.Trend(metrics, at, func(m Metric) *float64 { return m.BodyFat }),
	}, nil
}

func (r MetricRequest) metric() (*Metric, error) {
	recordedAt, err := api.ParseDate(r.RecordedAt)
	if err != nil {
		return nil, apperr.Validation("Invalid recorded date")
	}

	m := &Metric{
		RecordedAt: recordedAt,
		Weight:     r.Weight,
		WeightUnit: r.WeightUnit,
		BodyFat:    r.BodyFat,
		MuscleMass: r.MuscleMass,
		BMI:        r.BMI,
		Notes:      r.Notes,
	}
	if m.WeightUnit == "" {
		m.WeightUnit = defaultWeightUnit
	}
	if r.Measurements != nil {
		raw, err := json.Marshal(r.Measurements)
		if err != nil {
			return nil, apperr.Internal("Failed to encode measurements", err)
		}
		m.Measurements = types.NullJSONText{JSONText: raw, Valid: true}
	}
	return m, nil
}

func (q ListQuery) filter() (ListFilter, error) {
	var f ListFilter
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
