package bodymetric

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const metricColumns = `id, user_id, recorded_at, weight, weight_unit, body_fat, muscle_mass, bmi,
	measurements, notes, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Metric, error) {
	where := "user_id = $1"
	args := []interface{}{userID}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND recorded_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND recorded_at <= $%d", len(args))
	}

	metrics := []Metric{}
	query := `SELECT ` + metricColumns + ` FROM body_metrics WHERE ` + where + ` ORDER BY recorded_at DESC`
	if err := r.db.SelectContext(ctx, &metrics, query, args...); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *repository) Since(ctx context.Context, userID uuid.UUID, from time.Time) ([]Metric, error) {
	query := `
		SELECT ` + metricColumns + `
		FROM body_metrics
		WHERE user_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at ASC
	`

	metrics := []Metric{}
	if err := r.db.SelectContext(ctx, &metrics, query, userID, from); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *repository) Get(ctx context.Context, userID uuid.UUID, id int64) (*Metric, error) {
	query := `
		SELECT ` + metricColumns + `
		FROM body_metrics
		WHERE id = $1 AND user_id = $2
	`

	var m Metric
	err := r.db.GetContext(ctx, &m, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMetricNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) Create(ctx context.Context, m *Metric) error {
	query := `
		INSERT INTO body_metrics (user_id, recorded_at, weight, weight_unit, body_fat, muscle_mass, bmi,
			measurements, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		m.UserID, m.RecordedAt, m.Weight, m.WeightUnit, m.BodyFat, m.MuscleMass, m.BMI,
		m.Measurements, m.Notes, m.CreatedAt,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// Update replaces every user-supplied column of the entry.
func (r *repository) Update(ctx context.Context, m *Metric) error {
	query := `
		UPDATE body_metrics
		SET recorded_at = $1, weight = $2, weight_unit = $3, body_fat = $4, muscle_mass = $5, bmi = $6,
			measurements = $7, notes = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		m.RecordedAt, m.Weight, m.WeightUnit, m.BodyFat, m.MuscleMass, m.BMI,
		m.Measurements, m.Notes, m.UpdatedAt, m.ID, m.UserID,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMetricNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM body_metrics WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMetricNotFound
	}
	return nil
}
