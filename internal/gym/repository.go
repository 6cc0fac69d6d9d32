package gym

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const gymColumns = `id, name, slug, address, city, country, phone, email, latitude, longitude,
	description, amenities, is_active, created_at, updated_at`

const classColumns = `id, gym_id, name, description, category, duration_minutes, max_capacity,
	difficulty, instructor_name, is_active, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	query := `
		SELECT ` + gymColumns + `
		FROM gyms
		WHERE is_active = true
		ORDER BY name
	`

	gyms := []Gym{}
	if err := r.db.SelectContext(ctx, &gyms, query); err != nil {
		return nil, err
	}
	return gyms, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int64) (*Gym, error) {
	query := `
		SELECT ` + gymColumns + `
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGymNotFound
	}
	if err != nil {
		return nil, err
	}
	return &gym, nil
}

// SearchGyms matches q against name, city and address.
func (r *repository) SearchGyms(ctx context.Context, q, city string) ([]Gym, error) {
	query := `
		SELECT ` + gymColumns + `
		FROM gyms
		WHERE is_active = true
			AND (name ILIKE $1 OR city ILIKE $1 OR address ILIKE $1)
	`
	args := []interface{}{"%" + q + "%"}

	if city != "" {
		query += " AND city = $2"
		args = append(args, city)
	}
	query += " ORDER BY name"

	gyms := []Gym{}
	if err := r.db.SelectContext(ctx, &gyms, query, args...); err != nil {
		return nil, err
	}
	return gyms, nil
}

func (r *repository) GetClasses(ctx context.Context, filter ClassFilter) ([]Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE is_active = true`
	var args []interface{}

	if filter.GymID != 0 {
		args = append(args, filter.GymID)
		query += fmt.Sprintf(" AND gym_id = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY name"

	classes := []Class{}
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) GetClassByID(ctx context.Context, id int64) (*Class, error) {
	var class Class
	err := r.db.GetContext(ctx, &class, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *repository) GetSchedules(ctx context.Context, w ScheduleWindow) ([]ScheduleWithClass, error) {
	conds := []string{"s.is_cancelled = false", "s.scheduled_at > $1"}
	args := []interface{}{w.From}

	if w.To != nil {
		args = append(args, *w.To)
		conds = append(conds, fmt.Sprintf("s.scheduled_at <= $%d", len(args)))
	}
	if w.GymID != 0 {
		args = append(args, w.GymID)
		conds = append(conds, fmt.Sprintf("s.gym_id = $%d", len(args)))
	}
	if w.ClassID != 0 {
		args = append(args, w.ClassID)
		conds = append(conds, fmt.Sprintf("s.class_id = $%d", len(args)))
	}

	query := `
		SELECT s.id, s.gym_id, s.class_id, s.scheduled_at, s.capacity, s.spots_remaining, s.is_cancelled, s.created_at,
			c.name AS class_name, c.category AS class_category, c.duration_minutes, c.instructor_name
		FROM class_schedules s
		JOIN classes c ON c.id = s.class_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY s.scheduled_at ASC
	`

	schedules := []ScheduleWithClass{}
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, err
	}
	for i := range schedules {
		schedules[i].IsFull = schedules[i].SpotsRemaining <= 0
	}
	return schedules, nil
}

func (r *repository) CreateSchedule(ctx context.Context, s *Schedule) error {
	query := `
		INSERT INTO class_schedules (gym_id, class_id, scheduled_at, capacity, spots_remaining)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, gym_id, class_id, scheduled_at, capacity, spots_remaining, is_cancelled, created_at
	`
	return r.db.GetContext(ctx, s, query, s.GymID, s.ClassID, s.ScheduledAt, s.Capacity)
}
