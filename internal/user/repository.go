package user

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

const profileColumns = `id, email, full_name, avatar_url, phone, gender, date_of_birth, height_cm,
	fitness_level, fitness_goals, onboarding_completed, created_at, updated_at`

// updatable guards the column names that Update interpolates.
var updatable = map[string]bool{
	"full_name":            true,
	"avatar_url":           true,
	"phone":                true,
	"gender":               true,
	"date_of_birth":        true,
	"height_cm":            true,
	"fitness_level":        true,
	"fitness_goals":        true,
	"onboarding_completed": true,
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id = $1
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Profile) (bool, error) {
	query := `
		INSERT INTO profiles (id, email, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + profileColumns

	err := r.db.GetContext(ctx, p, query, p.ID, p.Email, p.FullName, p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, changes Changes, now time.Time) (*Profile, error) {
	columns := make([]string, 0, len(changes))
	for col := range changes {
		if !updatable[col] {
			return nil, fmt.Errorf("profile column %q is not updatable", col)
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
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), profileColumns)

	var p Profile
	err := r.db.GetContext(ctx, &p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
