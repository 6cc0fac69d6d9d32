package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const membershipSelect = `
	SELECT m.id, m.user_id, m.gym_id, m.plan_type, m.status, m.start_date, m.end_date,
		m.monthly_fee, m.qr_code, m.access_all_locations, m.auto_renew, m.created_at, m.updated_at,
		g.name AS gym_name, g.city AS gym_city
	FROM memberships m
	JOIN gyms g ON g.id = m.gym_id
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]MembershipWithGym, error) {
	memberships := []MembershipWithGym{}
	err := r.db.SelectContext(ctx, &memberships, membershipSelect+`
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC
	`, userID)
	return memberships, err
}

func (r *repository) GetActive(ctx context.Context, userID uuid.UUID) (*MembershipWithGym, error) {
	m := &MembershipWithGym{}
	err := r.db.GetContext(ctx, m, membershipSelect+`
		WHERE m.user_id = $1 AND m.status = 'active'
		ORDER BY m.created_at DESC
		LIMIT 1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveMembership
	}
	if err != nil {
		return nil, fmt.Errorf("get active membership: %w", err)
	}
	return m, nil
}

func (r *repository) UpdatePlan(ctx context.Context, id int64, plan PlanType, monthlyFee float64, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET plan_type = $1,
		    monthly_fee = $2,
		    updated_at = $3
		WHERE id = $4
	`, plan, monthlyFee, now, id)
	return err
}
