package membership

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]MembershipWithGym, error)
	// GetActive returns the user's most recently created active membership.
	GetActive(ctx context.Context, userID uuid.UUID) (*MembershipWithGym, error)
	UpdatePlan(ctx context.Context, id int64, plan PlanType, monthlyFee float64, now time.Time) error
}
