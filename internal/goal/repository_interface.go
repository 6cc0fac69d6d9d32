package goal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository scopes every lookup to the owning user; a goal owned by
// someone else is reported as ErrGoalNotFound.
type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Goal, error)
	Get(ctx context.Context, userID uuid.UUID, id int64) (*Goal, error)
	Create(ctx context.Context, g *Goal) error
	Update(ctx context.Context, userID uuid.UUID, id int64, changes Changes, now time.Time) (*Goal, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}
