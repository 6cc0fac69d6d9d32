package checkin

import (
	"context"

	"fitclub/internal/stats"

	"github.com/google/uuid"
)

// Repository satisfies guard.Store for check-ins plus the read side.
type Repository interface {
	FindOpen(ctx context.Context, userID uuid.UUID) (*CheckIn, error)
	InsertOpen(ctx context.Context, c *CheckIn) error
	LockOpen(ctx context.Context, userID uuid.UUID, id int64) (*CheckIn, error)
	MarkClosed(ctx context.Context, c *CheckIn) (bool, error)
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	Current(ctx context.Context, userID uuid.UUID) (*CheckInWithGym, error)
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]CheckInWithGym, int, error)
	ClosedVisits(ctx context.Context, userID uuid.UUID) ([]stats.Visit, error)
}
