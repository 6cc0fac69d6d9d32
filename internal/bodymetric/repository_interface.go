package bodymetric

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// List returns entries newest first.
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Metric, error)
	// Since returns entries recorded at or after from, oldest first.
	Since(ctx context.Context, userID uuid.UUID, from time.Time) ([]Metric, error)
	Get(ctx context.Context, userID uuid.UUID, id int64) (*Metric, error)
	Create(ctx context.Context, m *Metric) error
	Update(ctx context.Context, m *Metric) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}
