package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	// Create inserts the profile unless one already exists and reports
	// whether this call created it.
	Create(ctx context.Context, p *Profile) (bool, error)
	Update(ctx context.Context, id uuid.UUID, changes Changes, now time.Time) (*Profile, error)
}
