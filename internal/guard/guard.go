// Package guard keeps at most one open instance of a resource per user.
//
// The open predicate is backed by a partial unique index in storage, so
// Open is race free even though it pre-checks. Close locks the open row,
// lets the caller derive its closing fields and updates it conditionally.
package guard

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyOpen = errors.New("an open instance already exists")
	ErrNotOpen     = errors.New("no matching open instance")
)

// Store persists one kind of guarded instance. S is the store type handed
// to transactional callbacks, normally the implementing interface itself.
type Store[T any, S any] interface {
	// FindOpen returns ErrNotOpen when the user has nothing open.
	FindOpen(ctx context.Context, userID uuid.UUID) (T, error)
	// InsertOpen returns ErrAlreadyOpen when the unique index rejects the row.
	InsertOpen(ctx context.Context, instance T) error
	// LockOpen selects the user's open instance FOR UPDATE. An id of 0
	// matches whichever instance is open.
	LockOpen(ctx context.Context, userID uuid.UUID, id int64) (T, error)
	// MarkClosed persists the closing fields if the row is still open.
	MarkClosed(ctx context.Context, instance T) (bool, error)
	WithinTx(ctx context.Context, fn func(tx S) error) error
}

type Guard[T any, S Store[T, S]] struct {
	store S
	now   func() time.Time
}

func New[T any, S Store[T, S]](store S, now func() time.Time) *Guard[T, S] {
	if now == nil {
		now = time.Now
	}
	return &Guard[T, S]{store: store, now: now}
}

// Open creates a new instance via build, stamped with the current time.
func (g *Guard[T, S]) Open(ctx context.Context, userID uuid.UUID, build func(startedAt time.Time) T) (T, error) {
	var zero T

	_, err := g.store.FindOpen(ctx, userID)
	switch {
	case err == nil:
		return zero, ErrAlreadyOpen
	case !errors.Is(err, ErrNotOpen):
		return zero, err
	}

	instance := build(g.now())
	if err := g.store.InsertOpen(ctx, instance); err != nil {
		return zero, err
	}
	return instance, nil
}

// Close finalizes the caller's open instance. apply runs inside the
// transaction with the row locked and sets the derived closing fields.
func (g *Guard[T, S]) Close(ctx context.Context, userID uuid.UUID, id int64, apply func(tx S, instance T, closedAt time.Time) error) (T, error) {
	var closed T

	err := g.store.WithinTx(ctx, func(tx S) error {
		instance, err := tx.LockOpen(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := apply(tx, instance, g.now()); err != nil {
			return err
		}

		ok, err := tx.MarkClosed(ctx, instance)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotOpen
		}
		closed = instance
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return closed, nil
}

// DurationMinutes is the elapsed time rounded to the nearest minute.
func DurationMinutes(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(math.Round(end.Sub(start).Minutes()))
}
