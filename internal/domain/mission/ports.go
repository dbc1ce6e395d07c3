package mission

import (
	"context"
	"time"
)

// Repository persists missions. ClaimForResolution is the exactly-once
// guard: a conditional status flip active → resolving that succeeds for
// at most one caller per mission, so correctness holds even under a
// multi-worker or retrying scheduler.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Mission, error)
	ListActiveByCartel(ctx context.Context, cartelID int) ([]*Mission, error)
	ListHistoryByCartel(ctx context.Context, cartelID, limit int) ([]*Mission, error)
	ListDue(ctx context.Context, asOf time.Time) ([]*Mission, error)
	Add(ctx context.Context, m *Mission) error
	Save(ctx context.Context, m *Mission) error

	// ClaimForResolution flips status active → resolving only when the
	// row is still active; returns false when another worker won.
	ClaimForResolution(ctx context.Context, id string) (bool, error)
}
