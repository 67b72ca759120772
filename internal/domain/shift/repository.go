package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access for shift records. Updates are
// single-row field patches; the persistence layer is expected to be
// last-write-wins so racing sweepers converge.
type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context, filter ShiftFilter) ([]Shift, int64, error)

	// GetLive returns non-terminal shifts whose date falls inside
	// [since, until], the sweeper's working set.
	GetLive(ctx context.Context, since, until time.Time) ([]Shift, error)

	Update(ctx context.Context, s Shift) error
	Delete(ctx context.Context, id string) error
}
