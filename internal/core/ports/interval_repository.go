package ports

import (
	"context"

	"workshop/internal/core/domain/model/history"
	"workshop/internal/core/domain/model/kernel"
)

// IntervalRepository persists stage history intervals. Intervals are never deleted.
type IntervalRepository interface {
	// Add inserts a newly opened interval. A second open interval for the same
	// order is rejected with errs.ErrStorageConflict.
	Add(ctx context.Context, interval *history.Interval) error

	// Update persists the end time, observation and delay reason of an interval.
	Update(ctx context.Context, interval *history.Interval) error

	// FindOpen returns the order's open interval, or nil when there is none.
	FindOpen(ctx context.Context, orderID kernel.UUID) (*history.Interval, error)
}
