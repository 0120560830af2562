// Package ports defines the contracts between the workshop core and its adapters:
// repositories bound to a unit of work, the independent audit ledger and the
// notification trigger/publisher pair.
package ports

import (
	"context"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/order"
)

// OrderRepository persists work order aggregates.
type OrderRepository interface {
	// Add persists a new order. A duplicated number surfaces as errs.ErrStorageConflict.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the current state and warranty of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads an order and holds an exclusive row lock until the
	// enclosing transaction ends. Lock timeouts surface as errs.ErrStorageConflict.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumberForUpdate is GetForUpdate keyed by the human-facing number.
	GetByNumberForUpdate(ctx context.Context, number string) (*order.Order, error)

	// NextNumber allocates the number for the next order to be opened.
	NextNumber(ctx context.Context) (string, error)
}
