// Package commands contains the operations that change workshop state.
// Every command follows the same shape: a guarded command value, a handler that
// opens a unit of work, and explicit commit/rollback.
package commands

import (
	"context"

	"workshop/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	IntervalRepoFactory interface {
		IntervalRepository() ports.IntervalRepository
	}

	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// WorkflowUoW covers the order row and its stage history, which must change together.
	WorkflowUoW interface {
		TxManager
		OrderRepoFactory
		IntervalRepoFactory
	}

	WorkflowUoWFactory interface {
		Create() WorkflowUoW
	}

	// NotificationUoW covers the notification outbox.
	NotificationUoW interface {
		TxManager
		NotificationRepoFactory
	}

	NotificationUoWFactory interface {
		Create() NotificationUoW
	}
)
