package ports

import (
	"context"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/notification"
	"workshop/internal/core/domain/model/order"
)

// NotificationTrigger is invoked after a transition that put an order in LISTO_RETIRAR.
type NotificationTrigger interface {
	ReadyForPickup(ctx context.Context, o *order.Order) error
}

// NotificationRepository is the notification outbox.
type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
	Update(ctx context.Context, n *notification.Notification) error

	// GetForUpdate locks one notification, failing with errs.ErrObjectNotFound.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// GetPendingForUpdate locks up to limit unsent, unabandoned notifications,
	// skipping rows locked by a concurrent relay.
	GetPendingForUpdate(ctx context.Context, limit int) ([]*notification.Notification, error)
}

// NotificationPublisher delivers a notification to the messaging transport.
type NotificationPublisher interface {
	Publish(ctx context.Context, n *notification.Notification) error
}
