package commands

import (
	"context"
	"log/slog"

	"workshop/internal/core/domain/model/notification"
	"workshop/internal/core/domain/model/order"
	"workshop/internal/pkg/clock"
)

// OutboxNotificationTrigger implements ports.NotificationTrigger by writing one
// pending notification per channel. Delivery is left to the relay.
type OutboxNotificationTrigger struct {
	uowFactory NotificationUoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

func NewOutboxNotificationTrigger(uowFactory NotificationUoWFactory, clk clock.Clock, logger *slog.Logger) *OutboxNotificationTrigger {
	return &OutboxNotificationTrigger{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger.With("component", "notification_outbox"),
	}
}

func (t *OutboxNotificationTrigger) ReadyForPickup(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	now := t.clock.Now()

	for _, ch := range notification.Channels() {
		n, err := notification.NewReadyForPickup(o.ID(), o.Number(), ch, now)
		if err != nil {
			return err
		}
		if err = repo.Add(ctx, n); err != nil {
			return err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	t.logger.InfoContext(ctx, "Ready for pickup notifications queued",
		"order_id", o.ID().String(),
		"order_number", o.Number(),
	)
	return nil
}
