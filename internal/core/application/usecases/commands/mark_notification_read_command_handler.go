package commands

import (
	"context"

	"workshop/internal/pkg/clock"
)

// MarkNotificationReadCommandHandler stamps read_at on a notification. Marking
// an already read notification keeps the first timestamp and writes nothing.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
	clock      clock.Clock
}

func NewMarkNotificationReadCommandHandler(
	uowFactory NotificationUoWFactory,
	clk clock.Clock,
) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h MarkNotificationReadCommandHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	n, err := repo.GetForUpdate(ctx, cmd.NotificationID())
	if err != nil {
		return err
	}

	if !n.MarkRead(h.clock.Now()) {
		return nil
	}
	if err = repo.Update(ctx, n); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
