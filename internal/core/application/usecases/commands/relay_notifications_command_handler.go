package commands

import (
	"context"
	"log/slog"

	"workshop/internal/core/domain/model/notification"
	"workshop/internal/core/ports"
	"workshop/internal/pkg/clock"
)

// RelayNotificationsCommandHandler drains the notification outbox.
// A notification whose publish fails stays pending for the next run until it
// reaches notification.MaxPublishAttempts, after which the relay skips it.
type RelayNotificationsCommandHandler struct {
	uowFactory NotificationUoWFactory
	publisher  ports.NotificationPublisher
	clock      clock.Clock
	logger     *slog.Logger
}

func NewRelayNotificationsCommandHandler(
	uowFactory NotificationUoWFactory,
	publisher ports.NotificationPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) RelayNotificationsCommandHandler {
	return RelayNotificationsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clk,
		logger:     logger.With("component", "notification_relay"),
	}
}

// Handle returns the number of notifications marked as sent.
func (h *RelayNotificationsCommandHandler) Handle(ctx context.Context, cmd RelayNotificationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	pending, err := repo.GetPendingForUpdate(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	sent := 0
	for _, n := range pending {
		if err = h.publisher.Publish(ctx, n); err != nil {
			if err = h.recordFailure(ctx, repo, n, err); err != nil {
				return 0, err
			}
			continue
		}
		if err = n.MarkSent(h.clock.Now()); err != nil {
			return 0, err
		}
		if err = repo.Update(ctx, n); err != nil {
			return 0, err
		}
		sent++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return sent, nil
}

func (h *RelayNotificationsCommandHandler) recordFailure(
	ctx context.Context,
	repo ports.NotificationRepository,
	n *notification.Notification,
	cause error,
) error {
	n.RecordPublishFailure()
	attrs := []any{
		"notification_id", n.ID().String(),
		"order_number", n.OrderNumber(),
		"channel", string(n.Channel()),
		"attempts", n.Attempts(),
		"error", cause,
	}
	if n.IsAbandoned() {
		h.logger.WarnContext(ctx, "Giving up on notification", attrs...)
	} else {
		h.logger.ErrorContext(ctx, "Failed to publish notification", attrs...)
	}
	return repo.Update(ctx, n)
}
