package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"workshop/internal/core/domain/services"
	"workshop/internal/core/ports"
)

// triggerTimeout bounds the post-commit notification so a stuck outbox cannot hold
// the caller once the transition is durable.
const triggerTimeout = 10 * time.Second

// transitionCommitter persists a workflow Transition inside the caller's unit of
// work, records its audit entries through the independent ledger, commits, and
// only then fires the ready-for-pickup trigger.
type transitionCommitter struct {
	ledger  ports.AuditLedger
	trigger ports.NotificationTrigger
	logger  *slog.Logger
}

func (c transitionCommitter) commit(
	ctx context.Context,
	uow TxManager,
	orders ports.OrderRepository,
	intervals ports.IntervalRepository,
	tr services.Transition,
) error {
	if tr.NoOp {
		return nil
	}

	attrs := []any{"order_id", tr.Order.ID().String(), "order_number", tr.Order.Number(), "stage", tr.Order.StageCode().String()}
	if tr.MissingOpenInterval {
		c.logger.WarnContext(ctx, "No open interval to close, continuing", attrs...)
	}

	// The close must land before the open: the store allows one open interval per order.
	if tr.Closed != nil {
		if err := intervals.Update(ctx, tr.Closed); err != nil {
			return err
		}
	}
	if tr.Annotated != nil {
		if err := intervals.Update(ctx, tr.Annotated); err != nil {
			return err
		}
	}
	if tr.OrderChanged {
		if err := orders.Update(ctx, tr.Order); err != nil {
			return err
		}
	}
	if tr.Opened != nil {
		if err := intervals.Add(ctx, tr.Opened); err != nil {
			return err
		}
	}

	if len(tr.Audit) > 0 {
		if err := c.ledger.Record(ctx, tr.Audit...); err != nil {
			c.logger.ErrorContext(ctx, "Audit write failed, rolling back transition", append(attrs, "error", err)...)
			return fmt.Errorf("%w: %w", services.ErrAuditWriteFailed, err)
		}
	}

	if err := uow.Commit(ctx); err != nil {
		c.logger.ErrorContext(ctx, "Audit recorded for uncommitted change", append(attrs, "audit_entries", len(tr.Audit), "error", err)...)
		return err
	}

	if tr.ReadyForPickup && c.trigger != nil {
		c.fireReadyForPickup(ctx, tr, attrs)
	}

	return nil
}

// fireReadyForPickup runs the trigger on a context detached from the caller's
// cancellation: the stage change is already committed and the notification must
// not be lost because the request went away. Failures and panics are logged only.
func (c transitionCommitter) fireReadyForPickup(ctx context.Context, tr services.Transition, attrs []any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), triggerTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "Ready for pickup notification panicked", append(attrs, "panic", r)...)
		}
	}()

	if err := c.trigger.ReadyForPickup(ctx, tr.Order); err != nil {
		c.logger.ErrorContext(ctx, "Ready for pickup notification failed", append(attrs, "error", err)...)
	}
}
