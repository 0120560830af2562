package commands

import (
	"context"
	"log/slog"

	"workshop/internal/core/domain/services"
	"workshop/internal/core/ports"
	"workshop/internal/pkg/clock"
)

// MarkIrreparableCommandHandler branches an order to PIEZA_IRREPARABLE.
// Repeating the command on an order already in the branch changes nothing.
type MarkIrreparableCommandHandler struct {
	uowFactory WorkflowUoWFactory
	workflow   *services.StageWorkflow
	committer  transitionCommitter
	clock      clock.Clock
}

func NewMarkIrreparableCommandHandler(
	uowFactory WorkflowUoWFactory,
	workflow *services.StageWorkflow,
	ledger ports.AuditLedger,
	clk clock.Clock,
	logger *slog.Logger,
) MarkIrreparableCommandHandler {
	return MarkIrreparableCommandHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
		committer: transitionCommitter{
			ledger: ledger,
			logger: logger.With("component", "mark_irreparable_handler"),
		},
		clock: clk,
	}
}

func (h *MarkIrreparableCommandHandler) Handle(ctx context.Context, cmd MarkIrreparableCommand) error {
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

	orders := uow.OrderRepository()
	intervals := uow.IntervalRepository()

	o, err := orders.GetByNumberForUpdate(ctx, cmd.OrderNumber())
	if err != nil {
		return orderLookupError(err)
	}

	open, err := intervals.FindOpen(ctx, o.ID())
	if err != nil {
		return err
	}

	tr, err := h.workflow.MarkIrreparable(o, open, cmd.Actor(), h.clock.Now())
	if err != nil {
		return err
	}

	return h.committer.commit(ctx, uow, orders, intervals, tr)
}
