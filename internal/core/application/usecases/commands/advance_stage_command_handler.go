package commands

import (
	"context"
	"log/slog"

	"workshop/internal/core/domain/services"
	"workshop/internal/core/ports"
	"workshop/internal/pkg/clock"
)

// AdvanceStageCommandHandler locks the order, applies StageWorkflow.Advance and
// commits interval close, order update, interval open and audit as one outcome.
type AdvanceStageCommandHandler struct {
	uowFactory WorkflowUoWFactory
	workflow   *services.StageWorkflow
	committer  transitionCommitter
	clock      clock.Clock
}

func NewAdvanceStageCommandHandler(
	uowFactory WorkflowUoWFactory,
	workflow *services.StageWorkflow,
	ledger ports.AuditLedger,
	trigger ports.NotificationTrigger,
	clk clock.Clock,
	logger *slog.Logger,
) AdvanceStageCommandHandler {
	return AdvanceStageCommandHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
		committer: transitionCommitter{
			ledger:  ledger,
			trigger: trigger,
			logger:  logger.With("component", "advance_stage_handler"),
		},
		clock: clk,
	}
}

func (h *AdvanceStageCommandHandler) Handle(ctx context.Context, cmd AdvanceStageCommand) error {
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

	o, err := orders.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return orderLookupError(err)
	}

	open, err := intervals.FindOpen(ctx, o.ID())
	if err != nil {
		return err
	}

	tr, err := h.workflow.Advance(o, open, cmd.Actor(), h.clock.Now())
	if err != nil {
		return err
	}

	return h.committer.commit(ctx, uow, orders, intervals, tr)
}
