package commands

import (
	"context"
	"log/slog"

	"workshop/internal/core/domain/services"
	"workshop/internal/core/ports"
	"workshop/internal/pkg/clock"
)

// RegisterDelayCommandHandler appends a delay annotation to the open SEMI_ARMADO
// interval and audits the observation change. It never opens or closes intervals.
type RegisterDelayCommandHandler struct {
	uowFactory WorkflowUoWFactory
	workflow   *services.StageWorkflow
	committer  transitionCommitter
	clock      clock.Clock
}

func NewRegisterDelayCommandHandler(
	uowFactory WorkflowUoWFactory,
	workflow *services.StageWorkflow,
	ledger ports.AuditLedger,
	clk clock.Clock,
	logger *slog.Logger,
) RegisterDelayCommandHandler {
	return RegisterDelayCommandHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
		committer: transitionCommitter{
			ledger: ledger,
			logger: logger.With("component", "register_delay_handler"),
		},
		clock: clk,
	}
}

func (h *RegisterDelayCommandHandler) Handle(ctx context.Context, cmd RegisterDelayCommand) error {
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

	tr, err := h.workflow.RegisterDelay(o, open, cmd.DelayCode(), cmd.Note(), cmd.Actor(), h.clock.Now())
	if err != nil {
		return err
	}

	return h.committer.commit(ctx, uow, orders, intervals, tr)
}
