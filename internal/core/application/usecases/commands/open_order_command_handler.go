package commands

import (
	"context"

	"workshop/internal/core/domain/model/history"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/order"
	"workshop/internal/pkg/clock"
)

// OpenOrderCommandHandler creates an order in INGRESO together with its first
// open interval. Two concurrent intakes may compute the same number; the unique
// index rejects the loser with errs.ErrStorageConflict and the caller retries.
//
// Example:
//
//	handler := NewOpenOrderCommandHandler(uowFactory, clock.System{})
//	cmd, _ := NewOpenOrderCommand(unitID, "recepcion")
//	res, err := handler.Handle(ctx, cmd)
//	// res.Number == "OT-0001" on an empty store
type OpenOrderCommandHandler struct {
	uowFactory WorkflowUoWFactory
	clock      clock.Clock
}

func NewOpenOrderCommandHandler(uowFactory WorkflowUoWFactory, clk clock.Clock) OpenOrderCommandHandler {
	return OpenOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

func (h *OpenOrderCommandHandler) Handle(ctx context.Context, cmd OpenOrderCommand) (OpenOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OpenOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OpenOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	intervals := uow.IntervalRepository()

	number, err := orders.NextNumber(ctx)
	if err != nil {
		return OpenOrderResult{}, err
	}

	now := h.clock.Now()
	o, err := order.NewOrder(kernel.NewUUID(), number, cmd.UnitID(), now)
	if err != nil {
		return OpenOrderResult{}, err
	}
	if err = orders.Add(ctx, o); err != nil {
		return OpenOrderResult{}, err
	}

	intake, err := history.OpenInterval(
		kernel.NewUUID(), o.ID(), o.StageCode(), cmd.Actor(), history.ObservationIntake, now,
	)
	if err != nil {
		return OpenOrderResult{}, err
	}
	if err = intervals.Add(ctx, intake); err != nil {
		return OpenOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OpenOrderResult{}, err
	}

	return OpenOrderResult{OrderID: o.ID(), Number: o.Number()}, nil
}
