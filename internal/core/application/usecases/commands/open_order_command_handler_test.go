package commands_test

import (
	"errors"
	"testing"

	"workshop/internal/core/application/usecases/commands"
	"workshop/internal/core/domain/model/history"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/order"
	"workshop/internal/core/domain/model/stage"
	"workshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewOpenOrderCommand(t *testing.T) {
	_, err := commands.NewOpenOrderCommand(kernel.UUID{}, "")

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, commands.ErrActorIsRequired)
}

func TestOpenOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	unitID := kernel.NewUUID()
	cmd, err := commands.NewOpenOrderCommand(unitID, "recepcion")
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	intervals := new(MockIntervalRepository)
	uow := new(MockWorkflowUoW)
	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	var created *order.Order
	var intake *history.Interval
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		uow.On("IntervalRepository").Return(intervals).Once(),
		orders.On("NextNumber", mock.Anything).Return("OT-0007", nil).Once(),
		orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
		}).Return(nil).Once(),
		intervals.On("Add", mock.Anything, openedIn(stage.Ingreso)).Run(func(args mock.Arguments) {
			intake = args.Get(1).(*history.Interval)
		}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewOpenOrderCommandHandler(factory, fixedNow)
	res, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "OT-0007", res.Number)
	require.NotNil(t, created)
	assert.Equal(t, res.OrderID, created.ID())
	assert.Equal(t, unitID, created.UnitID())
	assert.Equal(t, stage.Ingreso, created.StageCode())
	assert.Equal(t, now, created.CreatedAt())

	require.NotNil(t, intake)
	assert.Equal(t, created.ID(), intake.OrderID())
	assert.Equal(t, history.ObservationIntake, intake.Observation())
	assert.Equal(t, "recepcion", intake.Actor())
	assert.Equal(t, now, intake.StartedAt())

	orders.AssertExpectations(t)
	intervals.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestOpenOrderCommandHandler_Handle_DuplicateNumberIsAConflict(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewOpenOrderCommand(kernel.NewUUID(), "recepcion")

	orders := new(MockOrderRepository)
	intervals := new(MockIntervalRepository)
	uow := new(MockWorkflowUoW)
	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		uow.On("IntervalRepository").Return(intervals).Once(),
		orders.On("NextNumber", mock.Anything).Return("OT-0007", nil).Once(),
		orders.On("Add", mock.Anything, mock.Anything).
			Return(errs.NewStorageConflictError("add order", errors.New("duplicate key"))).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewOpenOrderCommandHandler(factory, fixedNow)
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrStorageConflict)
	intervals.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestOpenOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewOpenOrderCommand(kernel.NewUUID(), "recepcion")

	orders := new(MockOrderRepository)
	intervals := new(MockIntervalRepository)
	uow := new(MockWorkflowUoW)
	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Once()
	uow.On("IntervalRepository").Return(intervals).Once()
	orders.On("NextNumber", mock.Anything).Return("OT-0001", nil).Once()
	orders.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	intervals.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", ctx).Return(errors.New("commit error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewOpenOrderCommandHandler(factory, fixedNow)
	res, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Empty(t, res.Number)
	uow.AssertExpectations(t)
}
