package commands_test

import (
	"testing"
	"time"

	"workshop/internal/core/application/usecases/commands"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/notification"
	"workshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewMarkNotificationReadCommand(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewMarkNotificationReadCommand(id)
	require.NoError(t, err)
	assert.True(t, id.IsEqual(cmd.NotificationID()))

	_, err = commands.NewMarkNotificationReadCommand(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func newMarkReadHandler(repo *MockNotificationRepository, uow *MockNotificationUoW) commands.MarkNotificationReadCommandHandler {
	factory := new(MockNotificationUoWFactory)
	factory.On("Create").Return(uow).Once()
	uow.On("NotificationRepository").Return(repo).Once()
	return commands.NewMarkNotificationReadCommandHandler(factory, fixedNow)
}

func TestMarkNotificationReadCommandHandler_Handle_StampsReadAt(t *testing.T) {
	ctx := t.Context()
	n := pendingNotification(t, notification.ChannelWeb)
	repo := new(MockNotificationRepository)
	uow := new(MockNotificationUoW)
	h := newMarkReadHandler(repo, uow)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("GetForUpdate", mock.Anything, n.ID()).Return(n, nil).Once(),
		repo.On("Update", mock.Anything, n).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	cmd, _ := commands.NewMarkNotificationReadCommand(n.ID())

	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.True(t, n.IsRead())
	assert.Equal(t, now, *n.ReadAt())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestMarkNotificationReadCommandHandler_Handle_AlreadyReadWritesNothing(t *testing.T) {
	ctx := t.Context()
	n := pendingNotification(t, notification.ChannelWeb)
	firstRead := now.Add(-time.Hour)
	n.MarkRead(firstRead)
	repo := new(MockNotificationRepository)
	uow := new(MockNotificationUoW)
	h := newMarkReadHandler(repo, uow)

	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetForUpdate", mock.Anything, n.ID()).Return(n, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	cmd, _ := commands.NewMarkNotificationReadCommand(n.ID())

	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, firstRead, *n.ReadAt())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestMarkNotificationReadCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	repo := new(MockNotificationRepository)
	uow := new(MockNotificationUoW)
	h := newMarkReadHandler(repo, uow)

	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetForUpdate", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("notification", id.String())).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	cmd, _ := commands.NewMarkNotificationReadCommand(id)

	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertExpectations(t)
}

func TestMarkNotificationReadCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockNotificationUoWFactory)
	h := commands.NewMarkNotificationReadCommandHandler(factory, fixedNow)

	err := h.Handle(t.Context(), commands.MarkNotificationReadCommand{})

	require.ErrorIs(t, err, commands.ErrMarkNotificationReadCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
