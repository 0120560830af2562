package commands_test

import (
	"errors"
	"testing"

	"workshop/internal/core/application/usecases/commands"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/notification"
	"workshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingNotification(t *testing.T, ch notification.Channel) *notification.Notification {
	t.Helper()
	n, err := notification.NewReadyForPickup(kernel.NewUUID(), "OT-0042", ch, openedAt)
	require.NoError(t, err)
	return n
}

func TestNewRelayNotificationsCommand(t *testing.T) {
	cmd, err := commands.NewRelayNotificationsCommand(50)
	require.NoError(t, err)
	assert.Equal(t, 50, cmd.BatchSize())

	_, err = commands.NewRelayNotificationsCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRelayNotificationsCommandHandler_Handle_FailedPublishStaysPending(t *testing.T) {
	ctx := t.Context()
	web := pendingNotification(t, notification.ChannelWeb)
	whatsapp := pendingNotification(t, notification.ChannelWhatsApp)

	repo := new(MockNotificationRepository)
	uow := new(MockNotificationUoW)
	publisher := new(MockNotificationPublisher)
	factory := new(MockNotificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("NotificationRepository").Return(repo).Once(),
		repo.On("GetPendingForUpdate", mock.Anything, 10).
			Return([]*notification.Notification{web, whatsapp}, nil).Once(),
		publisher.On("Publish", mock.Anything, web).Return(errors.New("broker unreachable")).Once(),
		repo.On("Update", mock.Anything, web).Return(nil).Once(),
		publisher.On("Publish", mock.Anything, whatsapp).Return(nil).Once(),
		repo.On("Update", mock.Anything, whatsapp).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewRelayNotificationsCommandHandler(factory, publisher, fixedNow, discardLogger())
	cmd, _ := commands.NewRelayNotificationsCommand(10)

	sent, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.False(t, web.IsSent())
	assert.Equal(t, 1, web.Attempts())
	require.True(t, whatsapp.IsSent())
	assert.Equal(t, now, *whatsapp.SentAt())
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRelayNotificationsCommandHandler_Handle_NothingPending(t *testing.T) {
	ctx := t.Context()

	repo := new(MockNotificationRepository)
	uow := new(MockNotificationUoW)
	publisher := new(MockNotificationPublisher)
	factory := new(MockNotificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("NotificationRepository").Return(repo).Once()
	repo.On("GetPendingForUpdate", mock.Anything, 10).Return([]*notification.Notification{}, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewRelayNotificationsCommandHandler(factory, publisher, fixedNow, discardLogger())
	cmd, _ := commands.NewRelayNotificationsCommand(10)

	sent, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, sent)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestRelayNotificationsCommandHandler_Handle_LastFailedAttemptAbandons(t *testing.T) {
	ctx := t.Context()
	n := pendingNotification(t, notification.ChannelWhatsApp)
	for range notification.MaxPublishAttempts - 1 {
		n.RecordPublishFailure()
	}

	repo := new(MockNotificationRepository)
	uow := new(MockNotificationUoW)
	publisher := new(MockNotificationPublisher)
	factory := new(MockNotificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("NotificationRepository").Return(repo).Once()
	repo.On("GetPendingForUpdate", mock.Anything, 10).Return([]*notification.Notification{n}, nil).Once()
	publisher.On("Publish", mock.Anything, n).Return(errors.New("broker unreachable")).Once()
	repo.On("Update", mock.Anything, n).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewRelayNotificationsCommandHandler(factory, publisher, fixedNow, discardLogger())
	cmd, _ := commands.NewRelayNotificationsCommand(10)

	sent, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.True(t, n.IsAbandoned())
	assert.False(t, n.IsSent())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRelayNotificationsCommandHandler_Handle_FailureCountUpdateErrorAborts(t *testing.T) {
	ctx := t.Context()
	n := pendingNotification(t, notification.ChannelWeb)

	repo := new(MockNotificationRepository)
	uow := new(MockNotificationUoW)
	publisher := new(MockNotificationPublisher)
	factory := new(MockNotificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("NotificationRepository").Return(repo).Once()
	repo.On("GetPendingForUpdate", mock.Anything, 10).Return([]*notification.Notification{n}, nil).Once()
	publisher.On("Publish", mock.Anything, n).Return(errors.New("broker unreachable")).Once()
	repo.On("Update", mock.Anything, n).Return(errors.New("connection reset")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := commands.NewRelayNotificationsCommandHandler(factory, publisher, fixedNow, discardLogger())
	cmd, _ := commands.NewRelayNotificationsCommand(10)

	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}
