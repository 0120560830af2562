package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"workshop/internal/core/application/usecases/commands"
	"workshop/internal/core/domain/model/audit"
	"workshop/internal/core/domain/model/delay"
	"workshop/internal/core/domain/model/history"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/notification"
	"workshop/internal/core/domain/model/order"
	"workshop/internal/core/domain/model/stage"
	"workshop/internal/core/domain/services"
	"workshop/internal/core/ports"
	"workshop/internal/pkg/clock"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	openedAt = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	now      = openedAt.Add(2 * time.Hour)
	fixedNow = clock.Fixed(now)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByNumberForUpdate(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockIntervalRepository struct{ mock.Mock }

func (m *MockIntervalRepository) Add(ctx context.Context, i *history.Interval) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockIntervalRepository) Update(ctx context.Context, i *history.Interval) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockIntervalRepository) FindOpen(ctx context.Context, orderID kernel.UUID) (*history.Interval, error) {
	args := m.Called(ctx, orderID)
	i, _ := args.Get(0).(*history.Interval)
	return i, args.Error(1)
}

type MockWorkflowUoW struct{ mock.Mock }

func (m *MockWorkflowUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkflowUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkflowUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkflowUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockWorkflowUoW) IntervalRepository() ports.IntervalRepository {
	args := m.Called()
	return args.Get(0).(ports.IntervalRepository)
}

type MockWorkflowUoWFactory struct{ mock.Mock }

func (m *MockWorkflowUoWFactory) Create() commands.WorkflowUoW {
	args := m.Called()
	return args.Get(0).(commands.WorkflowUoW)
}

type MockAuditLedger struct{ mock.Mock }

func (m *MockAuditLedger) Record(ctx context.Context, entries ...audit.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

type MockNotificationTrigger struct{ mock.Mock }

func (m *MockNotificationTrigger) ReadyForPickup(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*notification.Notification)
	return n, args.Error(1)
}

func (m *MockNotificationRepository) GetPendingForUpdate(ctx context.Context, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, limit)
	ns, _ := args.Get(0).([]*notification.Notification)
	return ns, args.Error(1)
}

type MockNotificationUoW struct{ mock.Mock }

func (m *MockNotificationUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotificationUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotificationUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotificationUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

type MockNotificationUoWFactory struct{ mock.Mock }

func (m *MockNotificationUoWFactory) Create() commands.NotificationUoW {
	args := m.Called()
	return args.Get(0).(commands.NotificationUoW)
}

type MockNotificationPublisher struct{ mock.Mock }

func (m *MockNotificationPublisher) Publish(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func newWorkflow(t *testing.T) *services.StageWorkflow {
	t.Helper()
	var reasons []delay.Reason
	for code, description := range delay.DefaultDescriptions() {
		r, err := delay.NewReason(kernel.NewUUID(), code, description)
		require.NoError(t, err)
		reasons = append(reasons, r)
	}
	catalog, err := delay.NewCatalog(reasons...)
	require.NoError(t, err)

	w, err := services.NewStageWorkflow(stage.DefaultCatalog(), catalog)
	require.NoError(t, err)
	return w
}

func orderIn(t *testing.T, state stage.State) (*order.Order, *history.Interval) {
	t.Helper()
	o, err := order.RestoreOrder(kernel.NewUUID(), "OT-0042", kernel.NewUUID(), state, nil, nil, openedAt)
	require.NoError(t, err)
	open, err := history.OpenInterval(kernel.NewUUID(), o.ID(), state.Code(), "tech", "", openedAt)
	require.NoError(t, err)
	return o, open
}

func sequential(t *testing.T, code stage.Code) stage.State {
	t.Helper()
	s, err := stage.Sequential(code)
	require.NoError(t, err)
	return s
}

func auditFields(fields ...audit.Field) any {
	return mock.MatchedBy(func(entries []audit.Entry) bool {
		if len(entries) != len(fields) {
			return false
		}
		for i, e := range entries {
			if e.Field() != fields[i] {
				return false
			}
		}
		return true
	})
}

func openedIn(code stage.Code) any {
	return mock.MatchedBy(func(i *history.Interval) bool {
		return i.IsOpen() && i.StageCode() == code
	})
}

func closed() any {
	return mock.MatchedBy(func(i *history.Interval) bool {
		return !i.IsOpen()
	})
}
