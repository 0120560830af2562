package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"workshop/internal/core/application/usecases/commands"
	"workshop/internal/core/application/usecases/queries"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/services"
	"workshop/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOpener struct{ mock.Mock }

func (m *MockOpener) Handle(ctx context.Context, cmd commands.OpenOrderCommand) (commands.OpenOrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.OpenOrderResult), args.Error(1)
}

type MockAdvancer struct{ mock.Mock }

func (m *MockAdvancer) Handle(ctx context.Context, cmd commands.AdvanceStageCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockDelayRegistrar struct{ mock.Mock }

func (m *MockDelayRegistrar) Handle(ctx context.Context, cmd commands.RegisterDelayCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockIrreparableMarker struct{ mock.Mock }

func (m *MockIrreparableMarker) Handle(ctx context.Context, cmd commands.MarkIrreparableCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockStageReader struct{ mock.Mock }

func (m *MockStageReader) Handle(ctx context.Context, q queries.GetOrderStageQuery) (queries.GetOrderStageQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.GetOrderStageQueryResponse), args.Error(1)
}

type MockHistoryReader struct{ mock.Mock }

func (m *MockHistoryReader) Handle(ctx context.Context, q queries.GetStageHistoryQuery) ([]queries.GetStageHistoryQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.GetStageHistoryQueryResponse), args.Error(1)
}

type MockAuditReader struct{ mock.Mock }

func (m *MockAuditReader) Handle(ctx context.Context, q queries.GetAuditTrailQuery) ([]queries.GetAuditTrailQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.GetAuditTrailQueryResponse), args.Error(1)
}

type MockUnreadReader struct{ mock.Mock }

func (m *MockUnreadReader) Handle(ctx context.Context, q queries.ListUnreadNotificationsQuery) ([]queries.ListUnreadNotificationsQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.ListUnreadNotificationsQueryResponse), args.Error(1)
}

type MockReadMarker struct{ mock.Mock }

func (m *MockReadMarker) Handle(ctx context.Context, cmd commands.MarkNotificationReadCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

// recordingObserver keeps every observed operation outcome.
type recordingObserver struct {
	ops  []string
	errs []error
}

func (o *recordingObserver) ObserveOperation(operation string, err error) {
	o.ops = append(o.ops, operation)
	o.errs = append(o.errs, err)
}

// onceRetrier runs fn once and counts the calls.
type onceRetrier struct{ calls int }

func (r *onceRetrier) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

type fixture struct {
	e        *echo.Echo
	h        Handlers
	opener   *MockOpener
	advancer *MockAdvancer
	delays   *MockDelayRegistrar
	marker   *MockIrreparableMarker
	stage    *MockStageReader
	history  *MockHistoryReader
	audit    *MockAuditReader
	unread   *MockUnreadReader
	markRead *MockReadMarker
	observer *recordingObserver
	retrier  *onceRetrier
}

func newFixture() *fixture {
	f := &fixture{
		e:        echo.New(),
		opener:   &MockOpener{},
		advancer: &MockAdvancer{},
		delays:   &MockDelayRegistrar{},
		marker:   &MockIrreparableMarker{},
		stage:    &MockStageReader{},
		history:  &MockHistoryReader{},
		audit:    &MockAuditReader{},
		unread:   &MockUnreadReader{},
		markRead: &MockReadMarker{},
		observer: &recordingObserver{},
		retrier:  &onceRetrier{},
	}
	f.h = Handlers{
		OpenOrder:       f.opener,
		Advance:         f.advancer,
		RegisterDelay:   f.delays,
		MarkIrreparable: f.marker,
		OrderStage:      f.stage,
		StageHistory:    f.history,
		AuditTrail:      f.audit,
		Unread:          f.unread,
		MarkRead:        f.markRead,
	}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("workshop_stage_operations_total 0\n"))
	})
	NewServer(f.h, f.retrier, f.observer).Register(f.e, metrics)
	return f
}

func (f *fixture) do(method, target, body string, actor string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) Error {
	t.Helper()
	var e Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = f.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "workshop_stage_operations_total")
}

func TestOpenOrder(t *testing.T) {
	f := newFixture()
	unitID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	f.opener.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.OpenOrderCommand) bool {
		return cmd.UnitID().IsEqual(unitID) && cmd.Actor() == "recepcion"
	})).Return(commands.OpenOrderResult{OrderID: orderID, Number: "OT-0001"}, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders", fmt.Sprintf(`{"unit_id":%q}`, unitID.String()), "recepcion")

	require.Equal(t, http.StatusCreated, rec.Code)
	var body OpenedOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, OpenedOrder{ID: orderID.String(), Number: "OT-0001"}, body)
	assert.Equal(t, []string{"open"}, f.observer.ops)
	f.opener.AssertExpectations(t)
}

func TestOpenOrder_BadInput(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/orders", `{"unit_id":"nope"}`, "recepcion")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/orders", fmt.Sprintf(`{"unit_id":%q}`, kernel.NewUUID()), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "actor")

	f.opener.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	assert.Empty(t, f.observer.ops)
}

func TestAdvanceStage(t *testing.T) {
	f := newFixture()
	orderID := kernel.NewUUID()

	f.advancer.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AdvanceStageCommand) bool {
		return cmd.OrderID().IsEqual(orderID) && cmd.Actor() == "mgarcia"
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/advance", "", "mgarcia")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, f.retrier.calls)
	assert.Equal(t, []error{nil}, f.observer.errs)
	f.advancer.AssertExpectations(t)
}

func TestAdvanceStage_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("%w: %w", services.ErrOrderNotFound, errs.NewObjectNotFoundError("order", "x")), http.StatusNotFound},
		{"last stage", fmt.Errorf("%w: ENTREGADO is the last stage", services.ErrNoNextStage), http.StatusConflict},
		{"irreparable", fmt.Errorf("%w: PIEZA_IRREPARABLE", services.ErrInvalidCurrentStage), http.StatusConflict},
		{"conflict", errs.NewStorageConflictError("lock order", errors.New("55P03")), http.StatusConflict},
		{"audit", fmt.Errorf("%w: %w", services.ErrAuditWriteFailed, errors.New("connection reset")), http.StatusInternalServerError},
		{"unexpected", errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.advancer.On("Handle", mock.Anything, mock.Anything).Return(tt.err).Once()

			rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/advance", "", "mgarcia")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, decodeError(t, rec).Code)
			require.Len(t, f.observer.errs, 1)
			assert.ErrorIs(t, f.observer.errs[0], tt.err)
		})
	}
}

func TestAdvanceStage_InvalidID(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/orders/42/advance", "", "mgarcia")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.advancer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestRegisterDelay(t *testing.T) {
	f := newFixture()

	f.delays.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RegisterDelayCommand) bool {
		return cmd.OrderNumber() == "OT-0042" && cmd.DelayCode() == "FALTA_REPUESTO" &&
			cmd.Note() == "esperando proveedor" && cmd.Actor() == "mgarcia"
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/by-number/OT-0042/delays",
		`{"code":"FALTA_REPUESTO","note":"esperando proveedor"}`, "mgarcia")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.delays.AssertExpectations(t)
}

func TestRegisterDelay_Rejections(t *testing.T) {
	f := newFixture()
	f.delays.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RegisterDelayCommand) bool {
		return cmd.DelayCode() == "PINTURA"
	})).Return(fmt.Errorf("%w: PINTURA", services.ErrDelayReasonNotFound))
	f.delays.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RegisterDelayCommand) bool {
		return cmd.DelayCode() == "OTRO"
	})).Return(fmt.Errorf("%w: current stage is ARMADO", services.ErrInvalidStageForDelay))

	rec := f.do(http.MethodPost, "/api/v1/orders/by-number/OT-0042/delays", `{"code":"PINTURA"}`, "mgarcia")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/orders/by-number/OT-0042/delays", `{"code":"OTRO"}`, "mgarcia")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "ARMADO")

	rec = f.do(http.MethodPost, "/api/v1/orders/by-number/OT-0042/delays", `{"code":""}`, "mgarcia")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkIrreparable(t *testing.T) {
	f := newFixture()
	f.marker.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.MarkIrreparableCommand) bool {
		return cmd.OrderNumber() == "OT-0042"
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders/by-number/OT-0042/irreparable", "", "mgarcia")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"irreparable"}, f.observer.ops)
	f.marker.AssertExpectations(t)
}

func TestGetOrderStage(t *testing.T) {
	f := newFixture()
	since := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 90)
	resp := queries.GetOrderStageQueryResponse{
		OrderID:       kernel.NewUUID(),
		Number:        "OT-0042",
		UnitID:        kernel.NewUUID(),
		StageCode:     "ENTREGADO",
		StageSince:    &since,
		WarrantyFrom:  &from,
		WarrantyUntil: &until,
		CreatedAt:     since.Add(-time.Hour),
	}
	f.stage.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderStageQuery) bool {
		return q.Number() == "OT-0042"
	})).Return(resp, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/by-number/OT-0042", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body OrderStage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ENTREGADO", body.Stage)
	require.NotNil(t, body.WarrantyUntil)
	assert.Equal(t, "2024-08-08", *body.WarrantyUntil)
	assert.Empty(t, f.observer.ops)
}

func TestGetOrderStage_NotFound(t *testing.T) {
	f := newFixture()
	f.stage.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderStageQueryResponse{}, fmt.Errorf("%w: OT-9999", services.ErrOrderNotFound))

	rec := f.do(http.MethodGet, "/api/v1/orders/by-number/OT-9999", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStageHistoryAndAudit(t *testing.T) {
	f := newFixture()
	started := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	code := "FALTA_REPUESTO"
	newValue := "DIAGNOSTICO"

	f.history.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetStageHistoryQueryResponse{
		{ID: kernel.NewUUID(), StageCode: "SEMI_ARMADO", StartedAt: started, Observation: "DEMORA: FALTA_REPUESTO", DelayCode: &code, Actor: "mgarcia"},
	}, nil).Once()
	f.audit.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetAuditTrailQueryResponse{
		{ID: kernel.NewUUID(), Field: "estado_actual", NewValue: &newValue, Actor: "mgarcia", RecordedAt: started},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/by-number/OT-0042/history", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []StageInterval
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "FALTA_REPUESTO", *history[0].DelayCode)
	assert.Nil(t, history[0].EndedAt)

	rec = f.do(http.MethodGet, "/api/v1/orders/by-number/OT-0042/audit", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var trail []AuditEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trail))
	require.Len(t, trail, 1)
	assert.Nil(t, trail[0].OldValue)
	assert.Equal(t, "DIAGNOSTICO", *trail[0].NewValue)
}

func TestListUnreadNotifications(t *testing.T) {
	f := newFixture()
	created := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	id := kernel.NewUUID()

	f.unread.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListUnreadNotificationsQuery) bool {
		return q.Number() == "OT-0042"
	})).Return([]queries.ListUnreadNotificationsQueryResponse{
		{ID: id, Kind: "MOTOR_LISTO", Title: "Motor listo para retirar", Message: "Tu motor (OT OT-0042) está listo para retirar.", CreatedAt: created},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/by-number/OT-0042/notifications/unread", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var inbox []Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inbox))
	require.Len(t, inbox, 1)
	assert.Equal(t, id.String(), inbox[0].ID)
	assert.Equal(t, "MOTOR_LISTO", inbox[0].Kind)
	assert.Equal(t, created, inbox[0].CreatedAt)
	f.unread.AssertExpectations(t)
}

func TestListUnreadNotifications_UnknownOrder(t *testing.T) {
	f := newFixture()
	f.unread.On("Handle", mock.Anything, mock.Anything).
		Return([]queries.ListUnreadNotificationsQueryResponse(nil), fmt.Errorf("%w: OT-9999", services.ErrOrderNotFound))

	rec := f.do(http.MethodGet, "/api/v1/orders/by-number/OT-9999/notifications/unread", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkNotificationRead(t *testing.T) {
	f := newFixture()
	id := kernel.NewUUID()

	f.markRead.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.MarkNotificationReadCommand) bool {
		return cmd.NotificationID().IsEqual(id)
	})).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/notifications/"+id.String()+"/read", "", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, f.retrier.calls)
	assert.Empty(t, f.observer.ops, "inbox acknowledgements are not stage operations")
	f.markRead.AssertExpectations(t)
}

func TestMarkNotificationRead_Errors(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		f := newFixture()
		f.markRead.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewObjectNotFoundError("notification", "x")).Once()

		rec := f.do(http.MethodPost, "/api/v1/notifications/"+kernel.NewUUID().String()+"/read", "", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodPost, "/api/v1/notifications/42/read", "", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.markRead.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}
