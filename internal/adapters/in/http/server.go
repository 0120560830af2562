// Package http exposes the workshop operations over a small JSON API.
package http

import (
	"context"
	"net/http"

	"workshop/internal/core/application/usecases/commands"
	"workshop/internal/core/application/usecases/queries"
	"workshop/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// ActorHeader carries the name of the user performing an operation.
const ActorHeader = "X-Actor"

// Handler ports, satisfied by the command and query handlers.
type (
	OrderOpener interface {
		Handle(ctx context.Context, cmd commands.OpenOrderCommand) (commands.OpenOrderResult, error)
	}
	StageAdvancer interface {
		Handle(ctx context.Context, cmd commands.AdvanceStageCommand) error
	}
	DelayRegistrar interface {
		Handle(ctx context.Context, cmd commands.RegisterDelayCommand) error
	}
	IrreparableMarker interface {
		Handle(ctx context.Context, cmd commands.MarkIrreparableCommand) error
	}
	OrderStageReader interface {
		Handle(ctx context.Context, q queries.GetOrderStageQuery) (queries.GetOrderStageQueryResponse, error)
	}
	StageHistoryReader interface {
		Handle(ctx context.Context, q queries.GetStageHistoryQuery) ([]queries.GetStageHistoryQueryResponse, error)
	}
	AuditTrailReader interface {
		Handle(ctx context.Context, q queries.GetAuditTrailQuery) ([]queries.GetAuditTrailQueryResponse, error)
	}
	UnreadNotificationsReader interface {
		Handle(ctx context.Context, q queries.ListUnreadNotificationsQuery) ([]queries.ListUnreadNotificationsQueryResponse, error)
	}
	NotificationReadMarker interface {
		Handle(ctx context.Context, cmd commands.MarkNotificationReadCommand) error
	}

	// Retrier reruns fn while it fails with a storage conflict.
	Retrier interface {
		Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error
	}

	// OperationObserver records the outcome of each state-changing operation.
	OperationObserver interface {
		ObserveOperation(operation string, err error)
	}
)

// Handlers groups everything the server dispatches to.
type Handlers struct {
	OpenOrder       OrderOpener
	Advance         StageAdvancer
	RegisterDelay   DelayRegistrar
	MarkIrreparable IrreparableMarker
	OrderStage      OrderStageReader
	StageHistory    StageHistoryReader
	AuditTrail      AuditTrailReader
	Unread          UnreadNotificationsReader
	MarkRead        NotificationReadMarker
}

type Server struct {
	h        Handlers
	retrier  Retrier
	observer OperationObserver
}

func NewServer(h Handlers, retrier Retrier, observer OperationObserver) *Server {
	return &Server{h: h, retrier: retrier, observer: observer}
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo, metrics http.Handler) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}

	api := e.Group("/api/v1/orders")
	api.POST("", s.OpenOrder)
	api.POST("/:id/advance", s.AdvanceStage)

	byNumber := api.Group("/by-number/:number")
	byNumber.GET("", s.GetOrderStage)
	byNumber.GET("/history", s.GetStageHistory)
	byNumber.GET("/audit", s.GetAuditTrail)
	byNumber.POST("/delays", s.RegisterDelay)
	byNumber.POST("/irreparable", s.MarkIrreparable)
	byNumber.GET("/notifications/unread", s.ListUnreadNotifications)

	e.POST("/api/v1/notifications/:id/read", s.MarkNotificationRead)
}

// OpenOrder handles POST /api/v1/orders.
func (s *Server) OpenOrder(c echo.Context) error {
	var req NewOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	unitID, err := kernel.UUIDFromString(req.UnitID)
	if err != nil {
		return badRequest(c, "Invalid unit_id: "+err.Error())
	}
	cmd, err := commands.NewOpenOrderCommand(unitID, actor(c))
	if err != nil {
		return badRequest(c, err.Error())
	}

	var res commands.OpenOrderResult
	err = s.run(c, "open", func(ctx context.Context) error {
		var handleErr error
		res, handleErr = s.h.OpenOrder.Handle(ctx, cmd)
		return handleErr
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, OpenedOrder{ID: res.OrderID.String(), Number: res.Number})
}

// AdvanceStage handles POST /api/v1/orders/:id/advance.
func (s *Server) AdvanceStage(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid order id: "+err.Error())
	}
	cmd, err := commands.NewAdvanceStageCommand(orderID, actor(c))
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.run(c, "advance", func(ctx context.Context) error {
		return s.h.Advance.Handle(ctx, cmd)
	}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterDelay handles POST /api/v1/orders/by-number/:number/delays.
func (s *Server) RegisterDelay(c echo.Context) error {
	var req NewDelayRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	cmd, err := commands.NewRegisterDelayCommand(c.Param("number"), req.Code, req.Note, actor(c))
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.run(c, "delay", func(ctx context.Context) error {
		return s.h.RegisterDelay.Handle(ctx, cmd)
	}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkIrreparable handles POST /api/v1/orders/by-number/:number/irreparable.
func (s *Server) MarkIrreparable(c echo.Context) error {
	cmd, err := commands.NewMarkIrreparableCommand(c.Param("number"), actor(c))
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.run(c, "irreparable", func(ctx context.Context) error {
		return s.h.MarkIrreparable.Handle(ctx, cmd)
	}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) GetOrderStage(c echo.Context) error {
	q, err := queries.NewGetOrderStageQuery(c.Param("number"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	resp, err := s.h.OrderStage.Handle(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderStage(resp))
}

func (s *Server) GetStageHistory(c echo.Context) error {
	q, err := queries.NewGetStageHistoryQuery(c.Param("number"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	rows, err := s.h.StageHistory.Handle(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}

	response := make([]StageInterval, len(rows))
	for i, r := range rows {
		response[i] = toStageInterval(r)
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) GetAuditTrail(c echo.Context) error {
	q, err := queries.NewGetAuditTrailQuery(c.Param("number"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	rows, err := s.h.AuditTrail.Handle(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}

	response := make([]AuditEntry, len(rows))
	for i, r := range rows {
		response[i] = toAuditEntry(r)
	}
	return c.JSON(http.StatusOK, response)
}

// ListUnreadNotifications handles GET /api/v1/orders/by-number/:number/notifications/unread.
func (s *Server) ListUnreadNotifications(c echo.Context) error {
	q, err := queries.NewListUnreadNotificationsQuery(c.Param("number"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	rows, err := s.h.Unread.Handle(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}

	response := make([]Notification, len(rows))
	for i, r := range rows {
		response[i] = toNotification(r)
	}
	return c.JSON(http.StatusOK, response)
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid notification id: "+err.Error())
	}
	cmd, err := commands.NewMarkNotificationReadCommand(id)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.retry(c.Request().Context(), "mark_read", func(ctx context.Context) error {
		return s.h.MarkRead.Handle(ctx, cmd)
	}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// run executes a stage operation through the retrier and records its outcome.
func (s *Server) run(c echo.Context, operation string, fn func(ctx context.Context) error) error {
	err := s.retry(c.Request().Context(), operation, fn)
	if s.observer != nil {
		s.observer.ObserveOperation(operation, err)
	}
	return err
}

func (s *Server) retry(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if s.retrier == nil {
		return fn(ctx)
	}
	return s.retrier.Do(ctx, operation, fn)
}

func actor(c echo.Context) string {
	return c.Request().Header.Get(ActorHeader)
}
