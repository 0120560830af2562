package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"workshop/internal/adapters/out/metrics"
	"workshop/internal/adapters/out/postgres"
	"workshop/internal/adapters/out/postgres/auditrepo"
	"workshop/internal/adapters/out/postgres/catalogrepo"
	"workshop/internal/adapters/out/rabbit"
	"workshop/internal/core/application/usecases/commands"
	"workshop/internal/core/application/usecases/queries"
	"workshop/internal/core/domain/services"
	"workshop/internal/core/ports"
	"workshop/internal/pkg/clock"

	"gorm.io/gorm"
)

const retryInitialInterval = 50 * time.Millisecond

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	clock      clock.Clock
	uowFactory *postgres.GormUnitOfWorkFactory
	workflow   *services.StageWorkflow
	metrics    *metrics.Metrics

	publisher ports.NotificationPublisher
	closers   []func() error
}

// NewCompositionRoot loads the catalogs once and builds the shared adapters.
func NewCompositionRoot(ctx context.Context, configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	catalogs := catalogrepo.NewGormCatalogRepository(gormDB)
	stages, err := catalogs.LoadStages(ctx)
	if err != nil {
		return nil, err
	}
	reasons, err := catalogs.LoadDelayReasons(ctx)
	if err != nil {
		return nil, err
	}
	workflow, err := services.NewStageWorkflow(stages, reasons)
	if err != nil {
		return nil, err
	}

	m, err := metrics.New()
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		logger:     logger,
		clock:      clock.System{},
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, configs.DBLockTimeout),
		workflow:   workflow,
		metrics:    m,
	}, nil
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) workflowUoWFactory() commands.WorkflowUoWFactory {
	return FuncWorkflowUoWFactory(func() commands.WorkflowUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationUoWFactory() commands.NotificationUoWFactory {
	return FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) auditLedger() ports.AuditLedger {
	return c.metrics.InstrumentAuditLedger(auditrepo.NewGormAuditLedger(c.gormDB))
}

func (c *CompositionRoot) CreateConflictRetrier() commands.ConflictRetrier {
	return commands.NewConflictRetrier(c.configs.ConflictRetryAttempts, retryInitialInterval, c.logger)
}

func (c *CompositionRoot) CreateOpenOrderCommandHandler() *commands.OpenOrderCommandHandler {
	h := commands.NewOpenOrderCommandHandler(c.workflowUoWFactory(), c.clock)
	return &h
}

func (c *CompositionRoot) CreateAdvanceStageCommandHandler() *commands.AdvanceStageCommandHandler {
	trigger := commands.NewOutboxNotificationTrigger(c.notificationUoWFactory(), c.clock, c.logger)
	h := commands.NewAdvanceStageCommandHandler(c.workflowUoWFactory(), c.workflow, c.auditLedger(), trigger, c.clock, c.logger)
	return &h
}

func (c *CompositionRoot) CreateRegisterDelayCommandHandler() *commands.RegisterDelayCommandHandler {
	h := commands.NewRegisterDelayCommandHandler(c.workflowUoWFactory(), c.workflow, c.auditLedger(), c.clock, c.logger)
	return &h
}

func (c *CompositionRoot) CreateMarkIrreparableCommandHandler() *commands.MarkIrreparableCommandHandler {
	h := commands.NewMarkIrreparableCommandHandler(c.workflowUoWFactory(), c.workflow, c.auditLedger(), c.clock, c.logger)
	return &h
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() *commands.MarkNotificationReadCommandHandler {
	h := commands.NewMarkNotificationReadCommandHandler(c.notificationUoWFactory(), c.clock)
	return &h
}

// CreateRelayNotificationsCommandHandler publishes to RabbitMQ when AMQP_URL is
// set and to the log otherwise.
func (c *CompositionRoot) CreateRelayNotificationsCommandHandler() (*commands.RelayNotificationsCommandHandler, error) {
	publisher, err := c.notificationPublisher()
	if err != nil {
		return nil, err
	}
	h := commands.NewRelayNotificationsCommandHandler(c.notificationUoWFactory(), publisher, c.clock, c.logger)
	return &h, nil
}

func (c *CompositionRoot) notificationPublisher() (ports.NotificationPublisher, error) {
	if c.publisher != nil {
		return c.publisher, nil
	}

	var publisher ports.NotificationPublisher
	if c.configs.AMQPURL == "" {
		c.logger.Warn("AMQP_URL is not set, notifications are only logged")
		publisher = rabbit.NewLogPublisher(c.logger)
	} else {
		p, err := rabbit.Dial(c.configs.AMQPURL, c.configs.AMQPExchange, c.logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, p.Close)
		publisher = p
	}

	c.publisher = c.metrics.InstrumentPublisher(publisher)
	return c.publisher, nil
}

func (c *CompositionRoot) CreateGetOrderStageQueryHandler() queries.GetOrderStageQueryHandler {
	return queries.NewGetOrderStageQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStageHistoryQueryHandler() queries.GetStageHistoryQueryHandler {
	return queries.NewGetStageHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAuditTrailQueryHandler() queries.GetAuditTrailQueryHandler {
	return queries.NewGetAuditTrailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListUnreadNotificationsQueryHandler() queries.ListUnreadNotificationsQueryHandler {
	return queries.NewListUnreadNotificationsQueryHandler(c.gormDB)
}

// Close releases the broker connection, if one was opened.
func (c *CompositionRoot) Close() error {
	var err error
	for _, closeFn := range c.closers {
		err = errors.Join(err, closeFn())
	}
	c.closers = nil
	return err
}

type FuncWorkflowUoWFactory func() commands.WorkflowUoW

func (f FuncWorkflowUoWFactory) Create() commands.WorkflowUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}
