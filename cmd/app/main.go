package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workshop/cmd"
	httpin "workshop/internal/adapters/in/http"
	postgres_adapter "workshop/internal/adapters/out/postgres"
	"workshop/internal/adapters/out/tracing"
	"workshop/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatal(err)
	}

	tp, err := tracing.NewProvider(configs.TracesExporter, os.Stdout)
	if err != nil {
		log.Fatalf("failed to build tracer provider: %v", err)
	}
	otel.SetTracerProvider(tp)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracing.Shutdown(shutdownCtx, tp); shutdownErr != nil {
			logger.Error("Failed to flush traces", "error", shutdownErr)
		}
	}()

	gormDB, err := openDB(ctx, configs)
	if err != nil {
		log.Fatalf("failed to prepare database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, logger)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("Failed to close adapters", "error", closeErr)
		}
	}()

	jobManager, err := startJobs(app, configs, logger)
	if err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort, logger)
}

func openDB(ctx context.Context, configs cmd.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err = postgres_adapter.Migrate(ctx, gormDB); err != nil {
		return nil, err
	}
	if configs.SeedCatalogs {
		if err = postgres_adapter.SeedCatalogs(ctx, gormDB); err != nil {
			return nil, err
		}
	}
	return gormDB, nil
}

func startJobs(app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) (*jobs.JobManager, error) {
	relayHandler, err := app.CreateRelayNotificationsCommandHandler()
	if err != nil {
		return nil, err
	}
	relayJob, err := jobs.NewNotificationRelayJob(
		relayHandler, configs.NotificationRelaySchedule, configs.NotificationRelayBatch, logger,
	)
	if err != nil {
		return nil, err
	}

	jobManager := jobs.NewJobManager(relayJob)
	if err = jobManager.StartAll(); err != nil {
		return nil, err
	}
	return jobManager, nil
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	server := httpin.NewServer(httpin.Handlers{
		OpenOrder:       app.CreateOpenOrderCommandHandler(),
		Advance:         app.CreateAdvanceStageCommandHandler(),
		RegisterDelay:   app.CreateRegisterDelayCommandHandler(),
		MarkIrreparable: app.CreateMarkIrreparableCommandHandler(),
		OrderStage:      app.CreateGetOrderStageQueryHandler(),
		StageHistory:    app.CreateGetStageHistoryQueryHandler(),
		AuditTrail:      app.CreateGetAuditTrailQueryHandler(),
		Unread:          app.CreateListUnreadNotificationsQueryHandler(),
		MarkRead:        app.CreateMarkNotificationReadCommandHandler(),
	}, app.CreateConflictRetrier(), app.Metrics())
	server.Register(e, app.Metrics().Handler())

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", "error", err)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
