package jobs

import (
	"context"
	"log/slog"

	"workshop/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultRelaySchedule runs the relay every five seconds.
const DefaultRelaySchedule = "*/5 * * * * *"

// NotificationRelayer drains a batch of the notification outbox.
type NotificationRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayNotificationsCommand) (int, error)
}

// NotificationRelayJob periodically hands pending ready-for-pickup
// notifications to the publisher.
type NotificationRelayJob struct {
	relayer  NotificationRelayer
	schedule string
	cmd      commands.RelayNotificationsCommand
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewNotificationRelayJob(
	relayer NotificationRelayer,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) (*NotificationRelayJob, error) {
	cmd, err := commands.NewRelayNotificationsCommand(batchSize)
	if err != nil {
		return nil, err
	}
	if schedule == "" {
		schedule = DefaultRelaySchedule
	}
	return &NotificationRelayJob{
		relayer:  relayer,
		schedule: schedule,
		cmd:      cmd,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "notification_relay_job"),
	}, nil
}

// RunOnce relays a single batch.
func (j *NotificationRelayJob) RunOnce(ctx context.Context) {
	sent, err := j.relayer.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification relay failed", "error", err)
		return
	}
	if sent > 0 {
		j.logger.InfoContext(ctx, "Notifications relayed", "sent", sent)
	}
}

func (j *NotificationRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification relay job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running batch to finish.
func (j *NotificationRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification relay job stopped")
}
