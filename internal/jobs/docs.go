// Package jobs provides scheduled background tasks for the workshop service.
//
// Jobs run on github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// NotificationRelayJob drains the notification outbox: every tick it relays a
// batch of pending ready-for-pickup notifications to the message broker. Rows
// whose publish fails stay pending and are retried on the next tick.
//
// # Usage
//
//	relay, err := jobs.NewNotificationRelayJob(relayHandler, "*/5 * * * * *", 50, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	jobManager := jobs.NewJobManager(relay)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal(err)
//	}
//	defer jobManager.StopAll()
//
// A tick is skipped while the previous batch is still running.
package jobs
