// Package jobs provides scheduled background tasks for the order engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations.
//
// # Available Jobs
//
// 1. PendingOrderReminderJob - Runs every minute and nudges branch dashboards
// about orders that have sat in pending past the configured cutoff.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(remindHandler, cutoffMinutes, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Reminder sweeps are best effort: a failed sweep is logged and retried on
// the next tick, it never stops the scheduler.
package jobs
