package jobs

import (
	"context"
	"log/slog"

	"oshxona/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PendingOrderReminderJob periodically reminds branches about orders that
// have been waiting for confirmation too long.
type PendingOrderReminderJob struct {
	handler       commands.RemindPendingOrdersCommandHandler
	cutoffMinutes int
	cron          *cron.Cron
	logger        *slog.Logger
}

// NewPendingOrderReminderJob creates a job that sweeps pending orders once
// a minute. cutoffMinutes is how long an order may stay pending before its
// branch is nudged.
func NewPendingOrderReminderJob(
	handler commands.RemindPendingOrdersCommandHandler,
	cutoffMinutes int,
	logger *slog.Logger,
) *PendingOrderReminderJob {
	return &PendingOrderReminderJob{
		handler:       handler,
		cutoffMinutes: cutoffMinutes,
		cron:          cron.New(),
		logger:        logger.With("component", "pending_order_reminder_job"),
	}
}

// Start begins the reminder job to run every minute.
func (j *PendingOrderReminderJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewRemindPendingOrdersCommand(j.cutoffMinutes)
		if err != nil {
			j.logger.ErrorContext(ctx, "Invalid reminder cutoff", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Pending order reminder sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending order reminder job started (running every minute)",
		"cutoff_minutes", j.cutoffMinutes)
	return nil
}

// Stop stops the reminder job.
func (j *PendingOrderReminderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Pending order reminder job stopped")
}
