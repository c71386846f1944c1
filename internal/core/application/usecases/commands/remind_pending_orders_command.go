package commands

import (
	"errors"

	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

// ErrRemindPendingOrdersCommandIsNotConstructed is returned when attempting
// to use a command created outside of its constructor.
var ErrRemindPendingOrdersCommandIsNotConstructed = errors.New(
	"RemindPendingOrdersCommand must be created via NewRemindPendingOrdersCommand constructor")

// RemindPendingOrdersCommand asks for a reminder notification for every
// order that has sat in pending longer than the cutoff.
type RemindPendingOrdersCommand struct { //nolint:recvcheck //using for validation
	cutoffMinutes int

	guard guard.ConstructorGuard
}

// NewRemindPendingOrdersCommand creates a command to nudge branches about
// stale pending orders.
func NewRemindPendingOrdersCommand(cutoffMinutes int) (RemindPendingOrdersCommand, error) {
	if cutoffMinutes <= 0 {
		return RemindPendingOrdersCommand{}, errs.NewValueIsOutOfRangeError(
			"cutoffMinutes", cutoffMinutes, 1, maxReminderCutoffMinutes)
	}
	if cutoffMinutes > maxReminderCutoffMinutes {
		return RemindPendingOrdersCommand{}, errs.NewValueIsOutOfRangeError(
			"cutoffMinutes", cutoffMinutes, 1, maxReminderCutoffMinutes)
	}

	return RemindPendingOrdersCommand{
		cutoffMinutes: cutoffMinutes,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

const maxReminderCutoffMinutes = 24 * 60

// Validate checks that the command was properly constructed.
func (c RemindPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRemindPendingOrdersCommandIsNotConstructed)
}

// CutoffMinutes returns how long an order may stay pending before a
// reminder is sent.
func (c RemindPendingOrdersCommand) CutoffMinutes() int {
	return c.cutoffMinutes
}
