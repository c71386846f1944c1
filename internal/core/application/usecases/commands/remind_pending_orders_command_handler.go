package commands

import (
	"context"
	"log/slog"
	"time"

	"oshxona/internal/core/ports"
)

// RemindPendingOrdersCommandHandler sweeps orders stuck in pending and
// notifies their branch topic.
type RemindPendingOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewRemindPendingOrdersCommandHandler creates a handler for pending order reminders.
func NewRemindPendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	bus ports.NotificationBus,
	logger *slog.Logger,
) RemindPendingOrdersCommandHandler {
	return RemindPendingOrdersCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
		logger:     logger,
	}
}

// Handle publishes an order_reminder event for every order still pending
// past the cutoff. An order keeps getting reminded on every sweep until
// staff confirm or cancel it.
func (h *RemindPendingOrdersCommandHandler) Handle(ctx context.Context, cmd RemindPendingOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	repo := h.uowFactory.Create().OrderRepository()

	orders, err := repo.GetPendingOlderThan(ctx, cmd.CutoffMinutes())
	if err != nil {
		return err
	}

	for _, o := range orders {
		branchID := o.BranchID()
		if branchID == nil {
			h.logger.WarnContext(ctx, "pending order has no branch, skipping reminder",
				"order_code", o.Code())
			continue
		}

		h.bus.Publish(ports.Event{
			Kind:  ports.EventOrderReminder,
			Topic: ports.BranchTopic(*branchID),
			At:    time.Now().UTC(),
			Payload: map[string]any{
				"order_code":      o.Code(),
				"pending_minutes": int(time.Since(o.CreatedAt()).Minutes()),
			},
		})
	}

	return nil
}
