package commands

import (
	"context"
	"time"

	"oshxona/internal/core/ports"
)

// CheckInCommandHandler records a customer's arrival on an eat-in or table
// order and tells the branch about it.
type CheckInCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
}

// NewCheckInCommandHandler creates a handler for customer check-ins.
func NewCheckInCommandHandler(uowFactory OrderUoWFactory, bus ports.NotificationBus) CheckInCommandHandler {
	return CheckInCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
	}
}

// Handle records the arrival without changing the fulfillment status and
// publishes a customer_arrived event to the branch topic. The event is kept
// apart from status_update because no state transition happened.
func (h *CheckInCommandHandler) Handle(ctx context.Context, cmd CheckInCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return err
	}

	if err = aggregate.CheckIn(cmd.TableNumber(), cmd.Actor()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.bus.Publish(ports.Event{
		Kind:  ports.EventCustomerArrived,
		Topic: ports.BranchTopic(*aggregate.BranchID()),
		At:    time.Now().UTC(),
		Payload: map[string]any{
			"order_code":   aggregate.Code(),
			"table_number": aggregate.TableNumber(),
		},
	})

	return nil
}
