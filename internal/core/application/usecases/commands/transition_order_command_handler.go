package commands

import (
	"context"
	"log/slog"
	"time"

	"oshxona/internal/core/domain/model/order"
	"oshxona/internal/core/ports"
)

// TransitionOrderCommandHandler drives the status state machine for one
// order and fans the accepted change out to its watchers.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	ledger     ports.InventoryLedger
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewTransitionOrderCommandHandler creates a handler for status transitions.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	ledger ports.InventoryLedger,
	bus ports.NotificationBus,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		bus:        bus,
		logger:     logger,
	}
}

// Handle loads the order by code, applies the transition and persists it.
// An illegal transition fails with order.ErrInvalidTransition and leaves
// the order untouched. A same-status request commits nothing new but still
// succeeds. After commit, status_update events go to both the order topic
// and the customer's topic. Cancellation additionally hands the reserved
// quantities back to the ledger, mirroring the fire-and-forget reservation
// on placement.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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

	previous := aggregate.Status()
	if cmd.CourierID() != nil {
		err = aggregate.AssignCourier(*cmd.CourierID(), cmd.Actor(), cmd.Note())
	} else {
		err = aggregate.TransitionTo(cmd.Target(), cmd.Actor(), cmd.Note())
	}
	if err != nil {
		return err
	}

	if aggregate.Status() == previous {
		// Retried command, nothing changed.
		return nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if aggregate.Status() == order.Cancelled {
		h.releaseReservations(ctx, aggregate)
	}

	h.publishStatusUpdate(aggregate, previous)
	return nil
}

// releaseReservations compensates the counters reserved at placement. Best
// effort: the cancellation stands even if the ledger write fails.
func (h *TransitionOrderCommandHandler) releaseReservations(ctx context.Context, aggregate *order.Order) {
	branchID := aggregate.BranchID()
	if branchID == nil {
		return
	}

	for _, item := range aggregate.Items() {
		if err := h.ledger.Release(ctx, *branchID, item.ProductID(), item.Quantity()); err != nil {
			h.logger.WarnContext(ctx, "failed to release reserved inventory",
				"order_code", aggregate.Code(),
				"product_id", item.ProductID().String(),
				"error", err)
		}
	}
}

func (h *TransitionOrderCommandHandler) publishStatusUpdate(aggregate *order.Order, previous order.Status) {
	payload := map[string]any{
		"order_code": aggregate.Code(),
		"from":       previous.String(),
		"to":         aggregate.Status().String(),
	}
	at := time.Now().UTC()

	h.bus.Publish(ports.Event{
		Kind:    ports.EventStatusUpdate,
		Topic:   ports.OrderTopic(aggregate.Code()),
		At:      at,
		Payload: payload,
	})
	h.bus.Publish(ports.Event{
		Kind:    ports.EventStatusUpdate,
		Topic:   ports.UserTopic(aggregate.CustomerID()),
		At:      at,
		Payload: payload,
	})
}
