package commands

import (
	"context"

	"oshxona/internal/core/domain/model/inventory"
	"oshxona/internal/core/ports"
)

// ReserveInventoryCommandHandler applies a direct reservation through the
// ledger. The ledger does its own atomic bookkeeping, so no unit of work
// is involved.
type ReserveInventoryCommandHandler struct {
	ledger ports.InventoryLedger
}

// NewReserveInventoryCommandHandler creates a handler for direct reservations.
func NewReserveInventoryCommandHandler(ledger ports.InventoryLedger) ReserveInventoryCommandHandler {
	return ReserveInventoryCommandHandler{
		ledger: ledger,
	}
}

// Handle reserves the quantity. A refusal surfaces as an error wrapping
// inventory.ErrReservationRejected so callers can distinguish it from
// infrastructure failures.
func (h *ReserveInventoryCommandHandler) Handle(ctx context.Context, cmd ReserveInventoryCommand) (inventory.Reservation, error) {
	if err := cmd.Validate(); err != nil {
		return inventory.Reservation{}, err
	}

	return h.ledger.Reserve(ctx, cmd.BranchID(), cmd.ProductID(), cmd.Quantity())
}
