package ports

import (
	"context"

	"oshxona/internal/core/domain/model/inventory"
	"oshxona/internal/core/domain/model/kernel"
)

// InventoryLedger defines the contract for per-branch product counters.
//
// Reserve and Release must be atomic per (branch, product): concurrent
// reservations against the same pair must never both succeed past the
// configured limits, and the first reservation for an unknown pair creates
// the record with the increment applied in the same step. Implementations
// apply the daily reset as part of the same operation.
type InventoryLedger interface {
	// Reserve atomically consumes quantity for a product at a branch.
	// A refusal wraps inventory.ErrReservationRejected with the reason.
	Reserve(ctx context.Context, branchID, productID kernel.UUID, qty int) (inventory.Reservation, error)

	// Release atomically returns a previously reserved quantity.
	Release(ctx context.Context, branchID, productID kernel.UUID, qty int) error

	// SetLimits creates or updates the stock and daily limit for a product
	// at a branch. Nil values mean untracked stock and no cap.
	SetLimits(ctx context.Context, branchID, productID kernel.UUID, stock, dailyLimit *int) error

	// SetAvailability switches a product on or off for a branch.
	SetAvailability(ctx context.Context, branchID, productID kernel.UUID, isAvailable bool) error

	// Get retrieves the current record for a pair, with the daily reset
	// already applied to the returned view.
	Get(ctx context.Context, branchID, productID kernel.UUID) (*inventory.Record, error)
}
