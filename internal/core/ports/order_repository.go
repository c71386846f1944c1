package ports

import (
	"context"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByCode retrieves an order aggregate by its human-facing order code.
	GetByCode(ctx context.Context, code string) (*order.Order, error)

	// GetActiveByBranch retrieves every non-terminal order assigned to a branch,
	// oldest first. Used by branch dashboards and the reminder job.
	GetActiveByBranch(ctx context.Context, branchID kernel.UUID) ([]*order.Order, error)

	// GetPendingOlderThan retrieves pending orders created before the cutoff.
	GetPendingOlderThan(ctx context.Context, cutoffMinutes int) ([]*order.Order, error)
}
