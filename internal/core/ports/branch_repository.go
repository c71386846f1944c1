package ports

import (
	"context"

	"oshxona/internal/core/domain/model/branch"
	"oshxona/internal/core/domain/model/kernel"
)

// BranchRepository defines the persistence contract for branches and their
// delivery zones. Branches are administered out of band, so the ordering
// flow only ever reads them; zones are also created through the API.
type BranchRepository interface {
	// Get retrieves a branch by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*branch.Branch, error)

	// GetAllActive retrieves every active branch.
	GetAllActive(ctx context.Context) ([]*branch.Branch, error)

	// GetActiveZones retrieves every active delivery zone across all branches.
	GetActiveZones(ctx context.Context) ([]*branch.DeliveryZone, error)

	// AddZone persists a new delivery zone for a branch.
	AddZone(ctx context.Context, zone *branch.DeliveryZone) error
}
