package queries

import (
	"context"
	"time"

	"oshxona/internal/core/domain/services"
	"oshxona/internal/core/ports"
)

// ResolveBranchQueryHandler runs the geometric branch resolution for a
// coordinate without placing an order. Storefronts use it to show the
// serving branch and the delivery quote while the customer is still
// building a cart.
//
// Unlike the other query handlers this one loads domain aggregates instead
// of raw rows: resolution needs the zone polygons and branch settings, not
// a projection.
type ResolveBranchQueryHandler struct {
	branches   ports.BranchRepository
	resolver   services.BranchResolver
	calculator services.FeeEtaCalculator
}

// NewResolveBranchQueryHandler creates a handler for coordinate resolution.
func NewResolveBranchQueryHandler(branches ports.BranchRepository) ResolveBranchQueryHandler {
	return ResolveBranchQueryHandler{
		branches:   branches,
		resolver:   services.NewBranchResolver(),
		calculator: services.NewFeeEtaCalculator(),
	}
}

// Handle resolves the coordinate. An unserviceable coordinate fails with
// services.ErrNotServiceable.
func (h ResolveBranchQueryHandler) Handle(ctx context.Context, query ResolveBranchQuery) (ResolveBranchQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ResolveBranchQueryResponse{}, err
	}

	branches, err := h.branches.GetAllActive(ctx)
	if err != nil {
		return ResolveBranchQueryResponse{}, err
	}
	zones, err := h.branches.GetActiveZones(ctx)
	if err != nil {
		return ResolveBranchQueryResponse{}, err
	}

	resolution, err := h.resolver.Resolve(query.Location(), branches, zones)
	if err != nil {
		return ResolveBranchQueryResponse{}, err
	}

	quote, err := h.calculator.Quote(resolution, query.Subtotal(), time.Now().UTC())
	if err != nil {
		return ResolveBranchQueryResponse{}, err
	}

	response := ResolveBranchQueryResponse{
		BranchID:    resolution.Branch.ID().String(),
		BranchName:  resolution.Branch.Name(),
		Source:      string(resolution.Source),
		DistanceKm:  resolution.DistanceKm,
		DeliveryFee: quote.Fee,
		EtaMinutes:  quote.EtaMinutes,
	}
	if resolution.Zone != nil {
		response.ZoneName = resolution.Zone.Name()
	}

	return response, nil
}
