package commands

import (
	"context"

	"oshxona/internal/core/domain/model/branch"
)

// CreateZoneCommandHandler builds and persists a delivery zone for an
// existing branch.
type CreateZoneCommandHandler struct {
	uowFactory BranchUoWFactory
}

// NewCreateZoneCommandHandler creates a handler for zone creation.
func NewCreateZoneCommandHandler(uowFactory BranchUoWFactory) CreateZoneCommandHandler {
	return CreateZoneCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle validates the ring by constructing the zone aggregate, checks the
// branch exists, and persists the zone. A malformed ring fails with an
// error wrapping branch.ErrMalformedZone before anything is written.
func (h *CreateZoneCommandHandler) Handle(ctx context.Context, cmd CreateZoneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	zone, err := branch.NewDeliveryZone(
		cmd.ZoneID(),
		cmd.BranchID(),
		cmd.Name(),
		cmd.Vertices(),
		cmd.DeliveryFee(),
		cmd.FreeDeliveryAmount(),
		cmd.MinOrderAmount(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	branchRepo := uow.BranchRepository()
	if _, err = branchRepo.Get(ctx, cmd.BranchID()); err != nil {
		return err
	}

	if err = branchRepo.AddZone(ctx, zone); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
