package commands

import (
	"errors"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

var ErrCreateZoneCommandIsNotConstructed = errors.New(
	"CreateZoneCommand must be created via NewCreateZoneCommand constructor",
)

// CreateZoneCommand represents a request to add a delivery zone polygon to
// a branch. Geometry is validated when the zone aggregate is built, so a
// malformed ring is rejected at creation time and never reaches resolution.
type CreateZoneCommand struct { //nolint:recvcheck //using for validation
	zoneID             kernel.UUID
	branchID           kernel.UUID
	name               string
	vertices           []kernel.Location
	deliveryFee        int64
	freeDeliveryAmount int64
	minOrderAmount     int64

	guard guard.ConstructorGuard
}

// NewCreateZoneCommand creates a command to add a delivery zone.
func NewCreateZoneCommand(
	zoneID kernel.UUID,
	branchID kernel.UUID,
	name string,
	vertices []kernel.Location,
	deliveryFee int64,
	freeDeliveryAmount int64,
	minOrderAmount int64,
) (CreateZoneCommand, error) {
	cmd := CreateZoneCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(zoneID.Validate(), branchID.Validate()); err != nil {
		return CreateZoneCommand{}, err
	}
	if name == "" {
		return CreateZoneCommand{}, errs.NewValueIsRequiredError("name")
	}

	cmd.zoneID = zoneID
	cmd.branchID = branchID
	cmd.name = name
	cmd.vertices = vertices
	cmd.deliveryFee = deliveryFee
	cmd.freeDeliveryAmount = freeDeliveryAmount
	cmd.minOrderAmount = minOrderAmount

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateZoneCommand) Validate() error {
	return c.guard.Validate(ErrCreateZoneCommandIsNotConstructed)
}

// ZoneID returns the identifier for the new zone.
func (c CreateZoneCommand) ZoneID() kernel.UUID {
	return c.zoneID
}

// BranchID returns the branch the zone routes to.
func (c CreateZoneCommand) BranchID() kernel.UUID {
	return c.branchID
}

// Name returns the display name of the zone.
func (c CreateZoneCommand) Name() string {
	return c.name
}

// Vertices returns the ordered polygon ring.
func (c CreateZoneCommand) Vertices() []kernel.Location {
	return c.vertices
}

// DeliveryFee returns the fee for orders resolved through this zone.
func (c CreateZoneCommand) DeliveryFee() int64 {
	return c.deliveryFee
}

// FreeDeliveryAmount returns the zone's free-delivery threshold.
func (c CreateZoneCommand) FreeDeliveryAmount() int64 {
	return c.freeDeliveryAmount
}

// MinOrderAmount returns the zone's minimum order amount.
func (c CreateZoneCommand) MinOrderAmount() int64 {
	return c.minOrderAmount
}
