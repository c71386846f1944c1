package branch

import (
	"errors"
	"fmt"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"
)

var (
	// ErrZoneIsNotConstructed is returned when a DeliveryZone instance was not
	// created through the NewDeliveryZone factory method.
	ErrZoneIsNotConstructed = errors.New("DeliveryZone must be created via NewDeliveryZone constructor")

	// ErrMalformedZone is the unwrap target for every zone rejected at
	// creation time because of an invalid polygon ring.
	ErrMalformedZone = errors.New("malformed delivery zone")
)

// DeliveryZone is an operator-drawn polygon mapping a geographic area to one
// serving branch. Zone containment takes precedence over raw distance during
// branch resolution, because operators may draw irregular shapes (excluding a
// river or a highway) that a pure-radius rule would serve incorrectly.
//
// Zone-level amounts override the branch settings for orders that resolved
// through this zone.
type DeliveryZone struct {
	id       kernel.UUID
	branchID kernel.UUID
	name     string
	polygon  kernel.Polygon

	deliveryFee        int64
	freeDeliveryAmount int64
	minOrderAmount     int64
	isActive           bool

	isConstructed bool
}

// NewDeliveryZone creates a DeliveryZone from an ordered vertex ring.
// A malformed ring (fewer than three vertices, duplicates, or a degenerate
// collinear run) is rejected here with an error wrapping ErrMalformedZone;
// resolution never has to re-validate geometry.
func NewDeliveryZone(
	id kernel.UUID,
	branchID kernel.UUID,
	name string,
	vertices []kernel.Location,
	deliveryFee int64,
	freeDeliveryAmount int64,
	minOrderAmount int64,
) (*DeliveryZone, error) {
	if err := errors.Join(id.Validate(), branchID.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("zone name")
	}
	if deliveryFee < 0 || freeDeliveryAmount < 0 || minOrderAmount < 0 {
		return nil, errs.NewValueIsInvalidError("zone amounts must not be negative")
	}

	polygon, err := kernel.NewPolygon(vertices)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedZone, err)
	}

	return &DeliveryZone{
		id:                 id,
		branchID:           branchID,
		name:               name,
		polygon:            polygon,
		deliveryFee:        deliveryFee,
		freeDeliveryAmount: freeDeliveryAmount,
		minOrderAmount:     minOrderAmount,
		isActive:           true,
		isConstructed:      true,
	}, nil
}

// RestoreDeliveryZone reconstructs a DeliveryZone from persistence.
// The ring went through NewDeliveryZone when it was created, so a failure
// here means corrupted stored data.
func RestoreDeliveryZone(
	id kernel.UUID,
	branchID kernel.UUID,
	name string,
	vertices []kernel.Location,
	deliveryFee int64,
	freeDeliveryAmount int64,
	minOrderAmount int64,
	isActive bool,
) (*DeliveryZone, error) {
	zone, err := NewDeliveryZone(id, branchID, name, vertices, deliveryFee, freeDeliveryAmount, minOrderAmount)
	if err != nil {
		return nil, err
	}

	zone.isActive = isActive
	return zone, nil
}

// Validate ensures the DeliveryZone instance was properly constructed.
func (z *DeliveryZone) Validate() error {
	if z == nil || !z.isConstructed {
		return ErrZoneIsNotConstructed
	}
	return nil
}

// ID returns the zone's unique identifier.
func (z *DeliveryZone) ID() kernel.UUID {
	return z.id
}

// BranchID returns the branch this zone routes to.
func (z *DeliveryZone) BranchID() kernel.UUID {
	return z.branchID
}

// Name returns the operator-assigned zone name.
func (z *DeliveryZone) Name() string {
	return z.name
}

// Polygon returns the validated zone ring.
func (z *DeliveryZone) Polygon() kernel.Polygon {
	return z.polygon
}

// DeliveryFee returns the zone's delivery fee.
func (z *DeliveryZone) DeliveryFee() int64 {
	return z.deliveryFee
}

// FreeDeliveryAmount returns the zone's free-delivery threshold (inclusive).
func (z *DeliveryZone) FreeDeliveryAmount() int64 {
	return z.freeDeliveryAmount
}

// MinOrderAmount returns the zone's minimum order subtotal.
func (z *DeliveryZone) MinOrderAmount() int64 {
	return z.minOrderAmount
}

// IsActive reports whether the zone participates in resolution.
func (z *DeliveryZone) IsActive() bool {
	return z.isActive
}

// Contains reports whether the coordinate lies inside the zone polygon.
func (z *DeliveryZone) Contains(loc kernel.Location) (bool, error) {
	if err := z.Validate(); err != nil {
		return false, err
	}
	return z.polygon.Contains(loc)
}

// Deactivate removes the zone from resolution.
func (z *DeliveryZone) Deactivate() {
	z.isActive = false
}
