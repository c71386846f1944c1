package services

import (
	"math"
	"time"
)

const (
	// BasePreparationMinutes is the kitchen time included in every estimate.
	BasePreparationMinutes = 20
	// TravelMinutesPerKm converts delivery distance into travel time.
	TravelMinutesPerKm = 3
)

// DeliveryQuote is the fee and estimated readiness for one order.
type DeliveryQuote struct {
	Fee        int64
	EtaMinutes int
	EtaAt      time.Time
}

// FeeEtaCalculator is a domain service that prices delivery and estimates
// completion time for an order bound to a resolved branch.
//
// Pricing rules:
//   - The zone's fee and free-delivery threshold override the branch
//     settings when the order was resolved through a zone.
//   - A subtotal at or above the free-delivery threshold makes delivery free.
//   - Distance past the branch's surcharge threshold adds a per-kilometer
//     surcharge on top of the base fee.
//
// The estimate never fails on an unknown or zero distance; it degrades to
// the base preparation time.
type FeeEtaCalculator struct{}

// NewFeeEtaCalculator creates a new FeeEtaCalculator instance.
func NewFeeEtaCalculator() FeeEtaCalculator {
	return FeeEtaCalculator{}
}

// Quote prices delivery for the subtotal and distance against the resolved
// branch, honoring zone overrides when a zone is present.
func (c FeeEtaCalculator) Quote(resolution BranchResolution, subtotal int64, now time.Time) (DeliveryQuote, error) {
	if err := resolution.Branch.Validate(); err != nil {
		return DeliveryQuote{}, err
	}

	settings := resolution.Branch.Settings()
	baseFee := settings.BaseDeliveryFee
	freeDeliveryAmount := settings.FreeDeliveryAmount

	if resolution.Zone != nil {
		baseFee = resolution.Zone.DeliveryFee()
		if resolution.Zone.FreeDeliveryAmount() > 0 {
			freeDeliveryAmount = resolution.Zone.FreeDeliveryAmount()
		}
	}

	fee := baseFee
	if freeDeliveryAmount > 0 && subtotal >= freeDeliveryAmount {
		fee = 0
	} else if settings.SurchargeThresholdKm > 0 && resolution.DistanceKm > settings.SurchargeThresholdKm {
		extraKm := math.Ceil(resolution.DistanceKm - settings.SurchargeThresholdKm)
		fee += int64(extraKm) * settings.SurchargePerKm
	}

	etaMinutes := c.EtaMinutes(resolution.DistanceKm)
	return DeliveryQuote{
		Fee:        fee,
		EtaMinutes: etaMinutes,
		EtaAt:      now.Add(time.Duration(etaMinutes) * time.Minute),
	}, nil
}

// EtaMinutes estimates preparation plus travel time for a distance.
// A zero or negative distance yields the base preparation time.
func (c FeeEtaCalculator) EtaMinutes(distanceKm float64) int {
	if distanceKm <= 0 || math.IsNaN(distanceKm) {
		return BasePreparationMinutes
	}
	return BasePreparationMinutes + int(math.Ceil(distanceKm*TravelMinutesPerKm))
}
