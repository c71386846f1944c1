package queries

import (
	"errors"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

// ErrResolveBranchQueryIsNotConstructed is returned when attempting to use
// a query created outside of its constructor.
var ErrResolveBranchQueryIsNotConstructed = errors.New(
	"ResolveBranchQuery must be created via NewResolveBranchQuery constructor")

// ResolveBranchQuery asks which branch would serve a coordinate, and what
// delivery would cost for a given cart subtotal.
type ResolveBranchQuery struct { //nolint:recvcheck //using for validation
	location kernel.Location
	subtotal int64

	guard guard.ConstructorGuard
}

// NewResolveBranchQuery creates a query to resolve a delivery coordinate.
// Subtotal may be zero when the caller only wants the branch.
func NewResolveBranchQuery(location kernel.Location, subtotal int64) (ResolveBranchQuery, error) {
	if err := location.Validate(); err != nil {
		return ResolveBranchQuery{}, err
	}
	if subtotal < 0 {
		return ResolveBranchQuery{}, errs.NewValueIsInvalidError("subtotal")
	}

	return ResolveBranchQuery{
		location: location,
		subtotal: subtotal,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the query was properly constructed.
func (q ResolveBranchQuery) Validate() error {
	return q.guard.Validate(ErrResolveBranchQueryIsNotConstructed)
}

// Location returns the coordinate to resolve.
func (q ResolveBranchQuery) Location() kernel.Location {
	return q.location
}

// Subtotal returns the cart subtotal used for the fee quote.
func (q ResolveBranchQuery) Subtotal() int64 {
	return q.subtotal
}

// ResolveBranchQueryResponse describes the serving branch and the delivery
// quote for the submitted subtotal.
type ResolveBranchQueryResponse struct {
	BranchID    string  `json:"branch_id"`
	BranchName  string  `json:"branch_name"`
	Source      string  `json:"source"`
	ZoneName    string  `json:"zone_name,omitempty"`
	DistanceKm  float64 `json:"distance_km"`
	DeliveryFee int64   `json:"delivery_fee"`
	EtaMinutes  int     `json:"eta_minutes"`
}
