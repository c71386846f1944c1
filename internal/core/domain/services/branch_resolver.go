package services

import (
	"errors"

	"oshxona/internal/core/domain/model/branch"
	"oshxona/internal/core/domain/model/kernel"
)

// ErrNotServiceable is returned when no branch can serve the given coordinate.
// This occurs when the coordinate falls inside no active delivery zone and
// every active branch is farther away than its own maximum delivery distance.
var ErrNotServiceable = errors.New("coordinate is not serviceable")

// ResolutionSource tells how a branch was matched to a coordinate.
type ResolutionSource string

const (
	// SourceZone means the coordinate fell inside the branch's delivery zone polygon.
	SourceZone ResolutionSource = "zone"
	// SourceRadius means the branch was the nearest one within its delivery radius.
	SourceRadius ResolutionSource = "radius"
)

// BranchResolution is the outcome of resolving a delivery coordinate.
type BranchResolution struct {
	Branch     *branch.Branch
	Zone       *branch.DeliveryZone
	Source     ResolutionSource
	DistanceKm float64
}

// BranchResolver is a domain service that decides which branch serves a
// delivery coordinate.
//
// Resolution rules:
//   - Delivery zone polygons take precedence: a coordinate inside a zone
//     resolves to the zone's branch even when another branch is physically
//     closer.
//   - When no zone matches, the nearest active branch whose maximum delivery
//     distance covers the coordinate wins.
//   - Ties on distance break deterministically toward the lexicographically
//     smallest branch ID so repeated calls resolve identically.
//
// Example usage:
//
//	resolver := NewBranchResolver()
//	resolution, err := resolver.Resolve(location, branches, zones)
//	if errors.Is(err, ErrNotServiceable) {
//	    // No branch covers this coordinate
//	    return
//	}
type BranchResolver struct{}

// NewBranchResolver creates a new BranchResolver instance.
func NewBranchResolver() BranchResolver {
	return BranchResolver{}
}

// Resolve matches a coordinate against zones first, then against branch radii.
//
// Inactive branches and zones are skipped. A zone pointing at a missing or
// inactive branch is skipped as well rather than failing resolution.
func (r BranchResolver) Resolve(
	location kernel.Location,
	branches []*branch.Branch,
	zones []*branch.DeliveryZone,
) (BranchResolution, error) {
	if err := location.Validate(); err != nil {
		return BranchResolution{}, err
	}

	byID := make(map[string]*branch.Branch, len(branches))
	for _, b := range branches {
		if err := b.Validate(); err != nil {
			return BranchResolution{}, err
		}
		if b.IsActive() {
			byID[b.ID().String()] = b
		}
	}

	if resolution, ok, err := r.resolveByZone(location, zones, byID); err != nil {
		return BranchResolution{}, err
	} else if ok {
		return resolution, nil
	}

	if resolution, ok := r.resolveByRadius(location, byID); ok {
		return resolution, nil
	}

	return BranchResolution{}, ErrNotServiceable
}

func (r BranchResolver) resolveByZone(
	location kernel.Location,
	zones []*branch.DeliveryZone,
	branches map[string]*branch.Branch,
) (BranchResolution, bool, error) {
	var matched *branch.DeliveryZone
	var matchedBranch *branch.Branch

	for _, zone := range zones {
		if err := zone.Validate(); err != nil {
			return BranchResolution{}, false, err
		}
		if !zone.IsActive() {
			continue
		}

		owner, ok := branches[zone.BranchID().String()]
		if !ok {
			continue
		}

		contains, err := zone.Contains(location)
		if err != nil {
			return BranchResolution{}, false, err
		}
		if !contains {
			continue
		}

		if matched == nil || zone.BranchID().String() < matched.BranchID().String() {
			matched = zone
			matchedBranch = owner
		}
	}

	if matched == nil {
		return BranchResolution{}, false, nil
	}

	distance, err := matchedBranch.Location().DistanceKm(location)
	if err != nil {
		return BranchResolution{}, false, err
	}

	return BranchResolution{
		Branch:     matchedBranch,
		Zone:       matched,
		Source:     SourceZone,
		DistanceKm: distance,
	}, true, nil
}

func (r BranchResolver) resolveByRadius(
	location kernel.Location,
	branches map[string]*branch.Branch,
) (BranchResolution, bool) {
	var nearest *branch.Branch
	var nearestDistance float64

	for _, b := range branches {
		distance, err := b.Location().DistanceKm(location)
		if err != nil {
			continue
		}
		if maxDistance := b.Settings().MaxDeliveryDistanceKm; maxDistance <= 0 || distance > maxDistance {
			continue
		}

		if nearest == nil ||
			distance < nearestDistance ||
			(distance == nearestDistance && b.ID().String() < nearest.ID().String()) {
			nearest = b
			nearestDistance = distance
		}
	}

	if nearest == nil {
		return BranchResolution{}, false
	}

	return BranchResolution{
		Branch:     nearest,
		Source:     SourceRadius,
		DistanceKm: nearestDistance,
	}, true
}
