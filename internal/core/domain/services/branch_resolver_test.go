package services_test

import (
	"testing"

	"oshxona/internal/core/domain/model/branch"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func location(t *testing.T, lat, lon float64) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lon)
	require.NoError(t, err)
	return loc
}

func newBranchAt(t *testing.T, name string, lat, lon, maxKm float64) *branch.Branch {
	t.Helper()
	b, err := branch.NewBranch(kernel.NewUUID(), name, location(t, lat, lon), branch.Settings{
		BaseDeliveryFee:       15000,
		FreeDeliveryAmount:    200000,
		MaxDeliveryDistanceKm: maxKm,
		SurchargeThresholdKm:  5,
		SurchargePerKm:        3000,
	})
	require.NoError(t, err)
	return b
}

func newZoneFor(t *testing.T, b *branch.Branch, ring [][2]float64) *branch.DeliveryZone {
	t.Helper()
	vertices := make([]kernel.Location, 0, len(ring))
	for _, c := range ring {
		vertices = append(vertices, location(t, c[0], c[1]))
	}
	zone, err := branch.NewDeliveryZone(
		kernel.NewUUID(), b.ID(), b.Name()+" zone", vertices, 12000, 180000, 40000,
	)
	require.NoError(t, err)
	return zone
}

var centerRing = [][2]float64{
	{41.25, 69.20}, {41.25, 69.30}, {41.35, 69.30}, {41.35, 69.20},
}

func TestBranchResolver_Resolve(t *testing.T) {
	resolver := services.NewBranchResolver()

	t.Run("should prefer zone over a physically closer branch", func(t *testing.T) {
		// Chilonzor owns the zone; Yunusobod sits right next to the coordinate.
		far := newBranchAt(t, "Chilonzor", 41.28, 69.20, 10)
		near := newBranchAt(t, "Yunusobod", 41.301, 69.251, 10)
		zone := newZoneFor(t, far, centerRing)

		resolution, err := resolver.Resolve(
			location(t, 41.30, 69.25),
			[]*branch.Branch{near, far},
			[]*branch.DeliveryZone{zone},
		)

		require.NoError(t, err)
		assert.Equal(t, far.ID(), resolution.Branch.ID())
		assert.Equal(t, services.SourceZone, resolution.Source)
		require.NotNil(t, resolution.Zone)
		assert.Equal(t, zone.ID(), resolution.Zone.ID())
		assert.Greater(t, resolution.DistanceKm, 0.0)
	})

	t.Run("should fall back to nearest branch within radius", func(t *testing.T) {
		near := newBranchAt(t, "Yunusobod", 41.301, 69.251, 10)
		far := newBranchAt(t, "Chilonzor", 41.28, 69.20, 10)

		resolution, err := resolver.Resolve(
			location(t, 41.30, 69.25),
			[]*branch.Branch{far, near},
			nil,
		)

		require.NoError(t, err)
		assert.Equal(t, near.ID(), resolution.Branch.ID())
		assert.Equal(t, services.SourceRadius, resolution.Source)
		assert.Nil(t, resolution.Zone)
		assert.Greater(t, resolution.DistanceKm, 0.0)
	})

	t.Run("should skip inactive zones", func(t *testing.T) {
		far := newBranchAt(t, "Chilonzor", 41.28, 69.20, 10)
		near := newBranchAt(t, "Yunusobod", 41.301, 69.251, 10)
		zone := newZoneFor(t, far, centerRing)
		zone.Deactivate()

		resolution, err := resolver.Resolve(
			location(t, 41.30, 69.25),
			[]*branch.Branch{near, far},
			[]*branch.DeliveryZone{zone},
		)

		require.NoError(t, err)
		assert.Equal(t, near.ID(), resolution.Branch.ID())
		assert.Equal(t, services.SourceRadius, resolution.Source)
	})

	t.Run("should skip zones of inactive branches", func(t *testing.T) {
		owner := newBranchAt(t, "Chilonzor", 41.28, 69.20, 10)
		owner.Deactivate()
		zone := newZoneFor(t, owner, centerRing)

		_, err := resolver.Resolve(
			location(t, 41.30, 69.25),
			[]*branch.Branch{owner},
			[]*branch.DeliveryZone{zone},
		)

		require.ErrorIs(t, err, services.ErrNotServiceable)
	})

	t.Run("should reject coordinate beyond every branch radius", func(t *testing.T) {
		// Samarkand is roughly 270 km from Tashkent.
		tashkent := newBranchAt(t, "Chilonzor", 41.31, 69.24, 10)

		_, err := resolver.Resolve(
			location(t, 39.65, 66.97),
			[]*branch.Branch{tashkent},
			nil,
		)

		require.ErrorIs(t, err, services.ErrNotServiceable)
	})

	t.Run("should not serve by radius when no radius is configured", func(t *testing.T) {
		zonesOnly := newBranchAt(t, "Chilonzor", 41.31, 69.24, 0)

		_, err := resolver.Resolve(
			location(t, 41.311, 69.241),
			[]*branch.Branch{zonesOnly},
			nil,
		)

		require.ErrorIs(t, err, services.ErrNotServiceable)
	})

	t.Run("should resolve deterministically for overlapping zones", func(t *testing.T) {
		first := newBranchAt(t, "Chilonzor", 41.28, 69.20, 10)
		second := newBranchAt(t, "Yunusobod", 41.33, 69.28, 10)
		zones := []*branch.DeliveryZone{
			newZoneFor(t, first, centerRing),
			newZoneFor(t, second, centerRing),
		}
		expected := first.ID().String()
		if second.ID().String() < expected {
			expected = second.ID().String()
		}

		for range 5 {
			resolution, err := resolver.Resolve(
				location(t, 41.30, 69.25),
				[]*branch.Branch{first, second},
				zones,
			)
			require.NoError(t, err)
			assert.Equal(t, expected, resolution.Branch.ID().String())
		}
	})
}
