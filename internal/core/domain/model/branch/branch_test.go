package branch_test

import (
	"testing"
	"time"

	"oshxona/internal/core/domain/model/branch"
	"oshxona/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tashkent(t *testing.T) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(41.311081, 69.240562)
	require.NoError(t, err)
	return loc
}

func defaultSettings() branch.Settings {
	return branch.Settings{
		MinOrderAmount:        50000,
		BaseDeliveryFee:       15000,
		FreeDeliveryAmount:    200000,
		MaxDeliveryDistanceKm: 10,
		SurchargeThresholdKm:  5,
		SurchargePerKm:        3000,
	}
}

func TestNewBranch(t *testing.T) {
	t.Run("should create active branch", func(t *testing.T) {
		b, err := branch.NewBranch(kernel.NewUUID(), "Chilonzor", tashkent(t), defaultSettings())

		require.NoError(t, err)
		require.NoError(t, b.Validate())
		assert.True(t, b.IsActive())
		assert.Equal(t, "Chilonzor", b.Name())
	})

	t.Run("should reject empty name", func(t *testing.T) {
		_, err := branch.NewBranch(kernel.NewUUID(), "", tashkent(t), defaultSettings())
		require.Error(t, err)
	})

	t.Run("should reject unconstructed location", func(t *testing.T) {
		_, err := branch.NewBranch(kernel.NewUUID(), "Chilonzor", kernel.Location{}, defaultSettings())
		require.Error(t, err)
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		settings := defaultSettings()
		settings.BaseDeliveryFee = -1

		_, err := branch.NewBranch(kernel.NewUUID(), "Chilonzor", tashkent(t), settings)
		require.Error(t, err)
	})

	t.Run("should fail validation for zero value branch", func(t *testing.T) {
		var b branch.Branch
		require.ErrorIs(t, b.Validate(), branch.ErrBranchIsNotConstructed)
	})
}

func TestBranch_IsOpenAt(t *testing.T) {
	newBranch := func(t *testing.T) *branch.Branch {
		t.Helper()
		b, err := branch.NewBranch(kernel.NewUUID(), "Chilonzor", tashkent(t), defaultSettings())
		require.NoError(t, err)
		return b
	}

	t.Run("should treat missing schedule as always open", func(t *testing.T) {
		b := newBranch(t)
		assert.True(t, b.IsOpenAt(time.Now()))
	})

	t.Run("should honor the weekday window", func(t *testing.T) {
		b := newBranch(t)
		require.NoError(t, b.SetWorkingHours([]branch.WorkingHours{
			{Weekday: time.Monday, OpensAt: 9 * 60, ClosesAt: 22 * 60},
		}))

		// 2026-08-31 is a Monday
		monday := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
		lateMonday := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)

		assert.True(t, b.IsOpenAt(monday))
		assert.False(t, b.IsOpenAt(lateMonday))
	})

	t.Run("should be closed on a day off", func(t *testing.T) {
		b := newBranch(t)
		require.NoError(t, b.SetWorkingHours([]branch.WorkingHours{
			{Weekday: time.Monday, IsDayOff: true},
		}))

		monday := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
		assert.False(t, b.IsOpenAt(monday))
	})

	t.Run("should reject an inverted window", func(t *testing.T) {
		b := newBranch(t)
		err := b.SetWorkingHours([]branch.WorkingHours{
			{Weekday: time.Monday, OpensAt: 22 * 60, ClosesAt: 9 * 60},
		})
		require.Error(t, err)
	})
}

func zoneRing(t *testing.T) []kernel.Location {
	t.Helper()
	ring := make([]kernel.Location, 0, 4)
	for _, c := range [][2]float64{
		{41.25, 69.20}, {41.25, 69.30}, {41.35, 69.30}, {41.35, 69.20},
	} {
		loc, err := kernel.NewLocation(c[0], c[1])
		require.NoError(t, err)
		ring = append(ring, loc)
	}
	return ring
}

func TestNewDeliveryZone(t *testing.T) {
	t.Run("should create active zone", func(t *testing.T) {
		zone, err := branch.NewDeliveryZone(
			kernel.NewUUID(), kernel.NewUUID(), "Center",
			zoneRing(t), 12000, 180000, 40000,
		)

		require.NoError(t, err)
		require.NoError(t, zone.Validate())
		assert.True(t, zone.IsActive())
		assert.Equal(t, int64(12000), zone.DeliveryFee())
	})

	t.Run("should reject malformed ring at creation", func(t *testing.T) {
		_, err := branch.NewDeliveryZone(
			kernel.NewUUID(), kernel.NewUUID(), "Center",
			zoneRing(t)[:2], 12000, 180000, 40000,
		)

		require.ErrorIs(t, err, branch.ErrMalformedZone)
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := branch.NewDeliveryZone(
			kernel.NewUUID(), kernel.NewUUID(), "Center",
			zoneRing(t), -1, 180000, 40000,
		)
		require.Error(t, err)
	})

	t.Run("should reject empty name", func(t *testing.T) {
		_, err := branch.NewDeliveryZone(
			kernel.NewUUID(), kernel.NewUUID(), "",
			zoneRing(t), 12000, 180000, 40000,
		)
		require.Error(t, err)
	})
}

func TestDeliveryZone_Contains(t *testing.T) {
	t.Run("should answer containment from the validated ring", func(t *testing.T) {
		zone, err := branch.NewDeliveryZone(
			kernel.NewUUID(), kernel.NewUUID(), "Center",
			zoneRing(t), 12000, 180000, 40000,
		)
		require.NoError(t, err)

		inside, err := kernel.NewLocation(41.30, 69.25)
		require.NoError(t, err)
		outside, err := kernel.NewLocation(41.40, 69.25)
		require.NoError(t, err)

		in, err := zone.Contains(inside)
		require.NoError(t, err)
		assert.True(t, in)

		out, err := zone.Contains(outside)
		require.NoError(t, err)
		assert.False(t, out)
	})
}
