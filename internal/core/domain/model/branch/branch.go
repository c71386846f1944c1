package branch

import (
	"errors"
	"fmt"
	"time"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"
)

// ErrBranchIsNotConstructed is returned when a Branch instance was not created
// through the NewBranch factory method.
var ErrBranchIsNotConstructed = errors.New("Branch must be created via NewBranch constructor")

// Settings holds the order-related amounts configured per branch.
// All amounts are in the smallest currency unit.
type Settings struct {
	// MinOrderAmount is the smallest accepted order subtotal.
	MinOrderAmount int64

	// BaseDeliveryFee is charged for delivery orders below the free-delivery
	// threshold.
	BaseDeliveryFee int64

	// FreeDeliveryAmount is the subtotal at which delivery becomes free.
	// The threshold is inclusive. Zero disables free delivery.
	FreeDeliveryAmount int64

	// MaxDeliveryDistanceKm bounds radius-based branch resolution.
	MaxDeliveryDistanceKm float64

	// SurchargeThresholdKm is the distance beyond which SurchargePerKm is
	// added per started kilometer. Zero disables the surcharge.
	SurchargeThresholdKm float64

	// SurchargePerKm is the per-kilometer surcharge beyond the threshold.
	SurchargePerKm int64
}

// WorkingHours describes one weekday's opening window.
// Times are minutes from midnight in the branch's local time.
type WorkingHours struct {
	Weekday  time.Weekday
	OpensAt  int
	ClosesAt int
	IsDayOff bool
}

// Branch is a physical restaurant location capable of fulfilling orders.
// It holds the registered coordinate used for radius-based resolution and the
// settings consulted by the fee calculator.
type Branch struct {
	id           kernel.UUID
	name         string
	location     kernel.Location
	settings     Settings
	workingHours []WorkingHours
	isActive     bool

	isConstructed bool
}

// NewBranch creates a Branch with validation. Name and a constructed location
// are required; MaxDeliveryDistanceKm must be positive for the branch to be a
// radius-resolution candidate.
func NewBranch(id kernel.UUID, name string, location kernel.Location, settings Settings) (*Branch, error) {
	b := &Branch{
		isActive:      true,
		isConstructed: true,
	}

	if err := errors.Join(
		b.setID(id),
		b.setName(name),
		b.setLocation(location),
		b.setSettings(settings),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// RestoreBranch reconstructs a Branch from persistence.
func RestoreBranch(
	id kernel.UUID,
	name string,
	location kernel.Location,
	settings Settings,
	workingHours []WorkingHours,
	isActive bool,
) (*Branch, error) {
	b, err := NewBranch(id, name, location, settings)
	if err != nil {
		return nil, err
	}

	b.workingHours = append([]WorkingHours(nil), workingHours...)
	b.isActive = isActive
	return b, nil
}

// Validate ensures the Branch instance was properly constructed.
func (b *Branch) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBranchIsNotConstructed
	}
	return nil
}

// ID returns the branch's unique identifier.
func (b *Branch) ID() kernel.UUID {
	return b.id
}

// Name returns the branch name.
func (b *Branch) Name() string {
	return b.name
}

// Location returns the branch's registered coordinate.
func (b *Branch) Location() kernel.Location {
	return b.location
}

// Settings returns the branch's configured amounts.
func (b *Branch) Settings() Settings {
	return b.settings
}

// WorkingHours returns a copy of the weekly schedule.
func (b *Branch) WorkingHours() []WorkingHours {
	hours := make([]WorkingHours, len(b.workingHours))
	copy(hours, b.workingHours)
	return hours
}

// IsActive reports whether the branch currently takes orders.
func (b *Branch) IsActive() bool {
	return b.isActive
}

// SetWorkingHours replaces the weekly schedule.
func (b *Branch) SetWorkingHours(hours []WorkingHours) error {
	for _, h := range hours {
		if h.IsDayOff {
			continue
		}
		if h.OpensAt < 0 || h.ClosesAt > 24*60 || h.OpensAt >= h.ClosesAt {
			return errs.NewValueIsInvalidErrorWithCause("working hours",
				fmt.Errorf("window %d..%d on %s is invalid", h.OpensAt, h.ClosesAt, h.Weekday))
		}
	}
	b.workingHours = append([]WorkingHours(nil), hours...)
	return nil
}

// IsOpenAt reports whether the branch is open at the given local time.
// A branch without a configured schedule is treated as always open.
func (b *Branch) IsOpenAt(t time.Time) bool {
	if len(b.workingHours) == 0 {
		return true
	}

	minutes := t.Hour()*60 + t.Minute()
	for _, h := range b.workingHours {
		if h.Weekday != t.Weekday() {
			continue
		}
		if h.IsDayOff {
			return false
		}
		return minutes >= h.OpensAt && minutes < h.ClosesAt
	}

	return false
}

// Deactivate removes the branch from resolution candidates.
func (b *Branch) Deactivate() {
	b.isActive = false
}

// Activate returns the branch to resolution candidates.
func (b *Branch) Activate() {
	b.isActive = true
}

func (b *Branch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Branch) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("branch name")
	}
	b.name = name
	return nil
}

func (b *Branch) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	b.location = location
	return nil
}

func (b *Branch) setSettings(settings Settings) error {
	if settings.MaxDeliveryDistanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("max delivery distance",
			fmt.Errorf("%f is negative", settings.MaxDeliveryDistanceKm))
	}
	if settings.BaseDeliveryFee < 0 || settings.MinOrderAmount < 0 ||
		settings.FreeDeliveryAmount < 0 || settings.SurchargePerKm < 0 {
		return errs.NewValueIsInvalidError("branch amounts must not be negative")
	}
	b.settings = settings
	return nil
}
