package inventory

import (
	"errors"
	"time"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"
)

// ErrRecordIsNotConstructed is returned when a Record is used before being created via NewRecord.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

// ErrReservationRejected is the sentinel wrapped by every failed reservation.
var ErrReservationRejected = errors.New("reservation rejected")

// RejectionReason explains why a reservation was refused.
type RejectionReason string

const (
	// ReasonUnavailable means the product is switched off for the branch.
	ReasonUnavailable RejectionReason = "unavailable"
	// ReasonOutOfStock means the remaining physical stock cannot cover the quantity.
	ReasonOutOfStock RejectionReason = "out_of_stock"
	// ReasonDailyLimitReached means the daily sales cap would be exceeded.
	ReasonDailyLimitReached RejectionReason = "daily_limit_reached"
)

// Reservation is the accepted outcome of Record.Reserve.
type Reservation struct {
	Quantity  int
	SoldToday int
}

// Record tracks one product's availability at one branch.
//
// Stock and DailyLimit are optional: a nil stock means "not tracked,
// unlimited", a nil daily limit means "no cap". SoldToday counts sales for
// the business day anchored by lastResetAt and is reset lazily whenever the
// record is touched on a later calendar day.
type Record struct {
	branchID    kernel.UUID
	productID   kernel.UUID
	isAvailable bool
	stock       *int
	dailyLimit  *int
	soldToday   int
	lastResetAt time.Time

	isConstructed bool
}

// NewRecord creates an available Record with nothing sold yet.
func NewRecord(branchID kernel.UUID, productID kernel.UUID, stock *int, dailyLimit *int, now time.Time) (*Record, error) {
	if err := errors.Join(branchID.Validate(), productID.Validate()); err != nil {
		return nil, err
	}
	if stock != nil && *stock < 0 {
		return nil, errs.NewValueIsInvalidError("stock must not be negative")
	}
	if dailyLimit != nil && *dailyLimit <= 0 {
		return nil, errs.NewValueIsInvalidError("daily limit must be positive")
	}

	return &Record{
		branchID:      branchID,
		productID:     productID,
		isAvailable:   true,
		stock:         stock,
		dailyLimit:    dailyLimit,
		soldToday:     0,
		lastResetAt:   now,
		isConstructed: true,
	}, nil
}

// RestoreRecord reconstructs a Record from persistence.
func RestoreRecord(
	branchID kernel.UUID,
	productID kernel.UUID,
	isAvailable bool,
	stock *int,
	dailyLimit *int,
	soldToday int,
	lastResetAt time.Time,
) (*Record, error) {
	record, err := NewRecord(branchID, productID, stock, dailyLimit, lastResetAt)
	if err != nil {
		return nil, err
	}

	record.isAvailable = isAvailable
	record.soldToday = soldToday
	return record, nil
}

// Validate ensures the Record instance was properly constructed.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// BranchID returns the owning branch.
func (r *Record) BranchID() kernel.UUID {
	return r.branchID
}

// ProductID returns the tracked product.
func (r *Record) ProductID() kernel.UUID {
	return r.productID
}

// IsAvailable reports whether the product is switched on for the branch.
func (r *Record) IsAvailable() bool {
	return r.isAvailable
}

// Stock returns the remaining tracked stock, nil when stock is not tracked.
func (r *Record) Stock() *int {
	return r.stock
}

// DailyLimit returns the daily sales cap, nil when uncapped.
func (r *Record) DailyLimit() *int {
	return r.dailyLimit
}

// SoldToday returns the counter for the business day anchored by LastResetAt.
func (r *Record) SoldToday() int {
	return r.soldToday
}

// LastResetAt returns the anchor of the current business day.
func (r *Record) LastResetAt() time.Time {
	return r.lastResetAt
}

// SetAvailability switches the product on or off for the branch.
func (r *Record) SetAvailability(isAvailable bool) {
	r.isAvailable = isAvailable
}

// SetLimits replaces the stock and daily limit values.
func (r *Record) SetLimits(stock *int, dailyLimit *int) error {
	if stock != nil && *stock < 0 {
		return errs.NewValueIsInvalidError("stock must not be negative")
	}
	if dailyLimit != nil && *dailyLimit <= 0 {
		return errs.NewValueIsInvalidError("daily limit must be positive")
	}

	r.stock = stock
	r.dailyLimit = dailyLimit
	return nil
}

// Reserve applies the daily reset and then decides the reservation.
//
// On acceptance soldToday is incremented and tracked stock is decremented
// in one step; on rejection the record is left unmodified and the error
// wraps ErrReservationRejected together with the RejectionReason.
func (r *Record) Reserve(qty int, now time.Time) (Reservation, error) {
	if qty <= 0 {
		return Reservation{}, errs.NewValueIsInvalidError("quantity must be positive")
	}

	soldToday := r.soldToday
	if startOfDay(now).After(startOfDay(r.lastResetAt)) {
		soldToday = 0
	}

	if !r.isAvailable {
		return Reservation{}, rejectionError(ReasonUnavailable)
	}
	if r.stock != nil && *r.stock < qty {
		return Reservation{}, rejectionError(ReasonOutOfStock)
	}
	if r.dailyLimit != nil && soldToday+qty > *r.dailyLimit {
		return Reservation{}, rejectionError(ReasonDailyLimitReached)
	}

	r.soldToday = soldToday + qty
	r.lastResetAt = now
	if r.stock != nil {
		remaining := *r.stock - qty
		r.stock = &remaining
	}

	return Reservation{Quantity: qty, SoldToday: r.soldToday}, nil
}

// Release returns a previously reserved quantity, used when an order is
// cancelled before fulfillment. The counter never goes below zero.
func (r *Record) Release(qty int, now time.Time) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidError("quantity must be positive")
	}

	if startOfDay(now).After(startOfDay(r.lastResetAt)) {
		r.soldToday = 0
		r.lastResetAt = now
	}

	r.soldToday -= qty
	if r.soldToday < 0 {
		r.soldToday = 0
	}
	if r.stock != nil {
		restored := *r.stock + qty
		r.stock = &restored
	}
	return nil
}

func rejectionError(reason RejectionReason) error {
	return &ReservationRejectedError{Reason: reason}
}

// ReservationRejectedError carries the rejection reason and matches
// ErrReservationRejected via errors.Is.
type ReservationRejectedError struct {
	Reason RejectionReason
}

func (e *ReservationRejectedError) Error() string {
	return "reservation rejected: " + string(e.Reason)
}

func (e *ReservationRejectedError) Unwrap() error {
	return ErrReservationRejected
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
