package order

import (
	"errors"
	"fmt"

	"oshxona/internal/pkg/errs"
)

// ErrInvalidTransition is the unwrap target for every rejected status change.
// Callers use errors.Is to map it onto their own failure envelope.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of an order.
// The set of legal transitions depends on the order type: the same logical
// "ready" state fans out to courier assignment for delivery, to hand-over for
// pickup, and to serving for eat-in and table orders.
//
// Delivery:
//
//	pending -> confirmed -> preparing -> ready -> assigned -> on_delivery -> delivered -> completed
//	cancellation allowed while not past assigned
//
// Pickup:
//
//	pending -> confirmed -> preparing -> ready -> picked_up -> completed
//
// Eat-in / table:
//
//	pending -> confirmed -> preparing -> ready -> delivered -> completed
//
// arrived is recorded out of band via Order.CheckIn and never replaces the
// fulfillment status.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Pending is the initial status when an order is first placed.
	Pending

	// Confirmed means branch staff accepted the order.
	Confirmed

	// Preparing means the kitchen started working on the order.
	Preparing

	// Ready means the order is prepared and waiting for its type-specific
	// hand-over step.
	Ready

	// Assigned means a courier was assigned to a delivery order.
	Assigned

	// OnDelivery means the courier picked the order up and is en route.
	OnDelivery

	// Delivered means the order reached the customer (delivery) or the
	// table (eat-in, table).
	Delivered

	// PickedUp means the customer collected a pickup order at the branch.
	PickedUp

	// Arrived is recorded when an eat-in or table customer self-reports a
	// table number. It appears in history entries only and never replaces
	// the fulfillment status.
	Arrived

	// Completed is the successful terminal state.
	Completed

	// Cancelled is the unsuccessful terminal state.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Pending:       "pending",
		Confirmed:     "confirmed",
		Preparing:     "preparing",
		Ready:         "ready",
		Assigned:      "assigned",
		OnDelivery:    "on_delivery",
		Delivered:     "delivered",
		PickedUp:      "picked_up",
		Arrived:       "arrived",
		Completed:     "completed",
		Cancelled:     "cancelled",
	}
}

// StatusFromString parses the wire representation of a status.
func StatusFromString(s string) (Status, error) {
	for st, str := range getStatusStrings() {
		if st != StatusUnknown && str == s {
			return st, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
// This method implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// transitions returns the full transition table, keyed by order type.
// The common prefix (pending/confirmed/preparing) is shared; everything after
// ready branches per type. Cancellation for delivery orders is allowed up to
// and including assigned.
func transitions() map[OrderType]map[Status][]Status {
	common := map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Preparing, Cancelled},
	}

	table := make(map[OrderType]map[Status][]Status, 4)
	for _, t := range []OrderType{TypeDelivery, TypePickup, TypeEatIn, TypeTable} {
		m := make(map[Status][]Status, 8)
		for from, to := range common {
			m[from] = to
		}
		table[t] = m
	}

	table[TypeDelivery][Preparing] = []Status{Ready, Cancelled}
	table[TypeDelivery][Ready] = []Status{Assigned, Cancelled}
	table[TypeDelivery][Assigned] = []Status{OnDelivery, Cancelled}
	table[TypeDelivery][OnDelivery] = []Status{Delivered}
	table[TypeDelivery][Delivered] = []Status{Completed}

	table[TypePickup][Preparing] = []Status{Ready}
	table[TypePickup][Ready] = []Status{PickedUp}
	table[TypePickup][PickedUp] = []Status{Completed}

	for _, t := range []OrderType{TypeEatIn, TypeTable} {
		table[t][Preparing] = []Status{Ready}
		table[t][Ready] = []Status{Delivered}
		table[t][Delivered] = []Status{Completed}
	}

	return table
}

// CanTransition reports whether an order of the given type may move from s to
// target. A transition to the same status is always allowed (idempotent no-op).
func (s Status) CanTransition(orderType OrderType, target Status) bool {
	if s == target {
		return true
	}

	allowed, ok := transitions()[orderType][s]
	if !ok {
		return false
	}
	for _, next := range allowed {
		if next == target {
			return true
		}
	}
	return false
}

// Transition validates the move from s to target for the given order type.
//
// Returns:
//   - (target, nil) on a legal transition or an idempotent same-status request
//   - (0, error wrapping ErrInvalidTransition) otherwise
func (s Status) Transition(orderType OrderType, target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if err := orderType.Validate(); err != nil {
		return 0, err
	}

	if !s.CanTransition(orderType, target) {
		return 0, fmt.Errorf("%w: %s order cannot move from %s to %s",
			ErrInvalidTransition, orderType, s, target)
	}

	return target, nil
}
