package order

import (
	"fmt"

	"oshxona/internal/pkg/errs"
)

// OrderType distinguishes the four fulfillment flows of the engine.
// The type is fixed at creation and selects the status transition table.
type OrderType int

const (
	// TypeUnknown represents an invalid or undefined order type.
	TypeUnknown OrderType = iota

	// TypeDelivery is a courier delivery to a customer coordinate.
	TypeDelivery

	// TypePickup is collected by the customer at the branch.
	TypePickup

	// TypeEatIn is a pre-order eaten at the branch; the table number is
	// supplied when the customer checks in.
	TypeEatIn

	// TypeTable is identical to eat-in except the table number is known
	// at order creation (QR code on the table).
	TypeTable
)

func getOrderTypeStrings() map[OrderType]string {
	return map[OrderType]string{
		TypeUnknown:  "unknown",
		TypeDelivery: "delivery",
		TypePickup:   "pickup",
		TypeEatIn:    "eat_in",
		TypeTable:    "table",
	}
}

// OrderTypeFromString parses the wire representation of an order type.
func OrderTypeFromString(s string) (OrderType, error) {
	for t, str := range getOrderTypeStrings() {
		if t != TypeUnknown && str == s {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("order type",
		fmt.Errorf("%q is not a valid order type", s))
}

// Validate checks if the OrderType value is valid.
func (t OrderType) Validate() error {
	if t == TypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("order type",
			fmt.Errorf("%d is not a valid order type", t))
	}
	if _, ok := getOrderTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order type",
			fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

// String returns the wire name of the order type.
// This method implements the fmt.Stringer interface.
func (t OrderType) String() string {
	if str, ok := getOrderTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// RequiresCoordinate reports whether placing an order of this type needs a
// delivery coordinate for branch resolution.
func (t OrderType) RequiresCoordinate() bool {
	return t == TypeDelivery
}

// RequiresPreselectedBranch reports whether the caller must have chosen a
// branch before placing an order of this type. Branch preference selection is
// a collaborator concern; the engine only enforces its presence.
func (t OrderType) RequiresPreselectedBranch() bool {
	return t == TypePickup || t == TypeEatIn || t == TypeTable
}

// PaymentMethod identifies how the customer pays for the order.
// Settlement is out of scope; the engine only records the choice.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentClick PaymentMethod = "click"
	PaymentPayme PaymentMethod = "payme"
)

// Validate checks if the PaymentMethod value is one of the known methods.
func (p PaymentMethod) Validate() error {
	switch p {
	case PaymentCash, PaymentCard, PaymentClick, PaymentPayme:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%q is not a valid payment method", string(p)))
	}
}
