package commands

import (
	"errors"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/model/order"
	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	// ErrCartIsEmpty is returned when the command carries no line items.
	ErrCartIsEmpty = errors.New("cart must contain at least one item")
	// ErrCoordinateRequired is returned for delivery orders without a coordinate.
	ErrCoordinateRequired = errors.New("delivery orders require a coordinate")
	// ErrBranchRequired is returned for pickup, eat-in and table orders
	// without a preselected branch. The order is never created.
	ErrBranchRequired = errors.New("order type requires a preselected branch")
)

// CartItem is one line of the submitted cart.
type CartItem struct {
	ProductID kernel.UUID
	Name      string
	Quantity  int
	UnitPrice int64
}

// PlaceOrderCommand represents a submitted cart together with everything
// needed to route it: the order type, the delivery coordinate or the chosen
// branch, and type-specific extras (table number, arrival offset).
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	orderType     order.OrderType
	paymentMethod order.PaymentMethod
	items         []CartItem

	address  string
	location *kernel.Location
	branchID *kernel.UUID

	tableNumber          string
	arrivalOffsetMinutes int

	guard guard.ConstructorGuard
}

// PlaceOrderCommandParams carries the optional, type-specific parts of the command.
type PlaceOrderCommandParams struct {
	Address              string
	Location             *kernel.Location
	BranchID             *kernel.UUID
	TableNumber          string
	ArrivalOffsetMinutes int
}

// NewPlaceOrderCommand creates a command to place an order.
// Validates identity, order type, payment method, a non-empty cart, and the
// type-specific requirements: delivery needs a coordinate, the other types
// need a branch. Returns an error if any validation fails.
func NewPlaceOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	orderType order.OrderType,
	paymentMethod order.PaymentMethod,
	items []CartItem,
	params PlaceOrderCommandParams,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		customerID.Validate(),
		orderType.Validate(),
		paymentMethod.Validate(),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	if len(items) == 0 {
		return PlaceOrderCommand{}, ErrCartIsEmpty
	}
	for _, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return PlaceOrderCommand{}, err
		}
		if item.Quantity <= 0 {
			return PlaceOrderCommand{}, errs.NewValueIsInvalidError("item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return PlaceOrderCommand{}, errs.NewValueIsInvalidError("item price must not be negative")
		}
	}

	if orderType.RequiresCoordinate() {
		if params.Location == nil {
			return PlaceOrderCommand{}, ErrCoordinateRequired
		}
		if err := params.Location.Validate(); err != nil {
			return PlaceOrderCommand{}, err
		}
	}
	if orderType.RequiresPreselectedBranch() {
		if params.BranchID == nil {
			return PlaceOrderCommand{}, ErrBranchRequired
		}
		if err := params.BranchID.Validate(); err != nil {
			return PlaceOrderCommand{}, err
		}
	}
	if params.ArrivalOffsetMinutes < 0 {
		return PlaceOrderCommand{}, errs.NewValueIsInvalidError("arrival offset must not be negative")
	}

	cmd.orderID = orderID
	cmd.customerID = customerID
	cmd.orderType = orderType
	cmd.paymentMethod = paymentMethod
	cmd.items = items
	cmd.address = params.Address
	cmd.location = params.Location
	cmd.branchID = params.BranchID
	cmd.tableNumber = params.TableNumber
	cmd.arrivalOffsetMinutes = params.ArrivalOffsetMinutes

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier assigned to the new order.
func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer.
func (c PlaceOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// OrderType returns the fulfillment type.
func (c PlaceOrderCommand) OrderType() order.OrderType {
	return c.orderType
}

// PaymentMethod returns the chosen payment method.
func (c PlaceOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// Items returns the submitted cart lines.
func (c PlaceOrderCommand) Items() []CartItem {
	return c.items
}

// Address returns the free-form delivery address, empty for other types.
func (c PlaceOrderCommand) Address() string {
	return c.address
}

// Location returns the delivery coordinate, nil for other types.
func (c PlaceOrderCommand) Location() *kernel.Location {
	return c.location
}

// BranchID returns the preselected branch, nil for delivery.
func (c PlaceOrderCommand) BranchID() *kernel.UUID {
	return c.branchID
}

// TableNumber returns the table for table orders, empty otherwise.
func (c PlaceOrderCommand) TableNumber() string {
	return c.tableNumber
}

// ArrivalOffsetMinutes returns the customer's planned arrival offset.
func (c PlaceOrderCommand) ArrivalOffsetMinutes() int {
	return c.arrivalOffsetMinutes
}
