package commands

import (
	"errors"

	"oshxona/internal/core/domain/model/order"
	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

var ErrCheckInCommandIsNotConstructed = errors.New(
	"CheckInCommand must be created via NewCheckInCommand constructor",
)

// CheckInCommand represents a customer announcing arrival for an eat-in or
// table order, optionally reporting the table they sat down at.
type CheckInCommand struct { //nolint:recvcheck //using for validation
	orderCode   string
	tableNumber string
	actor       order.Actor

	guard guard.ConstructorGuard
}

// NewCheckInCommand creates a command to record a customer's arrival.
func NewCheckInCommand(orderCode string, tableNumber string, actor order.Actor) (CheckInCommand, error) {
	cmd := CheckInCommand{
		guard: guard.NewConstructorGuard(),
	}

	if orderCode == "" {
		return CheckInCommand{}, errs.NewValueIsRequiredError("orderCode")
	}
	if err := actor.Validate(); err != nil {
		return CheckInCommand{}, err
	}

	cmd.orderCode = orderCode
	cmd.tableNumber = tableNumber
	cmd.actor = actor

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CheckInCommand) Validate() error {
	return c.guard.Validate(ErrCheckInCommandIsNotConstructed)
}

// OrderCode returns the code of the order the customer arrived for.
func (c CheckInCommand) OrderCode() string {
	return c.orderCode
}

// TableNumber returns the self-reported table, empty when the order
// already carries one.
func (c CheckInCommand) TableNumber() string {
	return c.tableNumber
}

// Actor returns who reported the arrival.
func (c CheckInCommand) Actor() order.Actor {
	return c.actor
}
