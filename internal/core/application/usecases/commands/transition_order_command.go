package commands

import (
	"errors"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/model/order"
	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a staff, courier or customer request to
// move an order to a new status, optionally assigning a courier along the way.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderCode string
	target    order.Status
	actor     order.Actor
	note      string
	courierID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to change an order's status.
// A courier ID may only accompany a transition to the assigned status.
func NewTransitionOrderCommand(
	orderCode string,
	target order.Status,
	actor order.Actor,
	note string,
	courierID *kernel.UUID,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if orderCode == "" {
		return TransitionOrderCommand{}, errs.NewValueIsRequiredError("orderCode")
	}
	if err := errors.Join(target.Validate(), actor.Validate()); err != nil {
		return TransitionOrderCommand{}, err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return TransitionOrderCommand{}, err
		}
		if target != order.Assigned {
			return TransitionOrderCommand{}, errs.NewValueIsInvalidError(
				"courier may only be set when transitioning to assigned",
			)
		}
	}

	cmd.orderCode = orderCode
	cmd.target = target
	cmd.actor = actor
	cmd.note = note
	cmd.courierID = courierID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderCode returns the human-facing code of the order to transition.
func (c TransitionOrderCommand) OrderCode() string {
	return c.orderCode
}

// Target returns the requested status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

// Actor returns who requested the transition.
func (c TransitionOrderCommand) Actor() order.Actor {
	return c.actor
}

// Note returns the optional free-form note for the history entry.
func (c TransitionOrderCommand) Note() string {
	return c.note
}

// CourierID returns the courier to assign, nil for other transitions.
func (c TransitionOrderCommand) CourierID() *kernel.UUID {
	return c.courierID
}
