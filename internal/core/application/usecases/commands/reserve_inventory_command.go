package commands

import (
	"errors"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

var ErrReserveInventoryCommandIsNotConstructed = errors.New(
	"ReserveInventoryCommand must be created via NewReserveInventoryCommand constructor",
)

// ReserveInventoryCommand represents a direct reservation against a
// branch's inventory, used by back-office tooling and phone orders that
// bypass the ordering flow.
type ReserveInventoryCommand struct { //nolint:recvcheck //using for validation
	branchID  kernel.UUID
	productID kernel.UUID
	quantity  int

	guard guard.ConstructorGuard
}

// NewReserveInventoryCommand creates a command to reserve product quantity.
func NewReserveInventoryCommand(branchID, productID kernel.UUID, quantity int) (ReserveInventoryCommand, error) {
	cmd := ReserveInventoryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(branchID.Validate(), productID.Validate()); err != nil {
		return ReserveInventoryCommand{}, err
	}
	if quantity <= 0 {
		return ReserveInventoryCommand{}, errs.NewValueIsInvalidError("quantity must be positive")
	}

	cmd.branchID = branchID
	cmd.productID = productID
	cmd.quantity = quantity

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReserveInventoryCommand) Validate() error {
	return c.guard.Validate(ErrReserveInventoryCommandIsNotConstructed)
}

// BranchID returns the branch holding the inventory.
func (c ReserveInventoryCommand) BranchID() kernel.UUID {
	return c.branchID
}

// ProductID returns the product to reserve.
func (c ReserveInventoryCommand) ProductID() kernel.UUID {
	return c.productID
}

// Quantity returns how much to reserve.
func (c ReserveInventoryCommand) Quantity() int {
	return c.quantity
}
