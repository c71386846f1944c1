package order

import (
	"errors"
	"fmt"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created through NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a single order line captured at order time. Product name and unit
// price are snapshots; later catalog changes never affect an existing order.
// LineTotal is computed once as quantity * unit price.
type Item struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	name      string
	quantity  int
	unitPrice int64
	lineTotal int64

	guard guard.ConstructorGuard
}

// NewItem creates an order line with validation.
// Quantity must be positive and unit price non-negative.
func NewItem(productID kernel.UUID, name string, quantity int, unitPrice int64) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setName(name),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	item.lineTotal = int64(item.quantity) * item.unitPrice
	return item, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ProductID returns the referenced catalog product.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Name returns the product name snapshot.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the unit price snapshot.
func (i Item) UnitPrice() int64 {
	return i.unitPrice
}

// LineTotal returns quantity * unit price as computed at order time.
func (i Item) LineTotal() int64 {
	return i.lineTotal
}

func (i *Item) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice int64) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%d is negative", unitPrice))
	}
	i.unitPrice = unitPrice
	return nil
}
