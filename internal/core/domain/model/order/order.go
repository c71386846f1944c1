package order

import (
	"errors"
	"fmt"
	"time"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderIsTerminal is returned when mutating an order that already
	// reached completed or cancelled.
	ErrOrderIsTerminal = errors.New("order is in a terminal status")

	// ErrCheckInNotSupported is returned when a table check-in is attempted
	// on an order type without table service.
	ErrCheckInNotSupported = errors.New("check-in is only supported for eat_in and table orders")
)

// Order is the aggregate root for a customer order. It carries the captured
// cart, the money invariant and the append-only status history, and is the
// only place status transitions are applied.
//
// Order follows these invariants:
//   - total == subtotal + deliveryFee, fixed at creation time
//   - line items are captured at order time and never change afterwards
//   - status moves only along the transition table for the order's type
//   - every accepted transition appends exactly one history entry
//   - orders are never deleted; completed and cancelled are terminal
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods.
type Order struct {
	id         kernel.UUID
	code       string
	customerID kernel.UUID
	branchID   *kernel.UUID

	orderType     OrderType
	paymentMethod PaymentMethod
	items         []Item

	subtotal    int64
	deliveryFee int64
	total       int64

	status  Status
	history []HistoryEntry

	// delivery payload
	address    string
	location   *kernel.Location
	distanceKm float64
	etaAt      *time.Time
	courierID  *kernel.UUID

	// pickup / eat-in / table payload
	arrivalOffsetMinutes int
	tableNumber          string
	arrivedAt            *time.Time

	createdAt time.Time

	isConstructed bool
}

// NewOrder creates an Order in pending status with the cart captured as
// immutable line items. The subtotal is computed from the items; the total
// equals the subtotal until a delivery quote is applied via SetDeliveryQuote.
// The initial pending history entry is appended on behalf of the customer.
func NewOrder(
	id kernel.UUID,
	code string,
	customerID kernel.UUID,
	orderType OrderType,
	paymentMethod PaymentMethod,
	items []Item,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setCustomerID(customerID),
		o.setOrderType(orderType),
		o.setPaymentMethod(paymentMethod),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	for _, item := range o.items {
		o.subtotal += item.LineTotal()
	}
	o.total = o.subtotal

	o.history = append(o.history, HistoryEntry{
		Status: Pending,
		At:     o.createdAt,
		Note:   "order placed",
		Actor:  Actor{Kind: ActorCustomer, ID: customerID.String()},
	})

	return o, nil
}

// RestoreOrderParams carries the persisted state needed to reconstruct an
// Order aggregate. Used by repositories only.
type RestoreOrderParams struct {
	ID            kernel.UUID
	Code          string
	CustomerID    kernel.UUID
	BranchID      *kernel.UUID
	OrderType     OrderType
	PaymentMethod PaymentMethod
	Items         []Item
	Subtotal      int64
	DeliveryFee   int64
	Total         int64
	Status        Status
	History       []HistoryEntry

	Address    string
	Location   *kernel.Location
	DistanceKm float64
	EtaAt      *time.Time
	CourierID  *kernel.UUID

	ArrivalOffsetMinutes int
	TableNumber          string
	ArrivedAt            *time.Time

	CreatedAt time.Time
}

// RestoreOrder reconstructs an Order from persistence. It trusts the stored
// money fields (the invariant was enforced at creation) but still validates
// identity, type and status.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.CustomerID.Validate(),
		p.OrderType.Validate(),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if p.Code == "" {
		return nil, errs.NewValueIsRequiredError("order code")
	}

	o := &Order{
		id:            p.ID,
		code:          p.Code,
		customerID:    p.CustomerID,
		branchID:      p.BranchID,
		orderType:     p.OrderType,
		paymentMethod: p.PaymentMethod,
		items:         append([]Item(nil), p.Items...),
		subtotal:      p.Subtotal,
		deliveryFee:   p.DeliveryFee,
		total:         p.Total,
		status:        p.Status,
		history:       append([]HistoryEntry(nil), p.History...),

		address:    p.Address,
		location:   p.Location,
		distanceKm: p.DistanceKm,
		etaAt:      p.EtaAt,
		courierID:  p.CourierID,

		arrivalOffsetMinutes: p.ArrivalOffsetMinutes,
		tableNumber:          p.TableNumber,
		arrivedAt:            p.ArrivedAt,

		createdAt:     p.CreatedAt,
		isConstructed: true,
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Code returns the human-readable order code.
func (o *Order) Code() string {
	return o.code
}

// CustomerID returns the ordering customer reference.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// BranchID returns the serving branch, or nil while unresolved.
func (o *Order) BranchID() *kernel.UUID {
	return o.branchID
}

// Type returns the order's fulfillment type.
func (o *Order) Type() OrderType {
	return o.orderType
}

// PaymentMethod returns the recorded payment method.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// Items returns a copy of the captured line items.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Subtotal returns the sum of line totals.
func (o *Order) Subtotal() int64 {
	return o.subtotal
}

// DeliveryFee returns the delivery fee, zero for non-delivery orders.
func (o *Order) DeliveryFee() int64 {
	return o.deliveryFee
}

// Total returns subtotal + delivery fee as fixed at creation.
func (o *Order) Total() int64 {
	return o.total
}

// Status returns the current fulfillment status.
func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the append-only status history.
func (o *Order) History() []HistoryEntry {
	history := make([]HistoryEntry, len(o.history))
	copy(history, o.history)
	return history
}

// Address returns the free-text delivery address.
func (o *Order) Address() string {
	return o.address
}

// Location returns the delivery coordinate, or nil when none was supplied.
func (o *Order) Location() *kernel.Location {
	return o.location
}

// DistanceKm returns the resolved branch-to-customer distance, zero when the
// order resolved via zone match or is not a delivery.
func (o *Order) DistanceKm() float64 {
	return o.distanceKm
}

// EtaAt returns the estimated fulfillment time, or nil when not quoted.
func (o *Order) EtaAt() *time.Time {
	return o.etaAt
}

// CourierID returns the assigned courier, or nil if unassigned.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// ArrivalOffsetMinutes returns the requested arrival offset for pickup and
// eat-in orders.
func (o *Order) ArrivalOffsetMinutes() int {
	return o.arrivalOffsetMinutes
}

// TableNumber returns the table number, empty until known.
func (o *Order) TableNumber() string {
	return o.tableNumber
}

// ArrivedAt returns when the customer checked in, or nil.
func (o *Order) ArrivedAt() *time.Time {
	return o.arrivedAt
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AssignBranch sets the serving branch resolved for this order.
// The branch may only be set while the order is pending.
func (o *Order) AssignBranch(branchID kernel.UUID) error {
	if err := branchID.Validate(); err != nil {
		return err
	}
	if o.status != Pending {
		return fmt.Errorf("%w: branch can only be assigned while pending", ErrInvalidTransition)
	}

	o.branchID = &branchID
	return nil
}

// SetDeliveryDetails records the customer's address text and coordinate.
// Only valid for delivery orders.
func (o *Order) SetDeliveryDetails(address string, location *kernel.Location) error {
	if o.orderType != TypeDelivery {
		return errs.NewValueIsInvalidError("delivery details on a non-delivery order")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}

	o.address = address
	o.location = location
	return nil
}

// SetDeliveryQuote applies the computed delivery fee, distance and ETA.
// This is a creation-time operation: it may be applied once, while the order
// is still pending, and fixes total = subtotal + fee. The total is never
// silently recomputed afterwards.
func (o *Order) SetDeliveryQuote(fee int64, distanceKm float64, etaAt time.Time) error {
	if o.orderType != TypeDelivery {
		return errs.NewValueIsInvalidError("delivery quote on a non-delivery order")
	}
	if o.status != Pending {
		return errs.NewValueIsInvalidError("delivery quote after creation")
	}
	if fee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery fee",
			fmt.Errorf("%d is negative", fee))
	}
	if o.deliveryFee != 0 {
		return errs.NewValueIsInvalidError("delivery quote is already applied")
	}

	o.deliveryFee = fee
	o.distanceKm = distanceKm
	o.etaAt = &etaAt
	o.total = o.subtotal + o.deliveryFee
	return nil
}

// SetArrivalOffset records in how many minutes the customer intends to
// arrive. Only meaningful for pickup and eat-in orders.
func (o *Order) SetArrivalOffset(minutes int) error {
	if o.orderType != TypePickup && o.orderType != TypeEatIn {
		return errs.NewValueIsInvalidError("arrival offset on this order type")
	}
	if minutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("arrival offset",
			fmt.Errorf("%d is negative", minutes))
	}

	o.arrivalOffsetMinutes = minutes
	return nil
}

// SetTableNumber records the table for a table (QR) order at creation time.
// Eat-in orders receive their table number later through CheckIn.
func (o *Order) SetTableNumber(table string) error {
	if o.orderType != TypeTable {
		return errs.NewValueIsInvalidError("table number at creation on this order type")
	}
	if table == "" {
		return errs.NewValueIsRequiredError("table number")
	}

	o.tableNumber = table
	return nil
}

// TransitionTo applies a status change for the given actor.
//
// A transition to the current status is an accepted no-op and appends no
// history entry, so retried commands stay idempotent. An illegal transition
// returns an error wrapping ErrInvalidTransition and leaves the order
// unmodified.
func (o *Order) TransitionTo(target Status, actor Actor, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if target == o.status {
		return nil
	}

	newStatus, err := o.status.Transition(o.orderType, target)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.history = append(o.history, HistoryEntry{
		Status: newStatus,
		At:     time.Now().UTC(),
		Note:   note,
		Actor:  actor,
	})

	return nil
}

// AssignCourier moves a delivery order to assigned and records the courier.
func (o *Order) AssignCourier(courierID kernel.UUID, actor Actor, note string) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.orderType != TypeDelivery {
		return errs.NewValueIsInvalidError("courier assignment on a non-delivery order")
	}

	if err := o.TransitionTo(Assigned, actor, note); err != nil {
		return err
	}

	o.courierID = &courierID
	return nil
}

// CheckIn records the customer's self-reported arrival at a table.
//
// This is an out-of-band signal for eat_in and table orders: it may happen in
// any pre-completed state, appends an arrived history entry and does not
// change the fulfillment status.
func (o *Order) CheckIn(tableNumber string, actor Actor) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.orderType != TypeEatIn && o.orderType != TypeTable {
		return ErrCheckInNotSupported
	}
	if o.status.IsTerminal() {
		return ErrOrderIsTerminal
	}
	if tableNumber != "" {
		o.tableNumber = tableNumber
	}
	if o.tableNumber == "" {
		return errs.NewValueIsRequiredError("table number")
	}

	now := time.Now().UTC()
	o.arrivedAt = &now
	o.history = append(o.history, HistoryEntry{
		Status: Arrived,
		At:     now,
		Note:   fmt.Sprintf("customer at table %s", o.tableNumber),
		Actor:  actor,
	})

	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("order code")
	}
	o.code = code
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setOrderType(orderType OrderType) error {
	if err := orderType.Validate(); err != nil {
		return err
	}
	o.orderType = orderType
	return nil
}

func (o *Order) setPaymentMethod(paymentMethod PaymentMethod) error {
	if err := paymentMethod.Validate(); err != nil {
		return err
	}
	o.paymentMethod = paymentMethod
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	o.items = append([]Item(nil), items...)
	return nil
}
