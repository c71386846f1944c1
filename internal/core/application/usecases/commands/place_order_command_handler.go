package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"oshxona/internal/core/domain/model/inventory"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/model/order"
	"oshxona/internal/core/domain/services"
	"oshxona/internal/core/ports"
)

// PlaceOrderResult is the outcome of a successfully placed order.
//
// FailedReservations lists product IDs whose inventory reservation was
// refused after the order was committed. The order stands regardless:
// staff confirm or cancel it manually, matching how the kitchens actually
// run their day.
type PlaceOrderResult struct {
	OrderID            kernel.UUID
	Code               string
	BranchID           kernel.UUID
	Status             order.Status
	Subtotal           int64
	DeliveryFee        int64
	Total              int64
	EtaMinutes         int
	FailedReservations []kernel.UUID
}

// PlaceOrderCommandHandler handles the business logic for placing an order:
// branch routing, delivery pricing, persistence, inventory reservation and
// the new-order notification.
type PlaceOrderCommandHandler struct {
	uowFactory UoWFactory
	ledger     ports.InventoryLedger
	bus        ports.NotificationBus
	resolver   services.BranchResolver
	calculator services.FeeEtaCalculator
	logger     *slog.Logger
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(
	uowFactory UoWFactory,
	ledger ports.InventoryLedger,
	bus ports.NotificationBus,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		bus:        bus,
		resolver:   services.NewBranchResolver(),
		calculator: services.NewFeeEtaCalculator(),
		logger:     logger,
	}
}

// Handle processes the order placement command.
//
// Delivery orders are routed through zone and radius resolution; a
// coordinate no branch can serve fails with services.ErrNotServiceable and
// nothing is persisted. The other types require their preselected branch to
// exist. After the order is committed, inventory is reserved per line item
// fire-and-forget: refusals are logged and reported in the result but never
// roll back the order. Finally the branch topic receives a new_order event.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (PlaceOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlaceOrderResult{}, err
	}

	items := make([]order.Item, 0, len(cmd.Items()))
	for _, line := range cmd.Items() {
		item, err := order.NewItem(line.ProductID, line.Name, line.Quantity, line.UnitPrice)
		if err != nil {
			return PlaceOrderResult{}, err
		}
		items = append(items, item)
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		order.CodeFromUUID(cmd.OrderID()),
		cmd.CustomerID(),
		cmd.OrderType(),
		cmd.PaymentMethod(),
		items,
	)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return PlaceOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	result := PlaceOrderResult{}
	if cmd.OrderType().RequiresCoordinate() {
		result.EtaMinutes, err = h.routeDelivery(ctx, uow.BranchRepository(), cmd, aggregate)
	} else {
		err = h.routePreselected(ctx, uow.BranchRepository(), cmd, aggregate)
	}
	if err != nil {
		return PlaceOrderResult{}, err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return PlaceOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PlaceOrderResult{}, err
	}

	branchID := *aggregate.BranchID()
	result.OrderID = aggregate.ID()
	result.Code = aggregate.Code()
	result.BranchID = branchID
	result.Status = aggregate.Status()
	result.Subtotal = aggregate.Subtotal()
	result.DeliveryFee = aggregate.DeliveryFee()
	result.Total = aggregate.Total()
	result.FailedReservations = h.reserveItems(ctx, branchID, aggregate)

	h.bus.Publish(ports.Event{
		Kind:  ports.EventNewOrder,
		Topic: ports.BranchTopic(branchID),
		At:    time.Now().UTC(),
		Payload: map[string]any{
			"order_code": aggregate.Code(),
			"order_type": aggregate.Type().String(),
			"total":      aggregate.Total(),
		},
	})

	return result, nil
}

func (h *PlaceOrderCommandHandler) routeDelivery(
	ctx context.Context,
	branchRepo ports.BranchRepository,
	cmd PlaceOrderCommand,
	aggregate *order.Order,
) (int, error) {
	branches, err := branchRepo.GetAllActive(ctx)
	if err != nil {
		return 0, err
	}
	zones, err := branchRepo.GetActiveZones(ctx)
	if err != nil {
		return 0, err
	}

	resolution, err := h.resolver.Resolve(*cmd.Location(), branches, zones)
	if err != nil {
		return 0, err
	}

	quote, err := h.calculator.Quote(resolution, aggregate.Subtotal(), time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err = errors.Join(
		aggregate.SetDeliveryDetails(cmd.Address(), cmd.Location()),
		aggregate.AssignBranch(resolution.Branch.ID()),
		aggregate.SetDeliveryQuote(quote.Fee, resolution.DistanceKm, quote.EtaAt),
	); err != nil {
		return 0, err
	}

	return quote.EtaMinutes, nil
}

func (h *PlaceOrderCommandHandler) routePreselected(
	ctx context.Context,
	branchRepo ports.BranchRepository,
	cmd PlaceOrderCommand,
	aggregate *order.Order,
) error {
	chosen, err := branchRepo.Get(ctx, *cmd.BranchID())
	if err != nil {
		return err
	}
	if !chosen.IsActive() {
		return ErrBranchIsInactive
	}

	if err = aggregate.AssignBranch(chosen.ID()); err != nil {
		return err
	}

	switch cmd.OrderType() {
	case order.TypeTable:
		if err = aggregate.SetTableNumber(cmd.TableNumber()); err != nil {
			return err
		}
	case order.TypePickup, order.TypeEatIn:
		if cmd.ArrivalOffsetMinutes() > 0 {
			if err = aggregate.SetArrivalOffset(cmd.ArrivalOffsetMinutes()); err != nil {
				return err
			}
		}
	}

	return nil
}

// reserveItems consumes inventory after the order is committed. Refusals
// and ledger errors are reported, never propagated.
func (h *PlaceOrderCommandHandler) reserveItems(
	ctx context.Context,
	branchID kernel.UUID,
	aggregate *order.Order,
) []kernel.UUID {
	var failed []kernel.UUID
	for _, item := range aggregate.Items() {
		_, err := h.ledger.Reserve(ctx, branchID, item.ProductID(), item.Quantity())
		if err == nil {
			continue
		}

		failed = append(failed, item.ProductID())
		if errors.Is(err, inventory.ErrReservationRejected) {
			h.logger.Warn("inventory reservation refused",
				"order_code", aggregate.Code(),
				"product_id", item.ProductID().String(),
				"error", err,
			)
			continue
		}
		h.logger.Error("inventory reservation failed",
			"order_code", aggregate.Code(),
			"product_id", item.ProductID().String(),
			"error", err,
		)
	}
	return failed
}

// ErrBranchIsInactive is returned when a preselected branch is switched off.
var ErrBranchIsInactive = errors.New("branch is not accepting orders")
