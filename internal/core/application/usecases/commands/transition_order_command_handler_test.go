package commands_test

import (
	"context"
	"testing"

	"oshxona/internal/core/application/usecases/commands"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/model/order"
	"oshxona/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

func staff() order.Actor {
	return order.Actor{Kind: order.ActorStaff, ID: "staff-1"}
}

func pendingOrder(t *testing.T, orderType order.OrderType) *order.Order {
	t.Helper()
	id := kernel.NewUUID()
	items := []order.Item{}
	for _, line := range cartItems(t) {
		item, err := order.NewItem(line.ProductID, line.Name, line.Quantity, line.UnitPrice)
		require.NoError(t, err)
		items = append(items, item)
	}
	aggregate, err := order.NewOrder(id, order.CodeFromUUID(id), kernel.NewUUID(), orderType, order.PaymentCash, items)
	require.NoError(t, err)
	require.NoError(t, aggregate.AssignBranch(kernel.NewUUID()))
	return aggregate
}

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, order.TypePickup)

	cmd, err := commands.NewTransitionOrderCommand(
		aggregate.Code(), order.Confirmed, staff(), "called the customer", nil,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("GetByCode", mock.Anything, aggregate.Code()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, aggregate).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	bus := new(RecordingBus)
	h := commands.NewTransitionOrderCommandHandler(factory, new(MockInventoryLedger), bus, testLogger())

	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Confirmed, aggregate.Status())

	events := bus.Events()
	require.Len(t, events, 2)
	topics := []string{events[0].Topic, events[1].Topic}
	assert.Contains(t, topics, ports.OrderTopic(aggregate.Code()))
	assert.Contains(t, topics, ports.UserTopic(aggregate.CustomerID()))
	for _, event := range events {
		assert.Equal(t, ports.EventStatusUpdate, event.Kind)
		assert.Equal(t, "confirmed", event.Payload["to"])
	}
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_IllegalTransition(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, order.TypeDelivery)

	cmd, err := commands.NewTransitionOrderCommand(
		aggregate.Code(), order.Delivered, staff(), "", nil,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("GetByCode", mock.Anything, aggregate.Code()).Return(aggregate, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	bus := new(RecordingBus)
	h := commands.NewTransitionOrderCommandHandler(factory, new(MockInventoryLedger), bus, testLogger())

	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Equal(t, order.Pending, aggregate.Status())
	assert.Empty(t, bus.Events())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_SameStatusIsNoOp(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, order.TypePickup)
	historyBefore := len(aggregate.History())

	cmd, err := commands.NewTransitionOrderCommand(
		aggregate.Code(), order.Pending, staff(), "retry", nil,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("GetByCode", mock.Anything, aggregate.Code()).Return(aggregate, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	bus := new(RecordingBus)
	h := commands.NewTransitionOrderCommandHandler(factory, new(MockInventoryLedger), bus, testLogger())

	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Pending, aggregate.Status())
	assert.Len(t, aggregate.History(), historyBefore)
	assert.Empty(t, bus.Events())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_CancellationReleasesInventory(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, order.TypeDelivery)

	cmd, err := commands.NewTransitionOrderCommand(
		aggregate.Code(), order.Cancelled, staff(), "customer unreachable", nil,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("GetByCode", mock.Anything, aggregate.Code()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, aggregate).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	ledger := new(MockInventoryLedger)
	for _, item := range aggregate.Items() {
		ledger.On("Release", mock.Anything, *aggregate.BranchID(), item.ProductID(), item.Quantity()).
			Return(nil).Once()
	}

	bus := new(RecordingBus)
	h := commands.NewTransitionOrderCommandHandler(factory, ledger, bus, testLogger())

	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Cancelled, aggregate.Status())
	ledger.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_AssignsCourier(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, order.TypeDelivery)
	for _, status := range []order.Status{
		order.Confirmed, order.Preparing, order.Ready,
	} {
		require.NoError(t, aggregate.TransitionTo(status, staff(), ""))
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewTransitionOrderCommand(
		aggregate.Code(), order.Assigned, staff(), "", &courierID,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("GetByCode", mock.Anything, aggregate.Code()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, aggregate).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	bus := new(RecordingBus)
	h := commands.NewTransitionOrderCommandHandler(factory, new(MockInventoryLedger), bus, testLogger())

	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Assigned, aggregate.Status())
	require.NotNil(t, aggregate.CourierID())
	assert.Equal(t, courierID, *aggregate.CourierID())
}
