package commands_test

import (
	"testing"

	"oshxona/internal/core/application/usecases/commands"
	"oshxona/internal/core/domain/model/order"
	"oshxona/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckInCommandHandler_Handle(t *testing.T) {
	t.Run("should record arrival and notify the branch", func(t *testing.T) {
		ctx := t.Context()
		aggregate := pendingOrder(t, order.TypeEatIn)
		customer := order.Actor{Kind: order.ActorCustomer, ID: aggregate.CustomerID().String()}

		cmd, err := commands.NewCheckInCommand(aggregate.Code(), "7", customer)
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
		h := commands.NewCheckInCommandHandler(factory, bus)

		require.NoError(t, h.Handle(ctx, cmd))

		assert.Equal(t, order.Pending, aggregate.Status())
		assert.Equal(t, "7", aggregate.TableNumber())
		require.NotNil(t, aggregate.ArrivedAt())

		events := bus.Events()
		require.Len(t, events, 1)
		assert.Equal(t, ports.EventCustomerArrived, events[0].Kind)
		assert.Equal(t, ports.BranchTopic(*aggregate.BranchID()), events[0].Topic)
	})

	t.Run("should reject check in for delivery orders", func(t *testing.T) {
		ctx := t.Context()
		aggregate := pendingOrder(t, order.TypeDelivery)
		customer := order.Actor{Kind: order.ActorCustomer, ID: aggregate.CustomerID().String()}

		cmd, err := commands.NewCheckInCommand(aggregate.Code(), "", customer)
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
		h := commands.NewCheckInCommandHandler(factory, bus)

		err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrCheckInNotSupported)
		assert.Empty(t, bus.Events())
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
