package commands_test

import (
	"testing"

	"oshxona/internal/core/application/usecases/commands"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func cartItems(t *testing.T) []commands.CartItem {
	t.Helper()
	return []commands.CartItem{
		{ProductID: kernel.NewUUID(), Name: "Plov", Quantity: 2, UnitPrice: 40000},
		{ProductID: kernel.NewUUID(), Name: "Green tea", Quantity: 1, UnitPrice: 10000},
	}
}

func deliveryLocation(t *testing.T) *kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(41.30, 69.25)
	require.NoError(t, err)
	return &loc
}

func TestNewPlaceOrderCommand(t *testing.T) {
	t.Run("should create delivery command with coordinate", func(t *testing.T) {
		cmd, err := commands.NewPlaceOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), order.TypeDelivery, order.PaymentCash,
			cartItems(t),
			commands.PlaceOrderCommandParams{Address: "Amir Temur 12", Location: deliveryLocation(t)},
		)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
	})

	t.Run("should reject empty cart", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), order.TypeDelivery, order.PaymentCash,
			nil,
			commands.PlaceOrderCommandParams{Location: deliveryLocation(t)},
		)

		require.ErrorIs(t, err, commands.ErrCartIsEmpty)
	})

	t.Run("should reject delivery without coordinate", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), order.TypeDelivery, order.PaymentCash,
			cartItems(t),
			commands.PlaceOrderCommandParams{Address: "Amir Temur 12"},
		)

		require.ErrorIs(t, err, commands.ErrCoordinateRequired)
	})

	t.Run("should reject pickup without branch", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), order.TypePickup, order.PaymentCard,
			cartItems(t),
			commands.PlaceOrderCommandParams{},
		)

		require.ErrorIs(t, err, commands.ErrBranchRequired)
	})

	t.Run("should reject zero quantity line", func(t *testing.T) {
		items := cartItems(t)
		items[0].Quantity = 0

		_, err := commands.NewPlaceOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), order.TypeDelivery, order.PaymentCash,
			items,
			commands.PlaceOrderCommandParams{Location: deliveryLocation(t)},
		)

		require.Error(t, err)
	})

	t.Run("should fail validation for zero value command", func(t *testing.T) {
		var cmd commands.PlaceOrderCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrPlaceOrderCommandIsNotConstructed)
	})
}
