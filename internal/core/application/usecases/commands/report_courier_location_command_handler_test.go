package commands_test

import (
	"testing"
	"time"

	"oshxona/internal/core/application/usecases/commands"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportCourierLocationCommand(t *testing.T) {
	t.Run("should create command with valid parameters", func(t *testing.T) {
		cmd, err := commands.NewReportCourierLocationCommand(
			kernel.NewUUID(), kernel.NewUUID(), mustLocation(t, 41.31, 69.28),
		)

		require.NoError(t, err)
		assert.NoError(t, cmd.Validate())
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var cmd commands.ReportCourierLocationCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrReportCourierLocationCommandIsNotConstructed)
	})
}

func TestReportCourierLocationCommandHandler_Handle(t *testing.T) {
	courierID := kernel.NewUUID()
	branchID := kernel.NewUUID()
	location := mustLocation(t, 41.31, 69.28)

	cmd, err := commands.NewReportCourierLocationCommand(courierID, branchID, location)
	require.NoError(t, err)

	bus := new(RecordingBus)
	h := commands.NewReportCourierLocationCommandHandler(bus)

	require.NoError(t, h.Handle(t.Context(), cmd))

	events := bus.Events()
	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, ports.EventCourierLocation, event.Kind)
	assert.Equal(t, ports.BranchTopic(branchID), event.Topic)
	assert.Equal(t, courierID.String(), event.Payload["courier_id"])
	assert.Equal(t, location.Latitude(), event.Payload["latitude"])
	assert.Equal(t, location.Longitude(), event.Payload["longitude"])
	assert.WithinDuration(t, time.Now().UTC(), event.At, time.Minute)
}

func TestReportCourierLocationCommandHandler_Handle_UnconstructedCommand(t *testing.T) {
	bus := new(RecordingBus)
	h := commands.NewReportCourierLocationCommandHandler(bus)

	err := h.Handle(t.Context(), commands.ReportCourierLocationCommand{})

	require.ErrorIs(t, err, commands.ErrReportCourierLocationCommandIsNotConstructed)
	assert.Empty(t, bus.Events())
}
