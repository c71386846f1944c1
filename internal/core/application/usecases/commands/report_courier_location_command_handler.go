package commands

import (
	"context"
	"time"

	"oshxona/internal/core/ports"
)

// ReportCourierLocationCommandHandler fans courier positions out to the
// branch topic. Nothing is persisted.
type ReportCourierLocationCommandHandler struct {
	bus ports.NotificationBus
}

// NewReportCourierLocationCommandHandler creates a handler for courier position pings.
func NewReportCourierLocationCommandHandler(bus ports.NotificationBus) ReportCourierLocationCommandHandler {
	return ReportCourierLocationCommandHandler{
		bus: bus,
	}
}

// Handle publishes a courier_location event to the branch topic.
func (h *ReportCourierLocationCommandHandler) Handle(_ context.Context, cmd ReportCourierLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	h.bus.Publish(ports.Event{
		Kind:  ports.EventCourierLocation,
		Topic: ports.BranchTopic(cmd.BranchID()),
		At:    time.Now().UTC(),
		Payload: map[string]any{
			"courier_id": cmd.CourierID().String(),
			"latitude":   cmd.Location().Latitude(),
			"longitude":  cmd.Location().Longitude(),
		},
	})

	return nil
}
