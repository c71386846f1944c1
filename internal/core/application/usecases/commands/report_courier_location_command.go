package commands

import (
	"errors"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/guard"
)

var ErrReportCourierLocationCommandIsNotConstructed = errors.New(
	"ReportCourierLocationCommand must be created via NewReportCourierLocationCommand constructor",
)

// ReportCourierLocationCommand represents a courier position ping for the
// branch's live map. Positions are ephemeral: they fan out to whoever is
// watching right now and are not stored.
type ReportCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	branchID  kernel.UUID
	location  kernel.Location

	guard guard.ConstructorGuard
}

// NewReportCourierLocationCommand creates a command to broadcast a courier position.
func NewReportCourierLocationCommand(courierID, branchID kernel.UUID, location kernel.Location) (ReportCourierLocationCommand, error) {
	cmd := ReportCourierLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(courierID.Validate(), branchID.Validate(), location.Validate()); err != nil {
		return ReportCourierLocationCommand{}, err
	}

	cmd.courierID = courierID
	cmd.branchID = branchID
	cmd.location = location

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportCourierLocationCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c ReportCourierLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// BranchID returns the branch whose staff watch the courier.
func (c ReportCourierLocationCommand) BranchID() kernel.UUID {
	return c.branchID
}

// Location returns the reported position.
func (c ReportCourierLocationCommand) Location() kernel.Location {
	return c.location
}
