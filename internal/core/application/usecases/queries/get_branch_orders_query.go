package queries

import (
	"errors"
	"time"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/guard"
)

var ErrGetBranchOrdersQueryIsNotConstructed = errors.New(
	"GetBranchOrdersQuery must be created via NewGetBranchOrdersQuery constructor",
)

// GetBranchOrdersQuery retrieves the active (non-terminal) orders of one
// branch, oldest first, for the staff dashboard.
type GetBranchOrdersQuery struct {
	branchID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetBranchOrdersQuery creates a query for a branch's active orders.
func NewGetBranchOrdersQuery(branchID kernel.UUID) (GetBranchOrdersQuery, error) {
	if err := branchID.Validate(); err != nil {
		return GetBranchOrdersQuery{}, err
	}
	return GetBranchOrdersQuery{
		branchID: branchID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetBranchOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetBranchOrdersQueryIsNotConstructed)
}

// BranchID returns the branch being listed.
func (q GetBranchOrdersQuery) BranchID() kernel.UUID {
	return q.branchID
}

// GetBranchOrdersQueryResponse is one active order row on the dashboard.
type GetBranchOrdersQueryResponse struct {
	Code        string     `json:"code"`
	OrderType   string     `json:"order_type"`
	Status      string     `json:"status"`
	Total       int64      `json:"total"`
	TableNumber string     `json:"table_number,omitempty"`
	EtaAt       *time.Time `json:"eta_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
