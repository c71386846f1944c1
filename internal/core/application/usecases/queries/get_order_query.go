// Package queries contains read-only operations for the ordering system.
// Implements the Query side of the CQRS architecture: handlers read the
// database directly and return plain response structs, bypassing the
// aggregate constructors.
package queries

import (
	"errors"
	"time"

	"oshxona/internal/pkg/errs"
	"oshxona/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order by its human-facing code, with line
// items and the full status history.
type GetOrderQuery struct {
	code string

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(code string) (GetOrderQuery, error) {
	if code == "" {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("code")
	}
	return GetOrderQuery{
		code:  code,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// Code returns the order code being looked up.
func (q GetOrderQuery) Code() string {
	return q.code
}

// GetOrderQueryResponse is the full read model of one order.
type GetOrderQueryResponse struct {
	ID            string                  `json:"id"`
	Code          string                  `json:"code"`
	CustomerID    string                  `json:"customer_id"`
	BranchID      *string                 `json:"branch_id,omitempty"`
	OrderType     string                  `json:"order_type"`
	PaymentMethod string                  `json:"payment_method"`
	Status        string                  `json:"status"`
	Subtotal      int64                   `json:"subtotal"`
	DeliveryFee   int64                   `json:"delivery_fee"`
	Total         int64                   `json:"total"`
	Address       string                  `json:"address,omitempty"`
	EtaAt         *time.Time              `json:"eta_at,omitempty"`
	TableNumber   string                  `json:"table_number,omitempty"`
	ArrivedAt     *time.Time              `json:"arrived_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	Items         []OrderItemResponse     `json:"items"`
	History       []StatusHistoryResponse `json:"history"`
}

// OrderItemResponse is one cart line in the read model.
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// StatusHistoryResponse is one status change in the read model.
type StatusHistoryResponse struct {
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
	Note      string    `json:"note,omitempty"`
	ActorKind string    `json:"actor_kind"`
	ActorID   string    `json:"actor_id,omitempty"`
}
