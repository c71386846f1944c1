package queries

import (
	"context"

	"oshxona/internal/core/domain/model/order"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetBranchOrdersQueryHandler lists a branch's active orders from the database.
type GetBranchOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetBranchOrdersQueryHandler creates a handler for branch dashboards.
func NewGetBranchOrdersQueryHandler(db *gorm.DB) GetBranchOrdersQueryHandler {
	return GetBranchOrdersQueryHandler{db: db}
}

// Handle executes the listing. Terminal orders are excluded; rows come
// back oldest first so the kitchen works the queue in order.
func (h GetBranchOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetBranchOrdersQuery,
) ([]GetBranchOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetBranchOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			code,
			order_type,
			status,
			total,
			table_number,
			eta_at,
			created_at
		FROM orders
		WHERE branch_id = ? AND NOT (status = ANY(?))
		ORDER BY created_at
	`, query.BranchID().String(),
		pq.Array([]string{order.Completed.String(), order.Cancelled.String()})).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row GetBranchOrdersQueryResponse
		err = rows.Scan(
			&row.Code,
			&row.OrderType,
			&row.Status,
			&row.Total,
			&row.TableNumber,
			&row.EtaAt,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, row)
	}

	return orders, rows.Err()
}
