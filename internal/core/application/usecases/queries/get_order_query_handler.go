package queries

import (
	"context"
	"database/sql"
	"errors"

	"oshxona/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order with items and history straight
// from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. A missing code fails with
// errs.ErrObjectNotFound.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var response GetOrderQueryResponse
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			customer_id,
			branch_id,
			order_type,
			payment_method,
			status,
			subtotal,
			delivery_fee,
			total,
			address,
			eta_at,
			table_number,
			arrived_at,
			created_at
		FROM orders
		WHERE code = ?
	`, query.Code()).Row()

	err := row.Scan(
		&response.ID,
		&response.Code,
		&response.CustomerID,
		&response.BranchID,
		&response.OrderType,
		&response.PaymentMethod,
		&response.Status,
		&response.Subtotal,
		&response.DeliveryFee,
		&response.Total,
		&response.Address,
		&response.EtaAt,
		&response.TableNumber,
		&response.ArrivedAt,
		&response.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("code", query.Code())
		}
		return GetOrderQueryResponse{}, err
	}

	if response.Items, err = h.loadItems(ctx, response.ID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.History, err = h.loadHistory(ctx, response.ID); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderQueryHandler) loadItems(ctx context.Context, orderID string) ([]OrderItemResponse, error) {
	items := make([]OrderItemResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			name,
			quantity,
			unit_price,
			line_total
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItemResponse
		if err = rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetOrderQueryHandler) loadHistory(ctx context.Context, orderID string) ([]StatusHistoryResponse, error) {
	history := make([]StatusHistoryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			at,
			note,
			actor_kind,
			actor_id
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY position
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry StatusHistoryResponse
		if err = rows.Scan(&entry.Status, &entry.At, &entry.Note, &entry.ActorKind, &entry.ActorID); err != nil {
			return nil, err
		}
		history = append(history, entry)
	}

	return history, rows.Err()
}
