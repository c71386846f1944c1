package inventoryrepo

import (
	"context"
	"errors"
	"time"

	"oshxona/internal/core/domain/model/inventory"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormInventoryLedger implements InventoryLedger using single-statement
// conditional upserts. It deliberately runs outside the unit of work:
// reservations are fire-and-forget against order placement and must not
// hold its transaction open.
type GormInventoryLedger struct {
	db *gorm.DB
}

// NewGormInventoryLedger creates a new GORM inventory ledger.
func NewGormInventoryLedger(db *gorm.DB) *GormInventoryLedger {
	return &GormInventoryLedger{db: db}
}

// reserveSQL applies the reservation in one atomic statement.
//
// The insert branch covers first use: an unknown (branch, product) pair is
// created available and untracked with the quantity already counted. The
// update branch resets sold_today when the stored day is older than today,
// then enforces availability, stock and the daily limit in the WHERE
// clause. Zero rows affected means refusal.
const reserveSQL = `
INSERT INTO branch_inventory
	(branch_id, product_id, is_available, stock, daily_limit, sold_today, last_reset_at)
VALUES (?, ?, TRUE, NULL, NULL, ?, ?)
ON CONFLICT (branch_id, product_id) DO UPDATE SET
	sold_today = CASE
		WHEN branch_inventory.last_reset_at::date < EXCLUDED.last_reset_at::date
		THEN EXCLUDED.sold_today
		ELSE branch_inventory.sold_today + EXCLUDED.sold_today
	END,
	stock = branch_inventory.stock - ?,
	last_reset_at = EXCLUDED.last_reset_at
WHERE branch_inventory.is_available
	AND (branch_inventory.stock IS NULL OR branch_inventory.stock >= ?)
	AND (branch_inventory.daily_limit IS NULL
		OR (CASE
			WHEN branch_inventory.last_reset_at::date < EXCLUDED.last_reset_at::date
			THEN 0
			ELSE branch_inventory.sold_today
		END) + ? <= branch_inventory.daily_limit)
RETURNING sold_today
`

// Reserve atomically consumes quantity for a product at a branch.
func (l *GormInventoryLedger) Reserve(ctx context.Context, branchID, productID kernel.UUID, qty int) (inventory.Reservation, error) {
	if err := errors.Join(branchID.Validate(), productID.Validate()); err != nil {
		return inventory.Reservation{}, err
	}
	if qty <= 0 {
		return inventory.Reservation{}, errs.NewValueIsInvalidError("quantity must be positive")
	}

	now := time.Now().UTC()
	var row struct{ SoldToday int }
	result := l.db.WithContext(ctx).Raw(reserveSQL,
		branchID.Bytes(), productID.Bytes(), qty, now,
		qty, qty, qty,
	).Scan(&row)
	if result.Error != nil {
		return inventory.Reservation{}, result.Error
	}

	if result.RowsAffected == 0 {
		return inventory.Reservation{}, l.rejectionFor(ctx, branchID, productID, qty, now)
	}

	return inventory.Reservation{Quantity: qty, SoldToday: row.SoldToday}, nil
}

// rejectionFor re-reads the row to name the refusal reason. The read is
// only advisory: the atomic statement already decided the outcome.
func (l *GormInventoryLedger) rejectionFor(ctx context.Context, branchID, productID kernel.UUID, qty int, now time.Time) error {
	record, err := l.Get(ctx, branchID, productID)
	if err != nil {
		return err
	}

	_, reserveErr := record.Reserve(qty, now)
	if reserveErr == nil {
		// The row moved between the statement and the re-read. Report the
		// generic refusal rather than guessing.
		return &inventory.ReservationRejectedError{Reason: inventory.ReasonDailyLimitReached}
	}
	return reserveErr
}

// releaseSQL returns quantity without letting counters go negative.
const releaseSQL = `
UPDATE branch_inventory SET
	sold_today = GREATEST(sold_today - ?, 0),
	stock = stock + ?
WHERE branch_id = ? AND product_id = ?
`

// Release atomically returns a previously reserved quantity.
func (l *GormInventoryLedger) Release(ctx context.Context, branchID, productID kernel.UUID, qty int) error {
	if err := errors.Join(branchID.Validate(), productID.Validate()); err != nil {
		return err
	}
	if qty <= 0 {
		return errs.NewValueIsInvalidError("quantity must be positive")
	}

	return l.db.WithContext(ctx).Exec(releaseSQL, qty, qty, branchID.Bytes(), productID.Bytes()).Error
}

// SetLimits creates or updates stock and the daily limit for a pair.
func (l *GormInventoryLedger) SetLimits(ctx context.Context, branchID, productID kernel.UUID, stock, dailyLimit *int) error {
	if err := errors.Join(branchID.Validate(), productID.Validate()); err != nil {
		return err
	}
	if stock != nil && *stock < 0 {
		return errs.NewValueIsInvalidError("stock must not be negative")
	}
	if dailyLimit != nil && *dailyLimit <= 0 {
		return errs.NewValueIsInvalidError("daily limit must be positive")
	}

	return l.db.WithContext(ctx).Exec(`
		INSERT INTO branch_inventory
			(branch_id, product_id, is_available, stock, daily_limit, sold_today, last_reset_at)
		VALUES (?, ?, TRUE, ?, ?, 0, ?)
		ON CONFLICT (branch_id, product_id) DO UPDATE SET
			stock = EXCLUDED.stock,
			daily_limit = EXCLUDED.daily_limit
	`, branchID.Bytes(), productID.Bytes(), stock, dailyLimit, time.Now().UTC()).Error
}

// SetAvailability switches a product on or off for a branch.
func (l *GormInventoryLedger) SetAvailability(ctx context.Context, branchID, productID kernel.UUID, isAvailable bool) error {
	if err := errors.Join(branchID.Validate(), productID.Validate()); err != nil {
		return err
	}

	return l.db.WithContext(ctx).Exec(`
		INSERT INTO branch_inventory
			(branch_id, product_id, is_available, stock, daily_limit, sold_today, last_reset_at)
		VALUES (?, ?, ?, NULL, NULL, 0, ?)
		ON CONFLICT (branch_id, product_id) DO UPDATE SET
			is_available = EXCLUDED.is_available
	`, branchID.Bytes(), productID.Bytes(), isAvailable, time.Now().UTC()).Error
}

// Get retrieves the current record with the daily reset applied to the view.
func (l *GormInventoryLedger) Get(ctx context.Context, branchID, productID kernel.UUID) (*inventory.Record, error) {
	if err := errors.Join(branchID.Validate(), productID.Validate()); err != nil {
		return nil, err
	}

	var dto RecordDTO
	err := l.db.WithContext(ctx).
		First(&dto, "branch_id = ? AND product_id = ?", branchID.Bytes(), productID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("inventory record", productID.String())
		}
		return nil, err
	}

	record, err := toDomain(dto)
	if err != nil {
		return nil, err
	}

	// Present the counter as already reset when the stored day is stale.
	if record.LastResetAt().UTC().Truncate(24*time.Hour).Before(time.Now().UTC().Truncate(24*time.Hour)) {
		return inventory.RestoreRecord(
			record.BranchID(), record.ProductID(), record.IsAvailable(),
			record.Stock(), record.DailyLimit(), 0, time.Now().UTC(),
		)
	}
	return record, nil
}
