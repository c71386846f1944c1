// Package inventoryrepo implements the inventory ledger on PostgreSQL.
//
// Every reservation is one conditional INSERT ... ON CONFLICT DO UPDATE
// statement: the row is created on first use with the increment already
// applied, the daily reset and the limit checks happen inside the same
// statement, and a statement that affects no rows means the reservation
// was refused. Concurrent reservations against the same (branch, product)
// therefore serialize on the row lock and can never oversell.
package inventoryrepo

import (
	"time"

	"oshxona/internal/core/domain/model/inventory"
	"oshxona/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RecordDTO represents the database structure for per-branch product counters.
type RecordDTO struct {
	BranchID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsAvailable bool      `gorm:"not null;default:true"`
	Stock       *int
	DailyLimit  *int
	SoldToday   int       `gorm:"not null;default:0"`
	LastResetAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for inventory records.
func (RecordDTO) TableName() string {
	return "branch_inventory"
}

func toDomain(dto RecordDTO) (*inventory.Record, error) {
	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	return inventory.RestoreRecord(
		branchID,
		productID,
		dto.IsAvailable,
		dto.Stock,
		dto.DailyLimit,
		dto.SoldToday,
		dto.LastResetAt,
	)
}
