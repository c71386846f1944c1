// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items and status history live in child tables keyed by order ID and
// ordered by position; both are written together with the order row.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code          string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID      *uuid.UUID `gorm:"type:uuid;index"`
	OrderType     string     `gorm:"type:varchar(16);not null"`
	PaymentMethod string     `gorm:"type:varchar(16);not null"`
	Status        string     `gorm:"type:varchar(16);not null;index"`
	Subtotal      int64      `gorm:"not null"`
	DeliveryFee   int64      `gorm:"not null"`
	Total         int64      `gorm:"not null"`

	Address    string   `gorm:"type:text"`
	Latitude   *float64 `gorm:"type:double precision"`
	Longitude  *float64 `gorm:"type:double precision"`
	DistanceKm float64  `gorm:"type:double precision"`
	EtaAt      *time.Time
	CourierID  *uuid.UUID `gorm:"type:uuid;index"`

	ArrivalOffsetMinutes int    `gorm:"not null;default:0"`
	TableNumber          string `gorm:"type:varchar(16)"`
	ArrivedAt            *time.Time

	CreatedAt time.Time `gorm:"not null"`

	Items   []ItemDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []HistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one persisted cart line.
type ItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Quantity  int       `gorm:"not null"`
	UnitPrice int64     `gorm:"not null"`
	LineTotal int64     `gorm:"not null"`
}

// TableName specifies the database table name for order line items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// HistoryDTO represents one persisted status history entry.
type HistoryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey"`
	Status    string    `gorm:"type:varchar(16);not null"`
	At        time.Time `gorm:"not null"`
	Note      string    `gorm:"type:text"`
	ActorKind string    `gorm:"type:varchar(16);not null"`
	ActorID   string    `gorm:"type:varchar(64)"`
}

// TableName specifies the database table name for status history entries.
func (HistoryDTO) TableName() string {
	return "order_status_history"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:            aggregate.ID().Bytes(),
		Code:          aggregate.Code(),
		CustomerID:    aggregate.CustomerID().Bytes(),
		OrderType:     aggregate.Type().String(),
		PaymentMethod: string(aggregate.PaymentMethod()),
		Status:        aggregate.Status().String(),
		Subtotal:      aggregate.Subtotal(),
		DeliveryFee:   aggregate.DeliveryFee(),
		Total:         aggregate.Total(),

		Address:    aggregate.Address(),
		DistanceKm: aggregate.DistanceKm(),
		EtaAt:      aggregate.EtaAt(),

		ArrivalOffsetMinutes: aggregate.ArrivalOffsetMinutes(),
		TableNumber:          aggregate.TableNumber(),
		ArrivedAt:            aggregate.ArrivedAt(),

		CreatedAt: aggregate.CreatedAt(),
	}

	if branchID := aggregate.BranchID(); branchID != nil {
		raw := branchID.Bytes()
		dto.BranchID = &raw
	}
	if courierID := aggregate.CourierID(); courierID != nil {
		raw := courierID.Bytes()
		dto.CourierID = &raw
	}
	if loc := aggregate.Location(); loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		dto.Latitude = &lat
		dto.Longitude = &lon
	}

	for i, item := range aggregate.Items() {
		dto.Items = append(dto.Items, ItemDTO{
			OrderID:   dto.ID,
			Position:  i,
			ProductID: item.ProductID().Bytes(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			LineTotal: item.LineTotal(),
		})
	}
	for i, entry := range aggregate.History() {
		dto.History = append(dto.History, HistoryDTO{
			OrderID:   dto.ID,
			Position:  i,
			Status:    entry.Status.String(),
			At:        entry.At,
			Note:      entry.Note,
			ActorKind: string(entry.Actor.Kind),
			ActorID:   entry.Actor.ID,
		})
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	orderType, err := order.OrderTypeFromString(dto.OrderType)
	if err != nil {
		return nil, err
	}
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	params := order.RestoreOrderParams{
		ID:            id,
		Code:          dto.Code,
		CustomerID:    customerID,
		OrderType:     orderType,
		PaymentMethod: order.PaymentMethod(dto.PaymentMethod),
		Subtotal:      dto.Subtotal,
		DeliveryFee:   dto.DeliveryFee,
		Total:         dto.Total,
		Status:        status,

		Address:    dto.Address,
		DistanceKm: dto.DistanceKm,
		EtaAt:      dto.EtaAt,

		ArrivalOffsetMinutes: dto.ArrivalOffsetMinutes,
		TableNumber:          dto.TableNumber,
		ArrivedAt:            dto.ArrivedAt,

		CreatedAt: dto.CreatedAt,
	}

	if dto.BranchID != nil {
		branchID, branchErr := kernel.UUIDFromBytes((*dto.BranchID)[:])
		if branchErr != nil {
			return nil, branchErr
		}
		params.BranchID = &branchID
	}
	if dto.CourierID != nil {
		courierID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		params.CourierID = &courierID
	}
	if dto.Latitude != nil && dto.Longitude != nil {
		loc, locErr := kernel.NewLocation(*dto.Latitude, *dto.Longitude)
		if locErr != nil {
			return nil, locErr
		}
		params.Location = &loc
	}

	for _, itemDTO := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewItem(productID, itemDTO.Name, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		params.Items = append(params.Items, item)
	}
	for _, entryDTO := range dto.History {
		entryStatus, entryErr := order.StatusFromString(entryDTO.Status)
		if entryErr != nil {
			return nil, entryErr
		}
		params.History = append(params.History, order.HistoryEntry{
			Status: entryStatus,
			At:     entryDTO.At,
			Note:   entryDTO.Note,
			Actor: order.Actor{
				Kind: order.ActorKind(entryDTO.ActorKind),
				ID:   entryDTO.ActorID,
			},
		})
	}

	return order.RestoreOrder(params)
}
