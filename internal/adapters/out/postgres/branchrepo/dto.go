// Package branchrepo provides data transfer objects and mapping functions for
// branch and delivery zone persistence. Working hours and zone polygons are
// stored as JSON columns since they are always read and written whole.
package branchrepo

import (
	"encoding/json"
	"time"

	"oshxona/internal/core/domain/model/branch"
	"oshxona/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BranchDTO represents the database structure for persisting branch aggregates.
type BranchDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Latitude  float64   `gorm:"type:double precision;not null"`
	Longitude float64   `gorm:"type:double precision;not null"`

	MinOrderAmount        int64   `gorm:"not null;default:0"`
	BaseDeliveryFee       int64   `gorm:"not null;default:0"`
	FreeDeliveryAmount    int64   `gorm:"not null;default:0"`
	MaxDeliveryDistanceKm float64 `gorm:"type:double precision;not null;default:0"`
	SurchargeThresholdKm  float64 `gorm:"type:double precision;not null;default:0"`
	SurchargePerKm        int64   `gorm:"not null;default:0"`

	WorkingHours []byte         `gorm:"type:jsonb"`
	IsActive     bool           `gorm:"not null;default:true;index"`
}

// TableName specifies the database table name for branch entities.
func (BranchDTO) TableName() string {
	return "branches"
}

// ZoneDTO represents the database structure for persisting delivery zones.
type ZoneDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255);not null"`

	Vertices []byte `gorm:"type:jsonb;not null"`

	DeliveryFee        int64 `gorm:"not null;default:0"`
	FreeDeliveryAmount int64 `gorm:"not null;default:0"`
	MinOrderAmount     int64 `gorm:"not null;default:0"`
	IsActive           bool  `gorm:"not null;default:true;index"`
}

// TableName specifies the database table name for delivery zones.
func (ZoneDTO) TableName() string {
	return "delivery_zones"
}

// workingHoursJSON is the stored shape of one weekday window.
type workingHoursJSON struct {
	Weekday  int  `json:"weekday"`
	OpensAt  int  `json:"opens_at"`
	ClosesAt int  `json:"closes_at"`
	IsDayOff bool `json:"is_day_off"`
}

// vertexJSON is the stored shape of one polygon vertex.
type vertexJSON struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

func branchFromDomain(aggregate *branch.Branch) (BranchDTO, error) {
	hours := make([]workingHoursJSON, 0, len(aggregate.WorkingHours()))
	for _, wh := range aggregate.WorkingHours() {
		hours = append(hours, workingHoursJSON{
			Weekday:  int(wh.Weekday),
			OpensAt:  wh.OpensAt,
			ClosesAt: wh.ClosesAt,
			IsDayOff: wh.IsDayOff,
		})
	}
	rawHours, err := json.Marshal(hours)
	if err != nil {
		return BranchDTO{}, err
	}

	settings := aggregate.Settings()
	return BranchDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		Latitude:  aggregate.Location().Latitude(),
		Longitude: aggregate.Location().Longitude(),

		MinOrderAmount:        settings.MinOrderAmount,
		BaseDeliveryFee:       settings.BaseDeliveryFee,
		FreeDeliveryAmount:    settings.FreeDeliveryAmount,
		MaxDeliveryDistanceKm: settings.MaxDeliveryDistanceKm,
		SurchargeThresholdKm:  settings.SurchargeThresholdKm,
		SurchargePerKm:        settings.SurchargePerKm,

		WorkingHours: rawHours,
		IsActive:     aggregate.IsActive(),
	}, nil
}

func branchToDomain(dto BranchDTO) (*branch.Branch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewLocation(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	var hours []branch.WorkingHours
	if len(dto.WorkingHours) > 0 {
		var stored []workingHoursJSON
		if err = json.Unmarshal(dto.WorkingHours, &stored); err != nil {
			return nil, err
		}
		for _, wh := range stored {
			hours = append(hours, branch.WorkingHours{
				Weekday:  time.Weekday(wh.Weekday),
				OpensAt:  wh.OpensAt,
				ClosesAt: wh.ClosesAt,
				IsDayOff: wh.IsDayOff,
			})
		}
	}

	return branch.RestoreBranch(
		id,
		dto.Name,
		location,
		branch.Settings{
			MinOrderAmount:        dto.MinOrderAmount,
			BaseDeliveryFee:       dto.BaseDeliveryFee,
			FreeDeliveryAmount:    dto.FreeDeliveryAmount,
			MaxDeliveryDistanceKm: dto.MaxDeliveryDistanceKm,
			SurchargeThresholdKm:  dto.SurchargeThresholdKm,
			SurchargePerKm:        dto.SurchargePerKm,
		},
		hours,
		dto.IsActive,
	)
}

func zoneFromDomain(zone *branch.DeliveryZone) (ZoneDTO, error) {
	vertices := make([]vertexJSON, 0, len(zone.Polygon().Vertices()))
	for _, v := range zone.Polygon().Vertices() {
		vertices = append(vertices, vertexJSON{Latitude: v.Latitude(), Longitude: v.Longitude()})
	}
	rawVertices, err := json.Marshal(vertices)
	if err != nil {
		return ZoneDTO{}, err
	}

	return ZoneDTO{
		ID:       zone.ID().Bytes(),
		BranchID: zone.BranchID().Bytes(),
		Name:     zone.Name(),

		Vertices: rawVertices,

		DeliveryFee:        zone.DeliveryFee(),
		FreeDeliveryAmount: zone.FreeDeliveryAmount(),
		MinOrderAmount:     zone.MinOrderAmount(),
		IsActive:           zone.IsActive(),
	}, nil
}

func zoneToDomain(dto ZoneDTO) (*branch.DeliveryZone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}

	var stored []vertexJSON
	if err = json.Unmarshal(dto.Vertices, &stored); err != nil {
		return nil, err
	}
	vertices := make([]kernel.Location, 0, len(stored))
	for _, v := range stored {
		loc, locErr := kernel.NewLocation(v.Latitude, v.Longitude)
		if locErr != nil {
			return nil, locErr
		}
		vertices = append(vertices, loc)
	}

	return branch.RestoreDeliveryZone(
		id,
		branchID,
		dto.Name,
		vertices,
		dto.DeliveryFee,
		dto.FreeDeliveryAmount,
		dto.MinOrderAmount,
		dto.IsActive,
	)
}
