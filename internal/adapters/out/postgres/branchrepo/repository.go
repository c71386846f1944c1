package branchrepo

import (
	"context"
	"errors"

	"oshxona/internal/core/domain/model/branch"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormBranchRepository implements BranchRepository using GORM.
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GORM branch repository.
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// Get retrieves a branch by ID.
func (r *GormBranchRepository) Get(ctx context.Context, id kernel.UUID) (*branch.Branch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BranchDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("branch", id.String())
		}
		return nil, err
	}

	return branchToDomain(dto)
}

// GetAllActive retrieves every active branch.
func (r *GormBranchRepository) GetAllActive(ctx context.Context) ([]*branch.Branch, error) {
	var dtos []BranchDTO
	if err := r.db.WithContext(ctx).Where("is_active").Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	branches := make([]*branch.Branch, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := branchToDomain(dto)
		if err != nil {
			return nil, err
		}
		branches = append(branches, aggregate)
	}
	return branches, nil
}

// GetActiveZones retrieves every active delivery zone across all branches.
func (r *GormBranchRepository) GetActiveZones(ctx context.Context) ([]*branch.DeliveryZone, error) {
	var dtos []ZoneDTO
	if err := r.db.WithContext(ctx).Where("is_active").Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	zones := make([]*branch.DeliveryZone, 0, len(dtos))
	for _, dto := range dtos {
		zone, err := zoneToDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

// AddZone persists a new delivery zone.
func (r *GormBranchRepository) AddZone(ctx context.Context, zone *branch.DeliveryZone) error {
	if err := zone.Validate(); err != nil {
		return err
	}

	dto, err := zoneFromDomain(zone)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Add persists a new branch. Used by seeding and back-office tooling.
func (r *GormBranchRepository) Add(ctx context.Context, aggregate *branch.Branch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := branchFromDomain(aggregate)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
