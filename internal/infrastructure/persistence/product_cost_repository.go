package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/infrastructure/persistence/models"
)

// GormProductCostRepository implements finance.ProductCostRepository using GORM
type GormProductCostRepository struct {
	db *gorm.DB
}

// NewGormProductCostRepository creates a new GormProductCostRepository
func NewGormProductCostRepository(db *gorm.DB) *GormProductCostRepository {
	return &GormProductCostRepository{db: db}
}

var _ finance.ProductCostRepository = (*GormProductCostRepository)(nil)

// FindByID finds a product cost entry by its ID
func (r *GormProductCostRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.ProductCost, error) {
	var model models.ProductCostModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.ErrProductCostNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySKU looks up the entry for an organization's SKU
func (r *GormProductCostRepository) FindBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (*finance.ProductCost, error) {
	var model models.ProductCostModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND sku = ?", organizationID, sku).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.ErrProductCostNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrganization lists an organization's product costs ordered by SKU
func (r *GormProductCostRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*finance.ProductCost, error) {
	var costModels []models.ProductCostModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("sku ASC").
		Find(&costModels).Error; err != nil {
		return nil, err
	}

	costs := make([]*finance.ProductCost, len(costModels))
	for i := range costModels {
		costs[i] = costModels[i].ToDomain()
	}
	return costs, nil
}

// Save inserts or updates the entry; an insert hitting the (org, SKU) key of
// another row is reported as ErrDuplicateSKU
func (r *GormProductCostRepository) Save(ctx context.Context, cost *finance.ProductCost) error {
	model := models.ProductCostModelFromDomain(cost)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return finance.ErrDuplicateSKU
		}
		return result.Error
	}
	return nil
}

// Delete removes the entry
func (r *GormProductCostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductCostModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return finance.ErrProductCostNotFound
	}
	return nil
}
