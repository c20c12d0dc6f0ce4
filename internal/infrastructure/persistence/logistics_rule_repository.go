package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
	"github.com/lucreapp/backend/internal/infrastructure/persistence/models"
)

// GormLogisticsRuleRepository implements finance.LogisticsRuleRepository using GORM
type GormLogisticsRuleRepository struct {
	db *gorm.DB
}

// NewGormLogisticsRuleRepository creates a new GormLogisticsRuleRepository
func NewGormLogisticsRuleRepository(db *gorm.DB) *GormLogisticsRuleRepository {
	return &GormLogisticsRuleRepository{db: db}
}

var _ finance.LogisticsRuleRepository = (*GormLogisticsRuleRepository)(nil)

// FindByMethod resolves the rule priced for one shipment
func (r *GormLogisticsRuleRepository) FindByMethod(ctx context.Context, organizationID uuid.UUID, platform integration.PlatformCode, shippingMethod string) (*finance.LogisticsCostRule, error) {
	var model models.LogisticsRuleModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND platform = ? AND shipping_method = ?", organizationID, platform, shippingMethod).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.ErrLogisticsRuleNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByID finds a rule by its ID
func (r *GormLogisticsRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LogisticsCostRule, error) {
	var model models.LogisticsRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.ErrLogisticsRuleNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrganization lists an organization's rules grouped by platform
func (r *GormLogisticsRuleRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*finance.LogisticsCostRule, error) {
	var ruleModels []models.LogisticsRuleModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("platform ASC, shipping_method ASC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]*finance.LogisticsCostRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = ruleModels[i].ToDomain()
	}
	return rules, nil
}

// Save inserts or updates the rule; an insert hitting another row's
// (org, platform, method) key is reported as ErrDuplicateRule
func (r *GormLogisticsRuleRepository) Save(ctx context.Context, rule *finance.LogisticsCostRule) error {
	model := models.LogisticsRuleModelFromDomain(rule)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return finance.ErrDuplicateRule
		}
		return result.Error
	}
	return nil
}

// Delete removes the rule
func (r *GormLogisticsRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LogisticsRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return finance.ErrLogisticsRuleNotFound
	}
	return nil
}
