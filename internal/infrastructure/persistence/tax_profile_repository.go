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

// GormTaxProfileRepository implements finance.TaxProfileRepository using GORM
type GormTaxProfileRepository struct {
	db *gorm.DB
}

// NewGormTaxProfileRepository creates a new GormTaxProfileRepository
func NewGormTaxProfileRepository(db *gorm.DB) *GormTaxProfileRepository {
	return &GormTaxProfileRepository{db: db}
}

var _ finance.TaxProfileRepository = (*GormTaxProfileRepository)(nil)

// FindByOrganization returns the tenant's tax profile
func (r *GormTaxProfileRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) (*finance.TaxProfile, error) {
	var model models.TaxProfileModel
	if err := r.db.WithContext(ctx).First(&model, "organization_id = ?", organizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.ErrTaxProfileNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or updates the profile. The unique index on organization_id
// keeps it one-per-tenant; a concurrent insert collapses into an update.
func (r *GormTaxProfileRepository) Save(ctx context.Context, profile *finance.TaxProfile) error {
	model := models.TaxProfileModelFromDomain(profile)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "organization_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"regime", "icms_benefit_flag", "effective_tax_rate", "updated_at"}),
		}).
		Create(model).Error
}

// Delete removes the tenant's profile
func (r *GormTaxProfileRepository) Delete(ctx context.Context, organizationID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TaxProfileModel{}, "organization_id = ?", organizationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return finance.ErrTaxProfileNotFound
	}
	return nil
}
