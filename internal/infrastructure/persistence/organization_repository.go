package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lucreapp/backend/internal/domain/tenant"
	"github.com/lucreapp/backend/internal/infrastructure/persistence/models"
)

// GormOrganizationRepository implements tenant.Repository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

var _ tenant.Repository = (*GormOrganizationRepository)(nil)

// FindByID finds an organization by its ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenant.ErrOrganizationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCNPJ finds an organization by its normalized CNPJ
func (r *GormOrganizationRepository) FindByCNPJ(ctx context.Context, cnpj string) (*tenant.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "cnpj = ?", cnpj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenant.ErrOrganizationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists every organization ordered by name
func (r *GormOrganizationRepository) FindAll(ctx context.Context) ([]*tenant.Organization, error) {
	var orgModels []models.OrganizationModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&orgModels).Error; err != nil {
		return nil, err
	}

	orgs := make([]*tenant.Organization, len(orgModels))
	for i := range orgModels {
		orgs[i] = orgModels[i].ToDomain()
	}
	return orgs, nil
}

// Save inserts or updates the organization. A conflicting CNPJ on insert is
// reported as ErrDuplicateCNPJ instead of a driver error.
func (r *GormOrganizationRepository) Save(ctx context.Context, org *tenant.Organization) error {
	model := models.OrganizationModelFromDomain(org)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return tenant.ErrDuplicateCNPJ
		}
		return result.Error
	}
	return nil
}

// Delete removes an organization
func (r *GormOrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrganizationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tenant.ErrOrganizationNotFound
	}
	return nil
}
