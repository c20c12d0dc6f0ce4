package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lucreapp/backend/internal/domain/integration"
	"github.com/lucreapp/backend/internal/infrastructure/persistence/models"
)

// GormCredentialRepository implements integration.CredentialRepository using GORM
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

var _ integration.CredentialRepository = (*GormCredentialRepository)(nil)

// FindByOrganization returns the tenant's credential set
func (r *GormCredentialRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) (*integration.CredentialSet, error) {
	var model models.CredentialSetModel
	if err := r.db.WithContext(ctx).First(&model, "organization_id = ?", organizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrCredentialNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every stored credential set, ordered for stable sweeps
func (r *GormCredentialRepository) FindAll(ctx context.Context) ([]*integration.CredentialSet, error) {
	var credModels []models.CredentialSetModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&credModels).Error; err != nil {
		return nil, err
	}

	sets := make([]*integration.CredentialSet, len(credModels))
	for i := range credModels {
		sets[i] = credModels[i].ToDomain()
	}
	return sets, nil
}

// Save inserts or updates the full credential set
func (r *GormCredentialRepository) Save(ctx context.Context, creds *integration.CredentialSet) error {
	model := models.CredentialSetModelFromDomain(creds)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "organization_id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// UpdateTokens persists one platform's token state without touching the rest
// of the row, so concurrent refreshes of the two platforms never clobber
// each other
func (r *GormCredentialRepository) UpdateTokens(ctx context.Context, organizationID uuid.UUID, platform integration.PlatformCode, tokens integration.TokenPair) error {
	var updates map[string]interface{}
	switch platform {
	case integration.PlatformCodeMercadoLivre:
		updates = map[string]interface{}{
			"ml_access_token":     tokens.AccessToken,
			"ml_refresh_token":    tokens.RefreshToken,
			"ml_token_expires_at": tokens.ExpiresAt,
			"updated_at":          time.Now(),
		}
	case integration.PlatformCodeShopee:
		updates = map[string]interface{}{
			"shopee_access_token":     tokens.AccessToken,
			"shopee_refresh_token":    tokens.RefreshToken,
			"shopee_token_expires_at": tokens.ExpiresAt,
			"updated_at":              time.Now(),
		}
	default:
		return integration.ErrUnknownPlatform
	}

	result := r.db.WithContext(ctx).
		Model(&models.CredentialSetModel{}).
		Where("organization_id = ?", organizationID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrCredentialNotFound
	}
	return nil
}
