package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucreapp/backend/internal/domain/integration"
	"github.com/lucreapp/backend/internal/infrastructure/persistence/models"
)

// defaultErrorLogLimit caps listings when the caller passes no limit
const defaultErrorLogLimit = 50

// GormErrorLogRepository implements integration.ErrorLogRepository using GORM
type GormErrorLogRepository struct {
	db *gorm.DB
}

// NewGormErrorLogRepository creates a new GormErrorLogRepository
func NewGormErrorLogRepository(db *gorm.DB) *GormErrorLogRepository {
	return &GormErrorLogRepository{db: db}
}

var _ integration.ErrorLogRepository = (*GormErrorLogRepository)(nil)

// Append stores a new entry
func (r *GormErrorLogRepository) Append(ctx context.Context, entry *integration.ErrorLogEntry) error {
	model := models.IntegrationErrorModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListByOrganization returns the tenant's most recent entries, newest first
func (r *GormErrorLogRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID, limit int) ([]*integration.ErrorLogEntry, error) {
	if limit <= 0 {
		limit = defaultErrorLogLimit
	}

	var entryModels []models.IntegrationErrorModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*integration.ErrorLogEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries, nil
}
