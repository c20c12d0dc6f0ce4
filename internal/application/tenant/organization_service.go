package tenant

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/tenant"
)

// OrganizationService exposes the tenant lifecycle to the interface layer
type OrganizationService struct {
	orgRepo tenant.Repository
	logger  *zap.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo tenant.Repository, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
		logger:  logger,
	}
}

// Create registers a new organization
func (s *OrganizationService) Create(ctx context.Context, name, cnpj string) (*tenant.Organization, error) {
	org, err := tenant.NewOrganization(name, cnpj)
	if err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	s.logger.Info("Organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("cnpj", org.CNPJ),
	)
	return org, nil
}

// Get returns one organization
func (s *OrganizationService) Get(ctx context.Context, id uuid.UUID) (*tenant.Organization, error) {
	return s.orgRepo.FindByID(ctx, id)
}

// List returns all organizations
func (s *OrganizationService) List(ctx context.Context) ([]*tenant.Organization, error) {
	return s.orgRepo.FindAll(ctx)
}

// Update renames an organization; the CNPJ is immutable
func (s *OrganizationService) Update(ctx context.Context, id uuid.UUID, name string) (*tenant.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := org.Update(name); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Delete removes an organization and everything it owns
func (s *OrganizationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.orgRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.orgRepo.Delete(ctx, id)
}
