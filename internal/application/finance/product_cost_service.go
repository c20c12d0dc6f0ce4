package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucreapp/backend/internal/domain/finance"
)

// ProductCostInput carries the writable fields of a product cost entry
type ProductCostInput struct {
	SKU          string
	Description  string
	GrossCost    decimal.Decimal
	ICMSCredit   decimal.Decimal
	PISCredit    decimal.Decimal
	COFINSCredit decimal.Decimal
}

// ProductCostService maintains the per-SKU cost table
type ProductCostService struct {
	costRepo finance.ProductCostRepository
}

// NewProductCostService creates a new ProductCostService
func NewProductCostService(costRepo finance.ProductCostRepository) *ProductCostService {
	return &ProductCostService{costRepo: costRepo}
}

// Create registers a new SKU cost entry
func (s *ProductCostService) Create(ctx context.Context, organizationID uuid.UUID, input ProductCostInput) (*finance.ProductCost, error) {
	cost, err := finance.NewProductCost(organizationID, input.SKU, input.Description,
		input.GrossCost, input.ICMSCredit, input.PISCredit, input.COFINSCredit)
	if err != nil {
		return nil, err
	}
	if err := s.costRepo.Save(ctx, cost); err != nil {
		return nil, err
	}
	return cost, nil
}

// Update replaces the cost figures of an existing entry
func (s *ProductCostService) Update(ctx context.Context, organizationID, id uuid.UUID, input ProductCostInput) (*finance.ProductCost, error) {
	cost, err := s.costRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cost.OrganizationID != organizationID {
		return nil, finance.ErrProductCostNotFound
	}
	if err := cost.Update(input.Description, input.GrossCost, input.ICMSCredit, input.PISCredit, input.COFINSCredit); err != nil {
		return nil, err
	}
	if err := s.costRepo.Save(ctx, cost); err != nil {
		return nil, err
	}
	return cost, nil
}

// Get returns one entry scoped to the organization
func (s *ProductCostService) Get(ctx context.Context, organizationID, id uuid.UUID) (*finance.ProductCost, error) {
	cost, err := s.costRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cost.OrganizationID != organizationID {
		return nil, finance.ErrProductCostNotFound
	}
	return cost, nil
}

// List returns the organization's cost table ordered by SKU
func (s *ProductCostService) List(ctx context.Context, organizationID uuid.UUID) ([]*finance.ProductCost, error) {
	return s.costRepo.FindByOrganization(ctx, organizationID)
}

// Delete removes an entry scoped to the organization
func (s *ProductCostService) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	cost, err := s.costRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if cost.OrganizationID != organizationID {
		return finance.ErrProductCostNotFound
	}
	return s.costRepo.Delete(ctx, id)
}
