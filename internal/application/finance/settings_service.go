package finance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
)

// TaxProfileService maintains the single tax profile of each organization
type TaxProfileService struct {
	taxRepo finance.TaxProfileRepository
}

// NewTaxProfileService creates a new TaxProfileService
func NewTaxProfileService(taxRepo finance.TaxProfileRepository) *TaxProfileService {
	return &TaxProfileService{taxRepo: taxRepo}
}

// Get returns the organization's profile, ErrTaxProfileNotFound if unset
func (s *TaxProfileService) Get(ctx context.Context, organizationID uuid.UUID) (*finance.TaxProfile, error) {
	return s.taxRepo.FindByOrganization(ctx, organizationID)
}

// Upsert creates the profile on first call, updates it afterwards
func (s *TaxProfileService) Upsert(ctx context.Context, organizationID uuid.UUID, regime finance.TaxRegime, benefit bool, effectiveRate decimal.Decimal) (*finance.TaxProfile, error) {
	profile, err := s.taxRepo.FindByOrganization(ctx, organizationID)
	switch {
	case err == nil:
		if err := profile.Update(regime, benefit, effectiveRate); err != nil {
			return nil, err
		}
	case errors.Is(err, finance.ErrTaxProfileNotFound):
		profile, err = finance.NewTaxProfile(organizationID, regime, benefit, effectiveRate)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.taxRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Delete removes the organization's profile
func (s *TaxProfileService) Delete(ctx context.Context, organizationID uuid.UUID) error {
	return s.taxRepo.Delete(ctx, organizationID)
}

// ---------------------------------------------------------------------------
// Logistics rules
// ---------------------------------------------------------------------------

// LogisticsRuleInput carries the writable fields of a logistics cost rule
type LogisticsRuleInput struct {
	Platform       integration.PlatformCode
	ShippingMethod string
	FixedCost      decimal.Decimal
}

// LogisticsService maintains the per-shipping-method cost rules
type LogisticsService struct {
	ruleRepo finance.LogisticsRuleRepository
}

// NewLogisticsService creates a new LogisticsService
func NewLogisticsService(ruleRepo finance.LogisticsRuleRepository) *LogisticsService {
	return &LogisticsService{ruleRepo: ruleRepo}
}

// Create registers a rule for a (platform, shipping method) pair
func (s *LogisticsService) Create(ctx context.Context, organizationID uuid.UUID, input LogisticsRuleInput) (*finance.LogisticsCostRule, error) {
	rule, err := finance.NewLogisticsCostRule(organizationID, input.Platform, input.ShippingMethod, input.FixedCost)
	if err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Update replaces the fixed cost of an existing rule
func (s *LogisticsService) Update(ctx context.Context, organizationID, id uuid.UUID, fixedCost decimal.Decimal) (*finance.LogisticsCostRule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule.OrganizationID != organizationID {
		return nil, finance.ErrLogisticsRuleNotFound
	}
	if err := rule.Update(fixedCost); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// List returns the organization's rules
func (s *LogisticsService) List(ctx context.Context, organizationID uuid.UUID) ([]*finance.LogisticsCostRule, error) {
	return s.ruleRepo.FindByOrganization(ctx, organizationID)
}

// Delete removes a rule scoped to the organization
func (s *LogisticsService) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rule.OrganizationID != organizationID {
		return finance.ErrLogisticsRuleNotFound
	}
	return s.ruleRepo.Delete(ctx, id)
}
