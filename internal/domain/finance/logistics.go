package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucreapp/backend/internal/domain/integration"
)

// LogisticsCostRule prices one shipping method of one platform for a tenant.
// FixedCost is the seller's own handling cost per shipment (packaging, label,
// drop-off); freight charged by the marketplace comes in on the order itself.
type LogisticsCostRule struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Platform       integration.PlatformCode
	ShippingMethod string
	FixedCost      decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewLogisticsCostRule creates a validated rule
func NewLogisticsCostRule(organizationID uuid.UUID, platform integration.PlatformCode, shippingMethod string, fixedCost decimal.Decimal) (*LogisticsCostRule, error) {
	shippingMethod = strings.TrimSpace(shippingMethod)
	if shippingMethod == "" {
		return nil, ErrInvalidShipping
	}
	if !platform.IsValid() {
		return nil, integration.ErrUnknownPlatform
	}
	if fixedCost.IsNegative() {
		return nil, ErrNegativeCost
	}

	now := time.Now()
	return &LogisticsCostRule{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Platform:       platform,
		ShippingMethod: shippingMethod,
		FixedCost:      fixedCost,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Update replaces the rule's fixed cost
func (r *LogisticsCostRule) Update(fixedCost decimal.Decimal) error {
	if fixedCost.IsNegative() {
		return ErrNegativeCost
	}
	r.FixedCost = fixedCost
	r.UpdatedAt = time.Now()
	return nil
}

// LogisticsRuleRepository persists rules, unique per
// (organization, platform, shipping method)
type LogisticsRuleRepository interface {
	// FindByMethod resolves the rule for a shipment,
	// ErrLogisticsRuleNotFound if no rule matches
	FindByMethod(ctx context.Context, organizationID uuid.UUID, platform integration.PlatformCode, shippingMethod string) (*LogisticsCostRule, error)

	// FindByID returns the rule, ErrLogisticsRuleNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*LogisticsCostRule, error)

	// FindByOrganization lists an organization's rules
	FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*LogisticsCostRule, error)

	// Save inserts or updates; insert returns ErrDuplicateRule on key clash
	Save(ctx context.Context, rule *LogisticsCostRule) error

	// Delete removes the rule
	Delete(ctx context.Context, id uuid.UUID) error
}
