package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// TaxRegime
// ---------------------------------------------------------------------------

// TaxRegime is the federal tax regime the organization is registered under
type TaxRegime string

const (
	TaxRegimeLucroReal      TaxRegime = "LUCRO_REAL"
	TaxRegimeLucroPresumido TaxRegime = "LUCRO_PRESUMIDO"
	TaxRegimeSimples        TaxRegime = "SIMPLES"
)

// IsValid returns true if the regime is one of the supported values
func (r TaxRegime) IsValid() bool {
	switch r {
	case TaxRegimeLucroReal, TaxRegimeLucroPresumido, TaxRegimeSimples:
		return true
	default:
		return false
	}
}

// String returns the string representation of TaxRegime
func (r TaxRegime) String() string {
	return string(r)
}

// ---------------------------------------------------------------------------
// TaxProfile
// ---------------------------------------------------------------------------

// TaxProfile holds an organization's tax situation. One profile per
// organization; the margin calculator branches on the ICMS benefit flag.
type TaxProfile struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Regime         TaxRegime
	// ICMSBenefitFlag is true when the organization holds a state ICMS
	// incentive. With the benefit, state tax is charged at EffectiveTaxRate
	// instead of the standard rate.
	ICMSBenefitFlag bool
	// EffectiveTaxRate is the incentive rate as a percentage (e.g. 1.00 = 1%)
	EffectiveTaxRate decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewTaxProfile creates a validated tax profile for an organization
func NewTaxProfile(organizationID uuid.UUID, regime TaxRegime, benefit bool, effectiveRate decimal.Decimal) (*TaxProfile, error) {
	if !regime.IsValid() {
		return nil, ErrInvalidRegime
	}
	if effectiveRate.IsNegative() || effectiveRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidTaxRate
	}
	if !benefit {
		// the rate only has meaning under the benefit; keep it zero so a
		// later flag flip cannot resurrect a stale figure
		effectiveRate = decimal.Zero
	}

	now := time.Now()
	return &TaxProfile{
		ID:               uuid.New(),
		OrganizationID:   organizationID,
		Regime:           regime,
		ICMSBenefitFlag:  benefit,
		EffectiveTaxRate: effectiveRate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Update replaces the profile's tax settings
func (p *TaxProfile) Update(regime TaxRegime, benefit bool, effectiveRate decimal.Decimal) error {
	if !regime.IsValid() {
		return ErrInvalidRegime
	}
	if effectiveRate.IsNegative() || effectiveRate.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidTaxRate
	}
	if !benefit {
		effectiveRate = decimal.Zero
	}
	p.Regime = regime
	p.ICMSBenefitFlag = benefit
	p.EffectiveTaxRate = effectiveRate
	p.UpdatedAt = time.Now()
	return nil
}

// TaxProfileRepository persists tax profiles
type TaxProfileRepository interface {
	// FindByOrganization returns the profile, ErrTaxProfileNotFound if absent
	FindByOrganization(ctx context.Context, organizationID uuid.UUID) (*TaxProfile, error)

	// Save inserts or updates the profile (one per organization)
	Save(ctx context.Context, profile *TaxProfile) error

	// Delete removes the organization's profile
	Delete(ctx context.Context, organizationID uuid.UUID) error
}
