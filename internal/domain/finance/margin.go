package finance

import (
	"github.com/shopspring/decimal"

	"github.com/lucreapp/backend/internal/domain/integration"
)

// Tax and commission rates used by the margin calculator. Rates are
// fractions of the gross amount unless noted otherwise.
var (
	// standardICMSRate is the regular state ICMS rate applied when the
	// organization holds no incentive
	standardICMSRate = decimal.NewFromFloat(0.18)
	// federalRate is the combined PIS/COFINS load (9.25%)
	federalRate = decimal.NewFromFloat(0.0925)

	mercadoLivreCommissionRate = decimal.NewFromFloat(0.16)
	shopeeCommissionRate       = decimal.NewFromFloat(0.14)

	oneHundred = decimal.NewFromInt(100)
)

// MarginInput carries everything the pure margin calculation needs. Profile
// and LogisticsRule may be nil when the tenant has not configured them.
type MarginInput struct {
	GrossAmount decimal.Decimal
	Platform    integration.PlatformCode
	Profile     *TaxProfile
	// PlatformShippingCost is the freight the marketplace reported on the
	// order itself
	PlatformShippingCost decimal.Decimal
	LogisticsRule        *LogisticsCostRule
	// FixedCostOnly marks the rule's fixed cost as the authoritative
	// logistics figure, displacing the platform-reported freight
	FixedCostOnly bool
}

// ComputeTaxes returns the tax load on a gross amount under a profile.
// With the ICMS benefit the state tax is charged at the profile's effective
// rate; without it the standard ICMS plus the federal load applies, net of
// input credits (currently zero since sales are not linked to SKUs), clamped
// at zero. No profile means taxes are left out of the margin entirely.
func ComputeTaxes(gross decimal.Decimal, profile *TaxProfile) decimal.Decimal {
	if profile == nil {
		return decimal.Zero
	}
	if profile.ICMSBenefitFlag {
		stateTax := gross.Mul(profile.EffectiveTaxRate).Div(oneHundred)
		return stateTax.Add(gross.Mul(federalRate))
	}
	credits := decimal.Zero
	taxes := gross.Mul(standardICMSRate.Add(federalRate)).Sub(credits)
	if taxes.IsNegative() {
		return decimal.Zero
	}
	return taxes
}

// CommissionFor returns the marketplace commission charged on a sale
func CommissionFor(platform integration.PlatformCode, gross decimal.Decimal) decimal.Decimal {
	switch platform {
	case integration.PlatformCodeMercadoLivre:
		return gross.Mul(mercadoLivreCommissionRate)
	case integration.PlatformCodeShopee:
		return gross.Mul(shopeeCommissionRate)
	default:
		return decimal.Zero
	}
}

// ComputeNetMargin runs the full profitability formula for one sale:
//
//	net = gross - taxes - commission - logistics
//
// Logistics is the rule's fixed cost alone when FixedCostOnly is set,
// otherwise the platform-reported freight plus the fixed cost.
// Cost of goods is not yet subtracted because sales carry no SKU link.
// The result is rounded to cents.
func ComputeNetMargin(in MarginInput) decimal.Decimal {
	taxes := ComputeTaxes(in.GrossAmount, in.Profile)
	commission := CommissionFor(in.Platform, in.GrossAmount)

	fixed := decimal.Zero
	if in.LogisticsRule != nil {
		fixed = in.LogisticsRule.FixedCost
	}
	logistics := fixed
	if !in.FixedCostOnly {
		logistics = in.PlatformShippingCost.Add(fixed)
	}

	return in.GrossAmount.
		Sub(taxes).
		Sub(commission).
		Sub(logistics).
		Round(2)
}
