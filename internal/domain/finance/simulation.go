package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// SimulationRegime
// ---------------------------------------------------------------------------

// SimulationRegime is a hypothetical tax scenario applied on top of stored
// margins, without touching the persisted records
type SimulationRegime string

const (
	// SimulationRegimeSimples models Simples Nacional at 6%
	SimulationRegimeSimples SimulationRegime = "SIMPLES"
	// SimulationRegimePadrao models the standard regime (18% ICMS + 9.25% federal)
	SimulationRegimePadrao SimulationRegime = "PADRAO"
	// SimulationRegimeEfetiva1 models a 1% ICMS incentive plus the federal load
	SimulationRegimeEfetiva1 SimulationRegime = "EFETIVA_1"
)

// IsValid returns true if the regime is a known scenario
func (r SimulationRegime) IsValid() bool {
	switch r {
	case SimulationRegimeSimples, SimulationRegimePadrao, SimulationRegimeEfetiva1:
		return true
	default:
		return false
	}
}

// String returns the string representation of SimulationRegime
func (r SimulationRegime) String() string {
	return string(r)
}

// Rate returns the scenario's total tax load as a fraction of gross.
// Unknown regimes simulate a zero-tax scenario.
func (r SimulationRegime) Rate() decimal.Decimal {
	switch r {
	case SimulationRegimeSimples:
		return decimal.NewFromFloat(0.06)
	case SimulationRegimePadrao:
		return decimal.NewFromFloat(0.2725)
	case SimulationRegimeEfetiva1:
		return decimal.NewFromFloat(0.1025)
	default:
		return decimal.Zero
	}
}

// ---------------------------------------------------------------------------
// Simulation
// ---------------------------------------------------------------------------

// SimulationResult compares one transaction's stored margin against a
// hypothetical regime
type SimulationResult struct {
	TransactionID   uuid.UUID       `json:"transaction_id"`
	ExternalID      string          `json:"external_id"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	CurrentMargin   decimal.Decimal `json:"current_margin"`
	OriginalTaxes   decimal.Decimal `json:"original_taxes"`
	ProfitBeforeTax decimal.Decimal `json:"profit_before_tax"`
	SimulatedTaxes  decimal.Decimal `json:"simulated_taxes"`
	SimulatedMargin decimal.Decimal `json:"simulated_margin"`
}

// SimulateTransaction reconstructs the tax-free profit of a transaction and
// re-applies the scenario's tax load. A transaction without a computed margin
// simulates from a current margin of zero; profile is the organization's
// current tax profile (may be nil) used to back out the originally charged
// taxes.
func SimulateTransaction(tx *SaleTransaction, profile *TaxProfile, regime SimulationRegime) SimulationResult {
	current := decimal.Zero
	if tx.NetMargin != nil {
		current = *tx.NetMargin
	}

	originalTaxes := ComputeTaxes(tx.GrossAmount, profile).Round(2)
	profitBeforeTax := current.Add(originalTaxes)
	simulatedTaxes := tx.GrossAmount.Mul(regime.Rate()).Round(2)

	return SimulationResult{
		TransactionID:   tx.ID,
		ExternalID:      tx.ExternalID,
		GrossAmount:     tx.GrossAmount,
		CurrentMargin:   current,
		OriginalTaxes:   originalTaxes,
		ProfitBeforeTax: profitBeforeTax,
		SimulatedTaxes:  simulatedTaxes,
		SimulatedMargin: profitBeforeTax.Sub(simulatedTaxes),
	}
}
