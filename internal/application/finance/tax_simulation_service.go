package finance

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lucreapp/backend/internal/domain/finance"
)

// TaxSimulationService answers "what would these sales have earned under a
// different tax regime". It is strictly read-only: simulations never touch
// the stored margins.
type TaxSimulationService struct {
	txRepo  finance.TransactionRepository
	taxRepo finance.TaxProfileRepository
}

// NewTaxSimulationService creates a new TaxSimulationService
func NewTaxSimulationService(txRepo finance.TransactionRepository, taxRepo finance.TaxProfileRepository) *TaxSimulationService {
	return &TaxSimulationService{
		txRepo:  txRepo,
		taxRepo: taxRepo,
	}
}

// Simulate applies the scenario regime to the given transactions. IDs not
// owned by the organization are silently dropped; the caller gets one result
// per found transaction, in repository order.
func (s *TaxSimulationService) Simulate(ctx context.Context, organizationID uuid.UUID, txIDs []uuid.UUID, regime finance.SimulationRegime) ([]finance.SimulationResult, error) {
	profile, err := s.taxRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, finance.ErrTaxProfileNotFound) {
			return nil, err
		}
		profile = nil
	}

	txs, err := s.txRepo.FindByIDs(ctx, organizationID, txIDs)
	if err != nil {
		return nil, err
	}

	results := make([]finance.SimulationResult, 0, len(txs))
	for _, tx := range txs {
		results = append(results, finance.SimulateTransaction(tx, profile, regime))
	}
	return results, nil
}
