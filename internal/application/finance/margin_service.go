package finance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/infrastructure/telemetry"
)

// MarginCalculator is the slice of MarginService the order reconciler needs
type MarginCalculator interface {
	ComputeAndStore(ctx context.Context, tx *finance.SaleTransaction) (decimal.Decimal, error)
}

// MarginService resolves a transaction's tax profile and logistics rule and
// persists the computed net margin
type MarginService struct {
	txRepo        finance.TransactionRepository
	taxRepo       finance.TaxProfileRepository
	logisticsRepo finance.LogisticsRuleRepository
	logger        *zap.Logger
}

// NewMarginService creates a new MarginService
func NewMarginService(
	txRepo finance.TransactionRepository,
	taxRepo finance.TaxProfileRepository,
	logisticsRepo finance.LogisticsRuleRepository,
	logger *zap.Logger,
) *MarginService {
	return &MarginService{
		txRepo:        txRepo,
		taxRepo:       taxRepo,
		logisticsRepo: logisticsRepo,
		logger:        logger,
	}
}

// ComputeAndStore computes the net margin for a transaction and stamps it
// onto the stored record. Running it again overwrites with the same result,
// so callers don't need to guard against double invocation. A missing tax
// profile or logistics rule is not an error; those components simply drop
// out of the formula.
func (s *MarginService) ComputeAndStore(ctx context.Context, tx *finance.SaleTransaction) (decimal.Decimal, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "margin", "compute_and_store",
		telemetry.WithAttribute("transaction_id", tx.ID.String()),
		telemetry.WithAttribute("platform", tx.Platform.String()))
	defer span.End()

	profile, err := s.taxRepo.FindByOrganization(ctx, tx.OrganizationID)
	if err != nil {
		if !errors.Is(err, finance.ErrTaxProfileNotFound) {
			telemetry.RecordError(span, err)
			return decimal.Zero, err
		}
		profile = nil
	}

	rule, err := s.logisticsRepo.FindByMethod(ctx, tx.OrganizationID, tx.Platform, tx.ShippingMethod)
	if err != nil {
		if !errors.Is(err, finance.ErrLogisticsRuleNotFound) {
			telemetry.RecordError(span, err)
			return decimal.Zero, err
		}
		rule = nil
	}

	margin := finance.ComputeNetMargin(finance.MarginInput{
		GrossAmount:          tx.GrossAmount,
		Platform:             tx.Platform,
		Profile:              profile,
		PlatformShippingCost: tx.PlatformShippingCost,
		LogisticsRule:        rule,
		FixedCostOnly:        tx.FixedCostOnly,
	})

	if err := s.txRepo.UpdateNetMargin(ctx, tx.ID, margin); err != nil {
		telemetry.RecordError(span, err)
		return decimal.Zero, err
	}
	tx.SetNetMargin(margin)
	telemetry.SetAttribute(span, "net_margin", margin.String())

	s.logger.Debug("Net margin computed",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("external_id", tx.ExternalID),
		zap.String("platform", tx.Platform.String()),
		zap.String("net_margin", margin.String()),
	)
	return margin, nil
}

// BackfillMissing computes margins for transactions ingested before the
// organization configured its tax profile or logistics rules. Processes at
// most limit records per call.
func (s *MarginService) BackfillMissing(ctx context.Context, organizationID uuid.UUID, limit int) (int, error) {
	txs, err := s.txRepo.FindWithoutMargin(ctx, organizationID, limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, tx := range txs {
		if _, err := s.ComputeAndStore(ctx, tx); err != nil {
			s.logger.Warn("Failed to backfill margin",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err),
			)
			continue
		}
		processed++
	}
	return processed, nil
}
