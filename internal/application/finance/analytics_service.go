package finance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lucreapp/backend/internal/domain/finance"
)

// defaultAnalyticsWindow is applied when the caller gives no period
const defaultAnalyticsWindow = 30 * 24 * time.Hour

// ProfitabilityAnalyticsService serves the dashboard KPIs and time series
type ProfitabilityAnalyticsService struct {
	txRepo finance.TransactionRepository
}

// NewProfitabilityAnalyticsService creates a new analytics service
func NewProfitabilityAnalyticsService(txRepo finance.TransactionRepository) *ProfitabilityAnalyticsService {
	return &ProfitabilityAnalyticsService{txRepo: txRepo}
}

// Summary aggregates revenue, net margin, total costs and margin percentage
// over the filter window
func (s *ProfitabilityAnalyticsService) Summary(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) (*finance.AnalyticsSummary, error) {
	return s.txRepo.Summarize(ctx, organizationID, normalizeFilter(filter))
}

// DailySeries returns the per-day revenue/margin series over the filter window
func (s *ProfitabilityAnalyticsService) DailySeries(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) ([]finance.DailyPoint, error) {
	return s.txRepo.DailySeries(ctx, organizationID, normalizeFilter(filter))
}

// ListTransactions returns the transactions behind the dashboard, newest first
func (s *ProfitabilityAnalyticsService) ListTransactions(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) ([]*finance.SaleTransaction, error) {
	return s.txRepo.FindByOrganization(ctx, organizationID, normalizeFilter(filter))
}

func normalizeFilter(filter finance.AnalyticsFilter) finance.AnalyticsFilter {
	if filter.To.IsZero() {
		filter.To = time.Now()
	}
	if filter.From.IsZero() {
		filter.From = filter.To.Add(-defaultAnalyticsWindow)
	}
	return filter
}
