package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucreapp/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// SaleTransaction
// ---------------------------------------------------------------------------

// SaleTransaction is one marketplace order landed in the ledger. The record
// is identified by (organization, platform, external ID); re-ingesting the
// same order is a no-op.
type SaleTransaction struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Platform       integration.PlatformCode
	// ExternalID is the order ID assigned by the platform
	ExternalID  string
	GrossAmount decimal.Decimal
	SaleDate    time.Time
	// ShippingMethod is the platform's carrier label, used to resolve the
	// logistics cost rule
	ShippingMethod string
	// PlatformShippingCost is the freight the platform reported for the order
	PlatformShippingCost decimal.Decimal
	// FixedCostOnly is set when the matched logistics rule carries a positive
	// fixed cost; the margin calculator then charges only the fixed component
	FixedCostOnly bool
	// NetMargin is nil until the margin calculator has run for this record
	NetMargin *decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSaleTransaction creates a validated transaction from a normalized order
func NewSaleTransaction(organizationID uuid.UUID, platform integration.PlatformCode, externalID string, grossAmount decimal.Decimal, saleDate time.Time) (*SaleTransaction, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, ErrInvalidExternalID
	}
	if !platform.IsValid() {
		return nil, integration.ErrUnknownPlatform
	}
	if grossAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	return &SaleTransaction{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Platform:       platform,
		ExternalID:     externalID,
		GrossAmount:    grossAmount,
		SaleDate:       saleDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// SetNetMargin stamps the computed margin onto the record
func (t *SaleTransaction) SetNetMargin(margin decimal.Decimal) {
	t.NetMargin = &margin
	t.UpdatedAt = time.Now()
}

// HasNetMargin reports whether the margin calculator already ran
func (t *SaleTransaction) HasNetMargin() bool {
	return t.NetMargin != nil
}

// ---------------------------------------------------------------------------
// UpsertResult
// ---------------------------------------------------------------------------

// UpsertResult tells the caller whether an ingested order was new.
// Duplicate orders are an expected outcome of overlapping sync windows,
// not an error.
type UpsertResult int

const (
	// UpsertCreated means the transaction was inserted
	UpsertCreated UpsertResult = iota
	// UpsertAlreadyExists means a record with the same
	// (organization, platform, external ID) was already present
	UpsertAlreadyExists
)

// String returns the string representation of UpsertResult
func (r UpsertResult) String() string {
	switch r {
	case UpsertCreated:
		return "created"
	case UpsertAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// ---------------------------------------------------------------------------
// Analytics value objects
// ---------------------------------------------------------------------------

// AnalyticsFilter scopes profitability queries
type AnalyticsFilter struct {
	From     time.Time
	To       time.Time
	Platform *integration.PlatformCode
}

// AnalyticsSummary aggregates the profitability KPIs over a filter window
type AnalyticsSummary struct {
	OrderCount    int64
	Revenue       decimal.Decimal
	NetMargin     decimal.Decimal
	TotalCosts    decimal.Decimal
	MarginPercent decimal.Decimal
}

// DailyPoint is one day of the revenue/margin time series
type DailyPoint struct {
	Day       time.Time
	Revenue   decimal.Decimal
	NetMargin decimal.Decimal
}

// ---------------------------------------------------------------------------
// Repository
// ---------------------------------------------------------------------------

// TransactionRepository persists sale transactions
type TransactionRepository interface {
	// Upsert inserts the transaction, reporting UpsertAlreadyExists instead
	// of failing when the identity key is already taken
	Upsert(ctx context.Context, tx *SaleTransaction) (UpsertResult, error)

	// FindByID returns the transaction, ErrTransactionNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*SaleTransaction, error)

	// FindByIDs returns the subset of the given IDs owned by the organization
	FindByIDs(ctx context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]*SaleTransaction, error)

	// FindByOrganization lists transactions matching the filter, newest first
	FindByOrganization(ctx context.Context, organizationID uuid.UUID, filter AnalyticsFilter) ([]*SaleTransaction, error)

	// FindWithoutMargin returns transactions whose margin has not been
	// computed yet, oldest first, capped at limit
	FindWithoutMargin(ctx context.Context, organizationID uuid.UUID, limit int) ([]*SaleTransaction, error)

	// UpdateNetMargin persists a computed margin onto an existing record
	UpdateNetMargin(ctx context.Context, id uuid.UUID, margin decimal.Decimal) error

	// Summarize aggregates profitability KPIs over the filter window
	Summarize(ctx context.Context, organizationID uuid.UUID, filter AnalyticsFilter) (*AnalyticsSummary, error)

	// DailySeries returns the day-by-day revenue and margin series
	DailySeries(ctx context.Context, organizationID uuid.UUID, filter AnalyticsFilter) ([]DailyPoint, error)
}
