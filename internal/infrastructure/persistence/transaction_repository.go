package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)

// Upsert inserts the transaction. The insert races against the unique
// (organization, platform, external_id) index; losing the race is the normal
// re-ingestion path, not an error.
func (r *GormTransactionRepository) Upsert(ctx context.Context, tx *finance.SaleTransaction) (finance.UpsertResult, error) {
	model := models.SaleTransactionModelFromDomain(tx)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "organization_id"},
				{Name: "platform"},
				{Name: "external_id"},
			},
			DoNothing: true,
		}).
		Create(model)

	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return finance.UpsertAlreadyExists, nil
	}
	return finance.UpsertCreated, nil
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.SaleTransaction, error) {
	var model models.SaleTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.ErrTransactionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the subset of the given IDs owned by the organization
func (r *GormTransactionRepository) FindByIDs(ctx context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]*finance.SaleTransaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var txModels []models.SaleTransactionModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", organizationID, ids).
		Order("sale_date DESC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// FindByOrganization lists transactions matching the filter, newest first
func (r *GormTransactionRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) ([]*finance.SaleTransaction, error) {
	var txModels []models.SaleTransactionModel
	if err := r.filtered(ctx, organizationID, filter).
		Order("sale_date DESC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// FindWithoutMargin returns transactions still waiting for a margin, oldest first
func (r *GormTransactionRepository) FindWithoutMargin(ctx context.Context, organizationID uuid.UUID, limit int) ([]*finance.SaleTransaction, error) {
	var txModels []models.SaleTransactionModel
	query := r.db.WithContext(ctx).
		Where("organization_id = ? AND net_margin IS NULL", organizationID).
		Order("sale_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// UpdateNetMargin persists a computed margin onto an existing record
func (r *GormTransactionRepository) UpdateNetMargin(ctx context.Context, id uuid.UUID, margin decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.SaleTransactionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"net_margin": margin,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return finance.ErrTransactionNotFound
	}
	return nil
}

// summaryRow receives the aggregate scan
type summaryRow struct {
	OrderCount int64
	Revenue    decimal.Decimal
	NetMargin  decimal.Decimal
}

// Summarize aggregates profitability KPIs over the filter window. Rows whose
// margin is still pending contribute revenue but zero margin.
func (r *GormTransactionRepository) Summarize(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) (*finance.AnalyticsSummary, error) {
	var row summaryRow
	if err := r.filtered(ctx, organizationID, filter).
		Select("COUNT(*) AS order_count, COALESCE(SUM(gross_amount), 0) AS revenue, COALESCE(SUM(net_margin), 0) AS net_margin").
		Scan(&row).Error; err != nil {
		return nil, err
	}

	summary := &finance.AnalyticsSummary{
		OrderCount: row.OrderCount,
		Revenue:    row.Revenue,
		NetMargin:  row.NetMargin,
		TotalCosts: row.Revenue.Sub(row.NetMargin),
	}
	if row.Revenue.IsPositive() {
		summary.MarginPercent = row.NetMargin.
			Div(row.Revenue).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return summary, nil
}

// dailyRow receives one day of the series scan
type dailyRow struct {
	Day       time.Time
	Revenue   decimal.Decimal
	NetMargin decimal.Decimal
}

// DailySeries returns the day-by-day revenue and margin series, oldest first
func (r *GormTransactionRepository) DailySeries(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) ([]finance.DailyPoint, error) {
	var rows []dailyRow
	if err := r.filtered(ctx, organizationID, filter).
		Select("DATE(sale_date) AS day, COALESCE(SUM(gross_amount), 0) AS revenue, COALESCE(SUM(net_margin), 0) AS net_margin").
		Group("DATE(sale_date)").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]finance.DailyPoint, len(rows))
	for i, row := range rows {
		points[i] = finance.DailyPoint{
			Day:       row.Day,
			Revenue:   row.Revenue,
			NetMargin: row.NetMargin,
		}
	}
	return points, nil
}

// filtered applies the analytics filter to a transaction query
func (r *GormTransactionRepository) filtered(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.SaleTransactionModel{}).
		Where("organization_id = ?", organizationID)
	if !filter.From.IsZero() {
		query = query.Where("sale_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("sale_date <= ?", filter.To)
	}
	if filter.Platform != nil {
		query = query.Where("platform = ?", *filter.Platform)
	}
	return query
}

// toDomainTransactions converts a model slice
func toDomainTransactions(txModels []models.SaleTransactionModel) []*finance.SaleTransaction {
	txs := make([]*finance.SaleTransaction, len(txModels))
	for i := range txModels {
		txs[i] = txModels[i].ToDomain()
	}
	return txs
}
