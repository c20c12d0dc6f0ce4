package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
)

// MockTaxProfileRepository is a mock implementation of TaxProfileRepository
type MockTaxProfileRepository struct {
	mock.Mock
}

func (m *MockTaxProfileRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) (*finance.TaxProfile, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.TaxProfile), args.Error(1)
}

func (m *MockTaxProfileRepository) Save(ctx context.Context, profile *finance.TaxProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockTaxProfileRepository) Delete(ctx context.Context, organizationID uuid.UUID) error {
	args := m.Called(ctx, organizationID)
	return args.Error(0)
}

// MockProductCostRepository is a mock implementation of ProductCostRepository
type MockProductCostRepository struct {
	mock.Mock
}

func (m *MockProductCostRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.ProductCost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProductCost), args.Error(1)
}

func (m *MockProductCostRepository) FindBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (*finance.ProductCost, error) {
	args := m.Called(ctx, organizationID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProductCost), args.Error(1)
}

func (m *MockProductCostRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*finance.ProductCost, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.ProductCost), args.Error(1)
}

func (m *MockProductCostRepository) Save(ctx context.Context, cost *finance.ProductCost) error {
	args := m.Called(ctx, cost)
	return args.Error(0)
}

func (m *MockProductCostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLogisticsRuleRepository is a mock implementation of LogisticsRuleRepository
type MockLogisticsRuleRepository struct {
	mock.Mock
}

func (m *MockLogisticsRuleRepository) FindByMethod(ctx context.Context, organizationID uuid.UUID, platform integration.PlatformCode, shippingMethod string) (*finance.LogisticsCostRule, error) {
	args := m.Called(ctx, organizationID, platform, shippingMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LogisticsCostRule), args.Error(1)
}

func (m *MockLogisticsRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LogisticsCostRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LogisticsCostRule), args.Error(1)
}

func (m *MockLogisticsRuleRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*finance.LogisticsCostRule, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.LogisticsCostRule), args.Error(1)
}

func (m *MockLogisticsRuleRepository) Save(ctx context.Context, rule *finance.LogisticsCostRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockLogisticsRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Upsert(ctx context.Context, tx *finance.SaleTransaction) (finance.UpsertResult, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(finance.UpsertResult), args.Error(1)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.SaleTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.SaleTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByIDs(ctx context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]*finance.SaleTransaction, error) {
	args := m.Called(ctx, organizationID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.SaleTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) ([]*finance.SaleTransaction, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.SaleTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindWithoutMargin(ctx context.Context, organizationID uuid.UUID, limit int) ([]*finance.SaleTransaction, error) {
	args := m.Called(ctx, organizationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.SaleTransaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateNetMargin(ctx context.Context, id uuid.UUID, margin decimal.Decimal) error {
	args := m.Called(ctx, id, margin)
	return args.Error(0)
}

func (m *MockTransactionRepository) Summarize(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) (*finance.AnalyticsSummary, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AnalyticsSummary), args.Error(1)
}

func (m *MockTransactionRepository) DailySeries(ctx context.Context, organizationID uuid.UUID, filter finance.AnalyticsFilter) ([]finance.DailyPoint, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.DailyPoint), args.Error(1)
}
