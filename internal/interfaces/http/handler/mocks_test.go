package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
	"github.com/lucreapp/backend/internal/domain/tenant"
	"github.com/lucreapp/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func setupTestRouter() *gin.Engine {
	return gin.New()
}

// MockOrganizationRepository implements tenant.Repository for testing
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindByCNPJ(ctx context.Context, cnpj string) (*tenant.Organization, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context) ([]*tenant.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tenant.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *tenant.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTaxProfileRepository implements finance.TaxProfileRepository for testing
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

// MockProductCostRepository implements finance.ProductCostRepository for testing
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

// MockLogisticsRuleRepository implements finance.LogisticsRuleRepository for testing
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

// MockTransactionRepository implements finance.TransactionRepository for testing
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

// MockCredentialRepository implements integration.CredentialRepository for testing
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) (*integration.CredentialSet, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.CredentialSet), args.Error(1)
}

func (m *MockCredentialRepository) FindAll(ctx context.Context) ([]*integration.CredentialSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*integration.CredentialSet), args.Error(1)
}

func (m *MockCredentialRepository) Save(ctx context.Context, creds *integration.CredentialSet) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

func (m *MockCredentialRepository) UpdateTokens(ctx context.Context, organizationID uuid.UUID, platform integration.PlatformCode, tokens integration.TokenPair) error {
	args := m.Called(ctx, organizationID, platform, tokens)
	return args.Error(0)
}

// MockErrorLogRepository implements integration.ErrorLogRepository for testing
type MockErrorLogRepository struct {
	mock.Mock
}

func (m *MockErrorLogRepository) Append(ctx context.Context, entry *integration.ErrorLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockErrorLogRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID, limit int) ([]*integration.ErrorLogEntry, error) {
	args := m.Called(ctx, organizationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*integration.ErrorLogEntry), args.Error(1)
}

// MockMarketplaceClient implements integration.MarketplaceClient for testing
type MockMarketplaceClient struct {
	mock.Mock
	platform integration.PlatformCode
}

func (m *MockMarketplaceClient) Platform() integration.PlatformCode {
	return m.platform
}

func (m *MockMarketplaceClient) AuthorizationURL(creds *integration.CredentialSet, state string) (string, error) {
	args := m.Called(creds, state)
	return args.String(0), args.Error(1)
}

func (m *MockMarketplaceClient) ListOrders(ctx context.Context, creds *integration.CredentialSet, from, to time.Time) ([]integration.OrderRef, error) {
	args := m.Called(ctx, creds, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.OrderRef), args.Error(1)
}

func (m *MockMarketplaceClient) GetOrderDetails(ctx context.Context, creds *integration.CredentialSet, refs []integration.OrderRef) ([]integration.MarketplaceOrder, error) {
	args := m.Called(ctx, creds, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.MarketplaceOrder), args.Error(1)
}

func (m *MockMarketplaceClient) ExchangeAuthorizationCode(ctx context.Context, creds *integration.CredentialSet, code string, shopID int64) (integration.TokenPair, error) {
	args := m.Called(ctx, creds, code, shopID)
	return args.Get(0).(integration.TokenPair), args.Error(1)
}

func (m *MockMarketplaceClient) RefreshToken(ctx context.Context, creds *integration.CredentialSet) (integration.TokenPair, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(integration.TokenPair), args.Error(1)
}

// MockClientRegistry implements integration.ClientRegistry for testing
type MockClientRegistry struct {
	mock.Mock
}

func (m *MockClientRegistry) Client(platform integration.PlatformCode) (integration.MarketplaceClient, error) {
	args := m.Called(platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(integration.MarketplaceClient), args.Error(1)
}

func (m *MockClientRegistry) Clients() []integration.MarketplaceClient {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]integration.MarketplaceClient)
}

// MockAlertNotifier implements integration.AlertNotifier for testing
type MockAlertNotifier struct {
	mock.Mock
}

func (m *MockAlertNotifier) Notify(ctx context.Context, entry *integration.ErrorLogEntry) {
	m.Called(ctx, entry)
}
