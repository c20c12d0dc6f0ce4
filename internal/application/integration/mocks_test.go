package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
)

// MockCredentialRepository is a mock implementation of CredentialRepository
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

// MockMarketplaceClient is a mock implementation of MarketplaceClient
type MockMarketplaceClient struct {
	mock.Mock
	platform integration.PlatformCode
}

func newMockClient(platform integration.PlatformCode) *MockMarketplaceClient {
	return &MockMarketplaceClient{platform: platform}
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

// stubRegistry resolves mock clients without going through infrastructure
type stubRegistry struct {
	clients map[integration.PlatformCode]integration.MarketplaceClient
}

func newStubRegistry(clients ...integration.MarketplaceClient) *stubRegistry {
	m := make(map[integration.PlatformCode]integration.MarketplaceClient)
	for _, c := range clients {
		m[c.Platform()] = c
	}
	return &stubRegistry{clients: m}
}

func (r *stubRegistry) Client(platform integration.PlatformCode) (integration.MarketplaceClient, error) {
	c, ok := r.clients[platform]
	if !ok {
		return nil, integration.ErrUnknownPlatform
	}
	return c, nil
}

func (r *stubRegistry) Clients() []integration.MarketplaceClient {
	out := make([]integration.MarketplaceClient, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

// MockErrorLogRepository is a mock implementation of ErrorLogRepository
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

// recordingNotifier captures alert notifications
type recordingNotifier struct {
	entries []*integration.ErrorLogEntry
}

func (n *recordingNotifier) Notify(ctx context.Context, entry *integration.ErrorLogEntry) {
	n.entries = append(n.entries, entry)
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

// MockMarginCalculator is a mock implementation of appfinance.MarginCalculator
type MockMarginCalculator struct {
	mock.Mock
}

func (m *MockMarginCalculator) ComputeAndStore(ctx context.Context, tx *finance.SaleTransaction) (decimal.Decimal, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
