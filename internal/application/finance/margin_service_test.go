package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
)

func testTransaction(t *testing.T, orgID uuid.UUID, gross string) *finance.SaleTransaction {
	t.Helper()
	tx, err := finance.NewSaleTransaction(
		orgID,
		integration.PlatformCodeMercadoLivre,
		"2000001",
		decimal.RequireFromString(gross),
		time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	tx.ShippingMethod = "me2"
	return tx
}

func benefitProfile(t *testing.T, orgID uuid.UUID) *finance.TaxProfile {
	t.Helper()
	profile, err := finance.NewTaxProfile(orgID, finance.TaxRegimeLucroReal, true, decimal.RequireFromString("1.00"))
	require.NoError(t, err)
	return profile
}

func TestMarginService_ComputeAndStore_FullFormula(t *testing.T) {
	orgID := uuid.New()
	tx := testTransaction(t, orgID, "100.00")
	profile := benefitProfile(t, orgID)

	tx.PlatformShippingCost = decimal.RequireFromString("5.00")

	rule, err := finance.NewLogisticsCostRule(orgID, integration.PlatformCodeMercadoLivre, "me2",
		decimal.RequireFromString("2.00"))
	require.NoError(t, err)

	txRepo := new(MockTransactionRepository)
	taxRepo := new(MockTaxProfileRepository)
	ruleRepo := new(MockLogisticsRuleRepository)

	taxRepo.On("FindByOrganization", mock.Anything, orgID).Return(profile, nil)
	ruleRepo.On("FindByMethod", mock.Anything, orgID, integration.PlatformCodeMercadoLivre, "me2").Return(rule, nil)
	txRepo.On("UpdateNetMargin", mock.Anything, tx.ID, mock.Anything).Return(nil)

	service := NewMarginService(txRepo, taxRepo, ruleRepo, zap.NewNop())

	margin, err := service.ComputeAndStore(context.Background(), tx)

	require.NoError(t, err)
	// 100 - (1% ICMS + 9.25% federal) - 16% commission - (5.00 freight + 2.00 fixed)
	assert.True(t, margin.Equal(decimal.RequireFromString("66.75")), "got %s", margin)
	require.NotNil(t, tx.NetMargin)
	assert.True(t, tx.NetMargin.Equal(margin))
	txRepo.AssertExpectations(t)
}

func TestMarginService_ComputeAndStore_MissingProfileAndRule(t *testing.T) {
	orgID := uuid.New()
	tx := testTransaction(t, orgID, "100.00")

	txRepo := new(MockTransactionRepository)
	taxRepo := new(MockTaxProfileRepository)
	ruleRepo := new(MockLogisticsRuleRepository)

	taxRepo.On("FindByOrganization", mock.Anything, orgID).Return(nil, finance.ErrTaxProfileNotFound)
	ruleRepo.On("FindByMethod", mock.Anything, orgID, integration.PlatformCodeMercadoLivre, "me2").
		Return(nil, finance.ErrLogisticsRuleNotFound)
	txRepo.On("UpdateNetMargin", mock.Anything, tx.ID, mock.Anything).Return(nil)

	service := NewMarginService(txRepo, taxRepo, ruleRepo, zap.NewNop())

	margin, err := service.ComputeAndStore(context.Background(), tx)

	require.NoError(t, err)
	// only the 16% commission applies
	assert.True(t, margin.Equal(decimal.RequireFromString("84.00")), "got %s", margin)
}

// Matches the documented end-to-end scenario: benefit profile at 1%, no rule
// for the method, freight as reported by the platform.
func TestMarginService_ComputeAndStore_PlatformFreightWithoutRule(t *testing.T) {
	orgID := uuid.New()
	tx := testTransaction(t, orgID, "1000.00")
	tx.PlatformShippingCost = decimal.RequireFromString("20.00")
	profile := benefitProfile(t, orgID)

	txRepo := new(MockTransactionRepository)
	taxRepo := new(MockTaxProfileRepository)
	ruleRepo := new(MockLogisticsRuleRepository)

	taxRepo.On("FindByOrganization", mock.Anything, orgID).Return(profile, nil)
	ruleRepo.On("FindByMethod", mock.Anything, orgID, integration.PlatformCodeMercadoLivre, "me2").
		Return(nil, finance.ErrLogisticsRuleNotFound)
	txRepo.On("UpdateNetMargin", mock.Anything, tx.ID, mock.Anything).Return(nil)

	service := NewMarginService(txRepo, taxRepo, ruleRepo, zap.NewNop())

	margin, err := service.ComputeAndStore(context.Background(), tx)

	require.NoError(t, err)
	// 1000 - 102.50 taxes - 160 commission - 20.00 platform freight
	assert.True(t, margin.Equal(decimal.RequireFromString("717.50")), "got %s", margin)
}

func TestMarginService_ComputeAndStore_FixedCostOnly(t *testing.T) {
	orgID := uuid.New()
	tx := testTransaction(t, orgID, "100.00")
	tx.PlatformShippingCost = decimal.RequireFromString("5.00")
	tx.FixedCostOnly = true

	rule, err := finance.NewLogisticsCostRule(orgID, integration.PlatformCodeMercadoLivre, "me2",
		decimal.RequireFromString("2.00"))
	require.NoError(t, err)

	txRepo := new(MockTransactionRepository)
	taxRepo := new(MockTaxProfileRepository)
	ruleRepo := new(MockLogisticsRuleRepository)

	taxRepo.On("FindByOrganization", mock.Anything, orgID).Return(nil, finance.ErrTaxProfileNotFound)
	ruleRepo.On("FindByMethod", mock.Anything, orgID, integration.PlatformCodeMercadoLivre, "me2").Return(rule, nil)
	txRepo.On("UpdateNetMargin", mock.Anything, tx.ID, mock.Anything).Return(nil)

	service := NewMarginService(txRepo, taxRepo, ruleRepo, zap.NewNop())

	margin, err := service.ComputeAndStore(context.Background(), tx)

	require.NoError(t, err)
	// platform absorbed the freight, only the 2.00 fixed cost is charged
	assert.True(t, margin.Equal(decimal.RequireFromString("82.00")), "got %s", margin)
}

func TestMarginService_ComputeAndStore_RepositoryErrorPropagates(t *testing.T) {
	orgID := uuid.New()
	tx := testTransaction(t, orgID, "100.00")

	txRepo := new(MockTransactionRepository)
	taxRepo := new(MockTaxProfileRepository)
	ruleRepo := new(MockLogisticsRuleRepository)

	dbErr := errors.New("connection reset")
	taxRepo.On("FindByOrganization", mock.Anything, orgID).Return(nil, dbErr)

	service := NewMarginService(txRepo, taxRepo, ruleRepo, zap.NewNop())

	_, err := service.ComputeAndStore(context.Background(), tx)

	assert.ErrorIs(t, err, dbErr)
	txRepo.AssertNotCalled(t, "UpdateNetMargin", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarginService_BackfillMissing_SkipsFailedRecords(t *testing.T) {
	orgID := uuid.New()
	tx1 := testTransaction(t, orgID, "100.00")
	tx2 := testTransaction(t, orgID, "50.00")
	tx2.ExternalID = "2000002"

	txRepo := new(MockTransactionRepository)
	taxRepo := new(MockTaxProfileRepository)
	ruleRepo := new(MockLogisticsRuleRepository)

	txRepo.On("FindWithoutMargin", mock.Anything, orgID, 500).
		Return([]*finance.SaleTransaction{tx1, tx2}, nil)
	taxRepo.On("FindByOrganization", mock.Anything, orgID).Return(nil, finance.ErrTaxProfileNotFound)
	ruleRepo.On("FindByMethod", mock.Anything, orgID, integration.PlatformCodeMercadoLivre, "me2").
		Return(nil, finance.ErrLogisticsRuleNotFound)
	txRepo.On("UpdateNetMargin", mock.Anything, tx1.ID, mock.Anything).Return(errors.New("deadlock"))
	txRepo.On("UpdateNetMargin", mock.Anything, tx2.ID, mock.Anything).Return(nil)

	service := NewMarginService(txRepo, taxRepo, ruleRepo, zap.NewNop())

	processed, err := service.BackfillMissing(context.Background(), orgID, 500)

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}
