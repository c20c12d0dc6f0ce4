package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/integration"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func connectedCreds(t *testing.T, expiresAt time.Time) *integration.CredentialSet {
	t.Helper()
	creds, err := integration.NewCredentialSet(uuid.New())
	require.NoError(t, err)

	creds.MLClientID = "123456"
	creds.MLClientSecret = "ml-secret"
	creds.ML = integration.TokenPair{
		AccessToken:  "APP_USR-access",
		RefreshToken: "TG-refresh",
		ExpiresAt:    expiresAt,
	}
	return creds
}

func newTestManager(
	credRepo *MockCredentialRepository,
	registry integration.ClientRegistry,
	errorLog *MockErrorLogRepository,
	notifier integration.AlertNotifier,
) *CredentialManager {
	m := NewCredentialManager(credRepo, registry, errorLog, notifier, zap.NewNop())
	m.now = func() time.Time { return testNow }
	return m
}

func TestCredentialManager_EnsureFresh_SkipsUnconnectedPlatform(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	client := newMockClient(integration.PlatformCodeShopee)
	manager := newTestManager(credRepo, newStubRegistry(client), new(MockErrorLogRepository), nil)

	creds := connectedCreds(t, testNow.Add(time.Hour))

	err := manager.EnsureFresh(context.Background(), creds, integration.PlatformCodeShopee)

	assert.NoError(t, err)
	client.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything)
	credRepo.AssertNotCalled(t, "UpdateTokens", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCredentialManager_EnsureFresh_SkipsFreshToken(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	client := newMockClient(integration.PlatformCodeMercadoLivre)
	manager := newTestManager(credRepo, newStubRegistry(client), new(MockErrorLogRepository), nil)

	// expires well past the refresh margin
	creds := connectedCreds(t, testNow.Add(time.Hour))

	err := manager.EnsureFresh(context.Background(), creds, integration.PlatformCodeMercadoLivre)

	assert.NoError(t, err)
	client.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything)
}

func TestCredentialManager_EnsureFresh_RefreshesStaleToken(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	client := newMockClient(integration.PlatformCodeMercadoLivre)
	manager := newTestManager(credRepo, newStubRegistry(client), new(MockErrorLogRepository), nil)

	// inside the refresh margin
	creds := connectedCreds(t, testNow.Add(5*time.Minute))
	fresh := integration.TokenPair{
		AccessToken:  "APP_USR-new",
		RefreshToken: "TG-new",
		ExpiresAt:    testNow.Add(6 * time.Hour),
	}

	client.On("RefreshToken", mock.Anything, creds).Return(fresh, nil)
	credRepo.On("UpdateTokens", mock.Anything, creds.OrganizationID, integration.PlatformCodeMercadoLivre, fresh).Return(nil)

	err := manager.EnsureFresh(context.Background(), creds, integration.PlatformCodeMercadoLivre)

	require.NoError(t, err)
	assert.Equal(t, "APP_USR-new", creds.ML.AccessToken)
	assert.Equal(t, "TG-new", creds.ML.RefreshToken)
	client.AssertExpectations(t)
	credRepo.AssertExpectations(t)
}

func TestCredentialManager_EnsureFresh_RefreshesZeroExpiry(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	client := newMockClient(integration.PlatformCodeMercadoLivre)
	manager := newTestManager(credRepo, newStubRegistry(client), new(MockErrorLogRepository), nil)

	creds := connectedCreds(t, time.Time{})
	fresh := integration.TokenPair{
		AccessToken:  "APP_USR-new",
		RefreshToken: "TG-new",
		ExpiresAt:    testNow.Add(6 * time.Hour),
	}

	client.On("RefreshToken", mock.Anything, creds).Return(fresh, nil)
	credRepo.On("UpdateTokens", mock.Anything, creds.OrganizationID, integration.PlatformCodeMercadoLivre, fresh).Return(nil)

	err := manager.EnsureFresh(context.Background(), creds, integration.PlatformCodeMercadoLivre)

	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestCredentialManager_EnsureFresh_RecordsRefreshFailure(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	errorLog := new(MockErrorLogRepository)
	notifier := &recordingNotifier{}
	client := newMockClient(integration.PlatformCodeMercadoLivre)
	manager := newTestManager(credRepo, newStubRegistry(client), errorLog, notifier)

	creds := connectedCreds(t, testNow.Add(-time.Minute))
	cause := integration.NewRemoteError(integration.PlatformCodeMercadoLivre, "invalid_grant", nil)

	client.On("RefreshToken", mock.Anything, creds).Return(integration.TokenPair{}, cause)
	errorLog.On("Append", mock.Anything, mock.MatchedBy(func(entry *integration.ErrorLogEntry) bool {
		return entry.OrganizationID == creds.OrganizationID &&
			entry.Platform == integration.PlatformCodeMercadoLivre &&
			entry.Task == "token_refresh"
	})).Return(nil)

	err := manager.EnsureFresh(context.Background(), creds, integration.PlatformCodeMercadoLivre)

	assert.ErrorIs(t, err, cause)
	assert.Len(t, notifier.entries, 1)
	// failed refresh must not touch the stored tokens
	credRepo.AssertNotCalled(t, "UpdateTokens", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	errorLog.AssertExpectations(t)
}

func TestCredentialManager_EnsureFresh_RecordsPersistFailure(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	errorLog := new(MockErrorLogRepository)
	client := newMockClient(integration.PlatformCodeMercadoLivre)
	manager := newTestManager(credRepo, newStubRegistry(client), errorLog, nil)

	creds := connectedCreds(t, testNow.Add(-time.Minute))
	fresh := integration.TokenPair{AccessToken: "APP_USR-new", RefreshToken: "TG-new", ExpiresAt: testNow.Add(6 * time.Hour)}
	dbErr := errors.New("connection reset")

	client.On("RefreshToken", mock.Anything, creds).Return(fresh, nil)
	credRepo.On("UpdateTokens", mock.Anything, creds.OrganizationID, integration.PlatformCodeMercadoLivre, fresh).Return(dbErr)
	errorLog.On("Append", mock.Anything, mock.Anything).Return(nil)

	err := manager.EnsureFresh(context.Background(), creds, integration.PlatformCodeMercadoLivre)

	assert.ErrorIs(t, err, dbErr)
	// the in-memory copy stays on the old token when persistence failed
	assert.Equal(t, "APP_USR-access", creds.ML.AccessToken)
}

func TestCredentialManager_EnsureFresh_UnknownPlatform(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	manager := newTestManager(credRepo, newStubRegistry(), new(MockErrorLogRepository), nil)

	creds := connectedCreds(t, testNow.Add(-time.Minute))

	err := manager.EnsureFresh(context.Background(), creds, integration.PlatformCodeMercadoLivre)

	assert.ErrorIs(t, err, integration.ErrUnknownPlatform)
}

func TestCredentialManager_RenewAllPlatformTokens_PairsAreIndependent(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	errorLog := new(MockErrorLogRepository)
	mlClient := newMockClient(integration.PlatformCodeMercadoLivre)
	shopeeClient := newMockClient(integration.PlatformCodeShopee)
	manager := newTestManager(credRepo, newStubRegistry(mlClient, shopeeClient), errorLog, nil)

	creds := connectedCreds(t, testNow.Add(-time.Minute))
	creds.ShopeePartnerID = 2005001
	creds.ShopeePartnerKey = "shpk-secret"
	creds.ShopeeShopID = 225566
	creds.Shopee = integration.TokenPair{
		AccessToken:  "shopee-access",
		RefreshToken: "shopee-refresh",
		ExpiresAt:    testNow.Add(-time.Minute),
	}

	credRepo.On("FindAll", mock.Anything).Return([]*integration.CredentialSet{creds}, nil)

	// the ML refresh blows up; the Shopee pair must still be attempted
	mlClient.On("RefreshToken", mock.Anything, creds).Return(integration.TokenPair{}, errors.New("invalid_grant"))
	errorLog.On("Append", mock.Anything, mock.Anything).Return(nil)

	shopeeFresh := integration.TokenPair{AccessToken: "shopee-new", RefreshToken: "shopee-refresh-new", ExpiresAt: testNow.Add(4 * time.Hour)}
	shopeeClient.On("RefreshToken", mock.Anything, creds).Return(shopeeFresh, nil)
	credRepo.On("UpdateTokens", mock.Anything, creds.OrganizationID, integration.PlatformCodeShopee, shopeeFresh).Return(nil)

	err := manager.RenewAllPlatformTokens(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "shopee-new", creds.Shopee.AccessToken)
	mlClient.AssertExpectations(t)
	shopeeClient.AssertExpectations(t)
	credRepo.AssertExpectations(t)
}

func TestCredentialManager_RenewAllPlatformTokens_ListFailure(t *testing.T) {
	credRepo := new(MockCredentialRepository)
	manager := newTestManager(credRepo, newStubRegistry(), new(MockErrorLogRepository), nil)

	dbErr := errors.New("connection refused")
	credRepo.On("FindAll", mock.Anything).Return(nil, dbErr)

	err := manager.RenewAllPlatformTokens(context.Background())

	assert.ErrorIs(t, err, dbErr)
}
