package integration

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/integration"
	"github.com/lucreapp/backend/internal/domain/tenant"
)

// OAuthService drives the authorization flow that connects a tenant to a
// marketplace: building the consent URL and landing the callback tokens.
type OAuthService struct {
	credRepo integration.CredentialRepository
	orgRepo  tenant.Repository
	registry integration.ClientRegistry
	errorLog integration.ErrorLogRepository
	logger   *zap.Logger
}

// NewOAuthService creates a new OAuthService
func NewOAuthService(
	credRepo integration.CredentialRepository,
	orgRepo tenant.Repository,
	registry integration.ClientRegistry,
	errorLog integration.ErrorLogRepository,
	logger *zap.Logger,
) *OAuthService {
	return &OAuthService{
		credRepo: credRepo,
		orgRepo:  orgRepo,
		registry: registry,
		errorLog: errorLog,
		logger:   logger,
	}
}

// AuthorizationURL returns the consent URL for a tenant and platform. The
// organization ID travels in the state parameter and comes back on the
// callback.
func (s *OAuthService) AuthorizationURL(ctx context.Context, organizationID uuid.UUID, platform integration.PlatformCode) (string, error) {
	if _, err := s.orgRepo.FindByID(ctx, organizationID); err != nil {
		return "", err
	}
	creds, err := s.credRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		return "", err
	}
	client, err := s.registry.Client(platform)
	if err != nil {
		return "", err
	}
	return client.AuthorizationURL(creds, organizationID.String())
}

// HandleCallback exchanges the authorization code and persists the first
// token pair. For Shopee the callback also carries the shop ID the seller
// authorized, which becomes part of the stored credentials.
func (s *OAuthService) HandleCallback(ctx context.Context, organizationID uuid.UUID, platform integration.PlatformCode, code string, shopID int64) error {
	creds, err := s.credRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		return err
	}
	client, err := s.registry.Client(platform)
	if err != nil {
		return err
	}

	tokens, err := client.ExchangeAuthorizationCode(ctx, creds, code, shopID)
	if err != nil {
		return err
	}

	creds.SetTokens(platform, tokens)
	if platform == integration.PlatformCodeShopee && shopID != 0 {
		creds.ShopeeShopID = shopID
	}
	if err := s.credRepo.Save(ctx, creds); err != nil {
		return err
	}

	s.logger.Info("Platform connected",
		zap.String("organization_id", organizationID.String()),
		zap.String("platform", platform.String()),
	)
	return nil
}

// AppCredentialsInput carries the application-level credentials a tenant
// registers for its platforms
type AppCredentialsInput struct {
	MLClientID       string
	MLClientSecret   string
	ShopeePartnerID  int64
	ShopeePartnerKey string
	ShopeeShopID     int64
}

// ConfigureApp upserts the app credentials for a tenant
func (s *OAuthService) ConfigureApp(ctx context.Context, organizationID uuid.UUID, input AppCredentialsInput) (*integration.CredentialSet, error) {
	if _, err := s.orgRepo.FindByID(ctx, organizationID); err != nil {
		return nil, err
	}

	creds, err := s.credRepo.FindByOrganization(ctx, organizationID)
	if errors.Is(err, integration.ErrCredentialNotFound) {
		creds, err = integration.NewCredentialSet(organizationID)
	}
	if err != nil {
		return nil, err
	}

	if input.MLClientID != "" {
		creds.MLClientID = input.MLClientID
		creds.MLClientSecret = input.MLClientSecret
	}
	if input.ShopeePartnerID != 0 {
		creds.ShopeePartnerID = input.ShopeePartnerID
		creds.ShopeePartnerKey = input.ShopeePartnerKey
	}
	if input.ShopeeShopID != 0 {
		creds.ShopeeShopID = input.ShopeeShopID
	}

	if err := s.credRepo.Save(ctx, creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// Credentials returns the stored credential set for a tenant
func (s *OAuthService) Credentials(ctx context.Context, organizationID uuid.UUID) (*integration.CredentialSet, error) {
	return s.credRepo.FindByOrganization(ctx, organizationID)
}

// RecentErrors returns the most recent integration failures for a tenant
func (s *OAuthService) RecentErrors(ctx context.Context, organizationID uuid.UUID, limit int) ([]*integration.ErrorLogEntry, error) {
	return s.errorLog.ListByOrganization(ctx, organizationID, limit)
}
