package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshMargin is how long before expiry a token is considered stale.
// Refreshing ahead of the deadline keeps in-flight order pulls from racing
// an expiring token.
const RefreshMargin = 10 * time.Minute

// Default token lifetimes applied when the provider omits expires_in
const (
	DefaultMercadoLivreTokenTTL = 6 * time.Hour
	DefaultShopeeTokenTTL       = 4 * time.Hour
)

// ---------------------------------------------------------------------------
// TokenPair
// ---------------------------------------------------------------------------

// TokenPair holds one platform's OAuth token state
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Configured returns true if a refresh token is present, meaning the tenant
// completed the authorization flow for this platform at least once
func (t TokenPair) Configured() bool {
	return t.RefreshToken != ""
}

// NeedsRefresh returns true if the access token is expired or will expire
// within RefreshMargin of now. A zero expiry is treated as already stale.
func (t TokenPair) NeedsRefresh(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return true
	}
	return !t.ExpiresAt.After(now.Add(RefreshMargin))
}

// ---------------------------------------------------------------------------
// CredentialSet
// ---------------------------------------------------------------------------

// CredentialSet is the per-tenant bundle of marketplace credentials. One row
// per organization; each platform's app identity and token state live side
// by side so a tenant can connect either or both platforms.
type CredentialSet struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID

	// Mercado Livre OAuth application credentials
	MLClientID     string
	MLClientSecret string
	ML             TokenPair

	// Shopee Open Platform credentials
	ShopeePartnerID  int64
	ShopeePartnerKey string
	ShopeeShopID     int64
	Shopee           TokenPair

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCredentialSet creates an empty credential bundle for an organization
func NewCredentialSet(organizationID uuid.UUID) (*CredentialSet, error) {
	if organizationID == uuid.Nil {
		return nil, ErrInvalidTenantID
	}
	now := time.Now()
	return &CredentialSet{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Tokens returns the token state for the given platform
func (c *CredentialSet) Tokens(platform PlatformCode) TokenPair {
	switch platform {
	case PlatformCodeMercadoLivre:
		return c.ML
	case PlatformCodeShopee:
		return c.Shopee
	default:
		return TokenPair{}
	}
}

// SetTokens replaces the token state for the given platform
func (c *CredentialSet) SetTokens(platform PlatformCode, tokens TokenPair) {
	switch platform {
	case PlatformCodeMercadoLivre:
		c.ML = tokens
	case PlatformCodeShopee:
		c.Shopee = tokens
	}
	c.UpdatedAt = time.Now()
}

// Configured returns true if the tenant finished the auth flow for the platform
func (c *CredentialSet) Configured(platform PlatformCode) bool {
	return c.Tokens(platform).Configured()
}

// HasAppCredentials returns true if the application-level credentials needed
// to talk to the platform API are present, regardless of token state
func (c *CredentialSet) HasAppCredentials(platform PlatformCode) bool {
	switch platform {
	case PlatformCodeMercadoLivre:
		return c.MLClientID != "" && c.MLClientSecret != ""
	case PlatformCodeShopee:
		return c.ShopeePartnerID != 0 && c.ShopeePartnerKey != ""
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Repository
// ---------------------------------------------------------------------------

// CredentialRepository persists credential sets
type CredentialRepository interface {
	// FindByOrganization returns the credential set for a tenant,
	// ErrCredentialNotFound if none exists
	FindByOrganization(ctx context.Context, organizationID uuid.UUID) (*CredentialSet, error)

	// FindAll returns every stored credential set, for batch sweeps
	FindAll(ctx context.Context) ([]*CredentialSet, error)

	// Save inserts or updates the full credential set
	Save(ctx context.Context, creds *CredentialSet) error

	// UpdateTokens persists one platform's token state atomically, leaving the
	// rest of the row untouched
	UpdateTokens(ctx context.Context, organizationID uuid.UUID, platform PlatformCode, tokens TokenPair) error
}
