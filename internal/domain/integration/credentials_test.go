package integration

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// PlatformCode Tests
// ---------------------------------------------------------------------------

func TestPlatformCode_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		code     PlatformCode
		expected bool
	}{
		{"Mercado Livre valid", PlatformCodeMercadoLivre, true},
		{"Shopee valid", PlatformCodeShopee, true},
		{"Invalid code", PlatformCode("AMAZON"), false},
		{"Empty code", PlatformCode(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.code.IsValid())
		})
	}
}

func TestPlatformCode_DisplayName(t *testing.T) {
	assert.Equal(t, "Mercado Livre", PlatformCodeMercadoLivre.DisplayName())
	assert.Equal(t, "Shopee", PlatformCodeShopee.DisplayName())
	assert.Equal(t, "UNKNOWN", PlatformCode("UNKNOWN").DisplayName())
}

// ---------------------------------------------------------------------------
// TokenPair Tests
// ---------------------------------------------------------------------------

func TestTokenPair_NeedsRefresh(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		pair     TokenPair
		expected bool
	}{
		{
			name:     "expires well in the future",
			pair:     TokenPair{AccessToken: "a", ExpiresAt: now.Add(6 * time.Hour)},
			expected: false,
		},
		{
			name:     "expires just outside the refresh margin",
			pair:     TokenPair{AccessToken: "a", ExpiresAt: now.Add(RefreshMargin + time.Second)},
			expected: false,
		},
		{
			name:     "expires exactly at the refresh margin",
			pair:     TokenPair{AccessToken: "a", ExpiresAt: now.Add(RefreshMargin)},
			expected: true,
		},
		{
			name:     "expires inside the refresh margin",
			pair:     TokenPair{AccessToken: "a", ExpiresAt: now.Add(5 * time.Minute)},
			expected: true,
		},
		{
			name:     "already expired",
			pair:     TokenPair{AccessToken: "a", ExpiresAt: now.Add(-time.Hour)},
			expected: true,
		},
		{
			name:     "zero expiry is stale",
			pair:     TokenPair{AccessToken: "a"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pair.NeedsRefresh(now))
		})
	}
}

func TestTokenPair_Configured(t *testing.T) {
	assert.False(t, TokenPair{}.Configured())
	assert.False(t, TokenPair{AccessToken: "access-only"}.Configured())
	assert.True(t, TokenPair{RefreshToken: "refresh"}.Configured())
}

// ---------------------------------------------------------------------------
// CredentialSet Tests
// ---------------------------------------------------------------------------

func TestNewCredentialSet(t *testing.T) {
	orgID := uuid.New()

	creds, err := NewCredentialSet(orgID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, creds.ID)
	assert.Equal(t, orgID, creds.OrganizationID)
	assert.False(t, creds.Configured(PlatformCodeMercadoLivre))
	assert.False(t, creds.Configured(PlatformCodeShopee))
}

func TestNewCredentialSet_NilOrganization(t *testing.T) {
	_, err := NewCredentialSet(uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidTenantID)
}

func TestCredentialSet_SetTokens(t *testing.T) {
	creds, err := NewCredentialSet(uuid.New())
	require.NoError(t, err)

	mlTokens := TokenPair{
		AccessToken:  "ml-access",
		RefreshToken: "ml-refresh",
		ExpiresAt:    time.Now().Add(6 * time.Hour),
	}
	creds.SetTokens(PlatformCodeMercadoLivre, mlTokens)

	assert.Equal(t, mlTokens, creds.Tokens(PlatformCodeMercadoLivre))
	// Shopee side stays untouched
	assert.Equal(t, TokenPair{}, creds.Tokens(PlatformCodeShopee))
	assert.True(t, creds.Configured(PlatformCodeMercadoLivre))
	assert.False(t, creds.Configured(PlatformCodeShopee))
}

func TestCredentialSet_HasAppCredentials(t *testing.T) {
	creds, err := NewCredentialSet(uuid.New())
	require.NoError(t, err)

	assert.False(t, creds.HasAppCredentials(PlatformCodeMercadoLivre))
	assert.False(t, creds.HasAppCredentials(PlatformCodeShopee))

	creds.MLClientID = "client-id"
	creds.MLClientSecret = "client-secret"
	assert.True(t, creds.HasAppCredentials(PlatformCodeMercadoLivre))

	creds.ShopeePartnerID = 2005001
	creds.ShopeePartnerKey = "partner-key"
	assert.True(t, creds.HasAppCredentials(PlatformCodeShopee))

	assert.False(t, creds.HasAppCredentials(PlatformCode("OTHER")))
}
