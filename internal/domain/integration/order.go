package integration

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// OrderRef is a lightweight pointer to an order on a platform, returned by
// list endpoints and passed back to detail endpoints
type OrderRef struct {
	Platform   PlatformCode
	ExternalID string
}

// MarketplaceOrder is the canonical normalized order pulled from a platform.
// Amounts are in BRL.
type MarketplaceOrder struct {
	// ExternalID is the order ID on the platform
	ExternalID string
	// Platform identifies where the order came from
	Platform PlatformCode
	// GrossAmount is the total the buyer paid
	GrossAmount decimal.Decimal
	// ShippingMethod is the platform's carrier or logistics type label
	ShippingMethod string
	// ShippingCost is the shipping fee charged to the seller by the platform
	ShippingCost decimal.Decimal
	// SaleDate is when the order was created on the platform
	SaleDate time.Time
}

// ---------------------------------------------------------------------------
// MarketplaceClient Port Interface
// ---------------------------------------------------------------------------

// MarketplaceClient defines the port for a marketplace platform API. It is
// defined in the domain layer; concrete adapters (Mercado Livre, Shopee)
// live in infrastructure.
type MarketplaceClient interface {
	// Platform returns the platform code this client handles
	Platform() PlatformCode

	// AuthorizationURL builds the consent URL a seller visits to authorize
	// the application; state is round-tripped through the callback
	AuthorizationURL(creds *CredentialSet, state string) (string, error)

	// ListOrders returns references to orders created inside [from, to]
	ListOrders(ctx context.Context, creds *CredentialSet, from, to time.Time) ([]OrderRef, error)

	// GetOrderDetails resolves order references into normalized orders
	GetOrderDetails(ctx context.Context, creds *CredentialSet, refs []OrderRef) ([]MarketplaceOrder, error)

	// ExchangeAuthorizationCode trades an OAuth authorization code for tokens.
	// shopID is only meaningful for platforms that scope tokens to a shop.
	ExchangeAuthorizationCode(ctx context.Context, creds *CredentialSet, code string, shopID int64) (TokenPair, error)

	// RefreshToken obtains a fresh access token using the stored refresh token
	RefreshToken(ctx context.Context, creds *CredentialSet) (TokenPair, error)
}

// ClientRegistry resolves the client adapter for a platform code
type ClientRegistry interface {
	// Client returns the adapter for the code, ErrUnknownPlatform if none
	Client(platform PlatformCode) (MarketplaceClient, error)

	// Clients returns every registered adapter
	Clients() []MarketplaceClient
}
