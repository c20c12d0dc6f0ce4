// Package integration contains the Integration bounded context.
// This context manages the connection between tenants and external
// marketplace platforms (Mercado Livre, Shopee).
//
// Key concepts:
//   - MarketplaceClient: Port interface for marketplace APIs (order listing, token lifecycle)
//   - CredentialSet: Per-tenant bundle of platform credentials and OAuth token state
//   - MarketplaceOrder: Normalized order value object pulled from a platform
//   - ErrorLogEntry: Append-only record of integration failures, with an AlertNotifier port
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
