package marketplace

import (
	"github.com/lucreapp/backend/internal/domain/integration"
)

// Registry holds the configured marketplace adapters keyed by platform code
type Registry struct {
	clients map[integration.PlatformCode]integration.MarketplaceClient
}

// NewRegistry creates a registry from the given adapters
func NewRegistry(clients ...integration.MarketplaceClient) *Registry {
	m := make(map[integration.PlatformCode]integration.MarketplaceClient, len(clients))
	for _, c := range clients {
		m[c.Platform()] = c
	}
	return &Registry{clients: m}
}

// Client returns the adapter for the code, ErrUnknownPlatform if none
func (r *Registry) Client(platform integration.PlatformCode) (integration.MarketplaceClient, error) {
	c, ok := r.clients[platform]
	if !ok {
		return nil, integration.ErrUnknownPlatform
	}
	return c, nil
}

// Clients returns every registered adapter in platform order
func (r *Registry) Clients() []integration.MarketplaceClient {
	out := make([]integration.MarketplaceClient, 0, len(r.clients))
	for _, code := range integration.AllPlatformCodes() {
		if c, ok := r.clients[code]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Ensure Registry implements ClientRegistry
var _ integration.ClientRegistry = (*Registry)(nil)
