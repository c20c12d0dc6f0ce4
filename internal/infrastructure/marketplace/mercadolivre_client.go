package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucreapp/backend/internal/domain/integration"
)

const (
	mlDefaultBaseURL = "https://api.mercadolibre.com"

	// mlAuthURL is the seller consent page for the Brazilian site
	mlAuthURL = "https://auth.mercadolivre.com.br/authorization"

	// mlDateLayout is the timestamp format Mercado Livre uses in order
	// payloads and date filters
	mlDateLayout = "2006-01-02T15:04:05.000-07:00"

	// mlSearchPageSize is the page size for /orders/search
	mlSearchPageSize = 50
)

// MercadoLivreConfig configures the Mercado Livre adapter
type MercadoLivreConfig struct {
	// BaseURL overrides the production host, used by tests
	BaseURL string
	// RedirectURI is the OAuth callback registered with the ML application,
	// required when exchanging authorization codes
	RedirectURI    string
	TimeoutSeconds int
}

func (c *MercadoLivreConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = mlDefaultBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

// MercadoLivreClient implements integration.MarketplaceClient for the
// Mercado Livre REST API using OAuth2 bearer tokens.
type MercadoLivreClient struct {
	baseURL     string
	redirectURI string
	httpClient  *http.Client
	now         func() time.Time
}

// NewMercadoLivreClient creates a Mercado Livre adapter
func NewMercadoLivreClient(config MercadoLivreConfig) *MercadoLivreClient {
	config.applyDefaults()
	return &MercadoLivreClient{
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		redirectURI: config.RedirectURI,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		now: time.Now,
	}
}

// Platform returns the platform code this client handles
func (c *MercadoLivreClient) Platform() integration.PlatformCode {
	return integration.PlatformCodeMercadoLivre
}

// AuthorizationURL builds the Mercado Livre consent URL
func (c *MercadoLivreClient) AuthorizationURL(creds *integration.CredentialSet, state string) (string, error) {
	if !creds.HasAppCredentials(integration.PlatformCodeMercadoLivre) {
		return "", integration.ErrCredentialMissing
	}

	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", creds.MLClientID)
	query.Set("redirect_uri", c.redirectURI)
	query.Set("state", state)

	return mlAuthURL + "?" + query.Encode(), nil
}

// ExchangeAuthorizationCode trades an OAuth authorization code for tokens.
// shopID is ignored; ML tokens are scoped to the seller account.
func (c *MercadoLivreClient) ExchangeAuthorizationCode(ctx context.Context, creds *integration.CredentialSet, code string, _ int64) (integration.TokenPair, error) {
	if !creds.HasAppCredentials(integration.PlatformCodeMercadoLivre) {
		return integration.TokenPair{}, integration.ErrCredentialMissing
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", creds.MLClientID)
	form.Set("client_secret", creds.MLClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)

	return c.requestToken(ctx, form)
}

// RefreshToken rotates the stored refresh token. ML refresh tokens are
// single use; the returned pair replaces both tokens.
func (c *MercadoLivreClient) RefreshToken(ctx context.Context, creds *integration.CredentialSet) (integration.TokenPair, error) {
	if !creds.HasAppCredentials(integration.PlatformCodeMercadoLivre) || !creds.ML.Configured() {
		return integration.TokenPair{}, integration.ErrCredentialMissing
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", creds.MLClientID)
	form.Set("client_secret", creds.MLClientSecret)
	form.Set("refresh_token", creds.ML.RefreshToken)

	return c.requestToken(ctx, form)
}

func (c *MercadoLivreClient) requestToken(ctx context.Context, form url.Values) (integration.TokenPair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return integration.TokenPair{}, fmt.Errorf("mercadolivre: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	respBody, err := c.send(req)
	if err != nil {
		return integration.TokenPair{}, err
	}

	var resp mlTokenResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return integration.TokenPair{}, integration.NewRemoteError(integration.PlatformCodeMercadoLivre, "invalid token response", err)
	}
	if resp.AccessToken == "" {
		return integration.TokenPair{}, integration.NewRemoteError(integration.PlatformCodeMercadoLivre, "token response missing access_token", nil)
	}

	ttl := integration.DefaultMercadoLivreTokenTTL
	if resp.ExpiresIn > 0 {
		ttl = time.Duration(resp.ExpiresIn) * time.Second
	}
	return integration.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    c.now().Add(ttl),
	}, nil
}

// ListOrders pages through /orders/search for orders created in [from, to].
// The seller ID is resolved from the token via /users/me on every sweep;
// ML does not accept searches without it.
func (c *MercadoLivreClient) ListOrders(ctx context.Context, creds *integration.CredentialSet, from, to time.Time) ([]integration.OrderRef, error) {
	if creds.ML.AccessToken == "" {
		return nil, integration.ErrCredentialMissing
	}

	sellerID, err := c.fetchSellerID(ctx, creds)
	if err != nil {
		return nil, err
	}

	refs := make([]integration.OrderRef, 0)
	offset := 0

	for {
		query := url.Values{}
		query.Set("seller", strconv.FormatInt(sellerID, 10))
		query.Set("order.date_created.from", from.Format(mlDateLayout))
		query.Set("order.date_created.to", to.Format(mlDateLayout))
		query.Set("sort", "date_asc")
		query.Set("limit", strconv.Itoa(mlSearchPageSize))
		query.Set("offset", strconv.Itoa(offset))

		respBody, err := c.doGet(ctx, creds, "/orders/search?"+query.Encode())
		if err != nil {
			return nil, err
		}

		var resp mlOrderSearchResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return nil, integration.NewRemoteError(integration.PlatformCodeMercadoLivre, "invalid order search response", err)
		}

		for _, order := range resp.Results {
			refs = append(refs, integration.OrderRef{
				Platform:   integration.PlatformCodeMercadoLivre,
				ExternalID: strconv.FormatInt(order.ID, 10),
			})
		}

		offset += len(resp.Results)
		if len(resp.Results) == 0 || offset >= resp.Paging.Total {
			return refs, nil
		}
	}
}

// GetOrderDetails fetches each order individually via /orders/{id}
func (c *MercadoLivreClient) GetOrderDetails(ctx context.Context, creds *integration.CredentialSet, refs []integration.OrderRef) ([]integration.MarketplaceOrder, error) {
	if creds.ML.AccessToken == "" {
		return nil, integration.ErrCredentialMissing
	}

	orders := make([]integration.MarketplaceOrder, 0, len(refs))
	for _, ref := range refs {
		respBody, err := c.doGet(ctx, creds, "/orders/"+ref.ExternalID)
		if err != nil {
			return nil, err
		}

		var order mlOrder
		if err := json.Unmarshal(respBody, &order); err != nil {
			return nil, integration.NewRemoteError(integration.PlatformCodeMercadoLivre, "invalid order response", err)
		}
		orders = append(orders, convertMLOrder(order))
	}
	return orders, nil
}

func (c *MercadoLivreClient) fetchSellerID(ctx context.Context, creds *integration.CredentialSet) (int64, error) {
	respBody, err := c.doGet(ctx, creds, "/users/me")
	if err != nil {
		return 0, err
	}

	var user mlUserResponse
	if err := json.Unmarshal(respBody, &user); err != nil {
		return 0, integration.NewRemoteError(integration.PlatformCodeMercadoLivre, "invalid user response", err)
	}
	if user.ID == 0 {
		return 0, integration.NewRemoteError(integration.PlatformCodeMercadoLivre, "user response missing id", nil)
	}
	return user.ID, nil
}

func (c *MercadoLivreClient) doGet(ctx context.Context, creds *integration.CredentialSet, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("mercadolivre: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.ML.AccessToken)
	req.Header.Set("Accept", "application/json")

	return c.send(req)
}

// send executes the request and normalizes non-2xx replies into RemoteError
func (c *MercadoLivreClient) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, integration.NewRemoteError(integration.PlatformCodeMercadoLivre, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("mercadolivre: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr mlErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return nil, integration.NewRemoteError(integration.PlatformCodeMercadoLivre, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, apiErr.Message), nil)
		}
		return nil, integration.NewRemoteError(integration.PlatformCodeMercadoLivre, fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}
	return body, nil
}

// convertMLOrder maps a Mercado Livre order to the canonical order
func convertMLOrder(order mlOrder) integration.MarketplaceOrder {
	saleDate := time.Time{}
	if t, err := time.Parse(mlDateLayout, order.DateCreated); err == nil {
		saleDate = t.UTC()
	}

	shippingCost := decimal.Zero
	for _, p := range order.Payments {
		shippingCost = shippingCost.Add(decimal.NewFromFloat(p.ShippingCost))
	}

	return integration.MarketplaceOrder{
		ExternalID:     strconv.FormatInt(order.ID, 10),
		Platform:       integration.PlatformCodeMercadoLivre,
		GrossAmount:    decimal.NewFromFloat(order.TotalAmount),
		ShippingMethod: order.Shipping.ShippingMode,
		ShippingCost:   shippingCost,
		SaleDate:       saleDate,
	}
}

// Ensure MercadoLivreClient implements MarketplaceClient
var _ integration.MarketplaceClient = (*MercadoLivreClient)(nil)
