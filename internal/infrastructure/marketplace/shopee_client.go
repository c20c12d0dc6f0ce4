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
	// maxResponseSize limits marketplace response bodies to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB

	shopeeDefaultBaseURL = "https://partner.shopeemobile.com"
	shopeeBasePath       = "/api/v2"

	// shopeeOrderPageSize is the page size accepted by get_order_list
	shopeeOrderPageSize = 20
	// shopeeDetailBatchSize is the max order_sn count per get_order_detail call
	shopeeDetailBatchSize = 50

	// shopeeOptionalFields are the detail fields needed to build a sale record
	shopeeOptionalFields = "total_amount,shipping_carrier,actual_shipping_fee,create_time,item_list"
)

// ShopeeConfig configures the Shopee adapter
type ShopeeConfig struct {
	// BaseURL overrides the production host, used by tests
	BaseURL string
	// RedirectURI is the callback registered with the partner application,
	// embedded in the shop authorization URL
	RedirectURI    string
	TimeoutSeconds int
}

func (c *ShopeeConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = shopeeDefaultBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

// ShopeeClient implements integration.MarketplaceClient for the Shopee Open
// Platform v2 API. Every call is signed per partner key; shop-level calls
// additionally bind the signature to the access token and shop ID.
type ShopeeClient struct {
	baseURL     string
	redirectURI string
	httpClient  *http.Client
	now         func() time.Time
}

// NewShopeeClient creates a Shopee adapter
func NewShopeeClient(config ShopeeConfig) *ShopeeClient {
	config.applyDefaults()
	return &ShopeeClient{
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		redirectURI: config.RedirectURI,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		now: time.Now,
	}
}

// Platform returns the platform code this client handles
func (c *ShopeeClient) Platform() integration.PlatformCode {
	return integration.PlatformCodeShopee
}

// AuthorizationURL builds the signed shop authorization URL
func (c *ShopeeClient) AuthorizationURL(creds *integration.CredentialSet, state string) (string, error) {
	if !creds.HasAppCredentials(integration.PlatformCodeShopee) {
		return "", integration.ErrCredentialMissing
	}

	path := shopeeBasePath + "/shop/auth_partner"
	sign, timestamp := SignRequest(path, creds.ShopeePartnerID, creds.ShopeePartnerKey, "", 0)

	query := url.Values{}
	query.Set("partner_id", strconv.FormatInt(creds.ShopeePartnerID, 10))
	query.Set("timestamp", strconv.FormatInt(timestamp, 10))
	query.Set("sign", sign)
	query.Set("redirect", c.redirectURI+"?state="+url.QueryEscape(state))

	return fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode()), nil
}

// ExchangeAuthorizationCode trades the authorization code issued by the
// Shopee consent screen for the first token pair of a shop
func (c *ShopeeClient) ExchangeAuthorizationCode(ctx context.Context, creds *integration.CredentialSet, code string, shopID int64) (integration.TokenPair, error) {
	if !creds.HasAppCredentials(integration.PlatformCodeShopee) {
		return integration.TokenPair{}, integration.ErrCredentialMissing
	}

	body := map[string]any{
		"code":       code,
		"shop_id":    shopID,
		"partner_id": creds.ShopeePartnerID,
	}
	return c.requestToken(ctx, creds, "/auth/token/get", body)
}

// RefreshToken obtains a fresh access token for the stored shop
func (c *ShopeeClient) RefreshToken(ctx context.Context, creds *integration.CredentialSet) (integration.TokenPair, error) {
	if !creds.HasAppCredentials(integration.PlatformCodeShopee) || !creds.Shopee.Configured() {
		return integration.TokenPair{}, integration.ErrCredentialMissing
	}

	body := map[string]any{
		"refresh_token": creds.Shopee.RefreshToken,
		"partner_id":    creds.ShopeePartnerID,
		"shop_id":       creds.ShopeeShopID,
	}
	return c.requestToken(ctx, creds, "/auth/access_token/get", body)
}

// requestToken posts to one of the two token endpoints, which are public
// APIs signed without access token or shop ID
func (c *ShopeeClient) requestToken(ctx context.Context, creds *integration.CredentialSet, endpoint string, body map[string]any) (integration.TokenPair, error) {
	path := shopeeBasePath + endpoint
	sign, timestamp := SignRequest(path, creds.ShopeePartnerID, creds.ShopeePartnerKey, "", 0)

	query := url.Values{}
	query.Set("partner_id", strconv.FormatInt(creds.ShopeePartnerID, 10))
	query.Set("timestamp", strconv.FormatInt(timestamp, 10))
	query.Set("sign", sign)

	respBody, err := c.doRequest(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return integration.TokenPair{}, err
	}

	var resp shopeeTokenResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return integration.TokenPair{}, integration.NewRemoteError(integration.PlatformCodeShopee, "invalid token response", err)
	}
	if !resp.isSuccess() {
		return integration.TokenPair{}, integration.NewRemoteError(integration.PlatformCodeShopee, fmt.Sprintf("%s: %s", resp.Error, resp.Message), nil)
	}
	if resp.AccessToken == "" {
		return integration.TokenPair{}, integration.NewRemoteError(integration.PlatformCodeShopee, "token response missing access_token", nil)
	}

	ttl := integration.DefaultShopeeTokenTTL
	if resp.ExpireIn > 0 {
		ttl = time.Duration(resp.ExpireIn) * time.Second
	}
	return integration.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    c.now().Add(ttl),
	}, nil
}

// ListOrders pages through get_order_list for the window [from, to]
func (c *ShopeeClient) ListOrders(ctx context.Context, creds *integration.CredentialSet, from, to time.Time) ([]integration.OrderRef, error) {
	if creds.Shopee.AccessToken == "" {
		return nil, integration.ErrCredentialMissing
	}

	path := shopeeBasePath + "/order/get_order_list"
	refs := make([]integration.OrderRef, 0)
	cursor := ""

	for {
		query := c.shopQuery(creds, path)
		query.Set("time_range_field", "create_time")
		query.Set("time_from", strconv.FormatInt(from.Unix(), 10))
		query.Set("time_to", strconv.FormatInt(to.Unix(), 10))
		query.Set("page_size", strconv.Itoa(shopeeOrderPageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		respBody, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}

		var resp shopeeOrderListResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return nil, integration.NewRemoteError(integration.PlatformCodeShopee, "invalid order list response", err)
		}
		if !resp.isSuccess() {
			return nil, integration.NewRemoteError(integration.PlatformCodeShopee, fmt.Sprintf("%s: %s", resp.Error, resp.Message), nil)
		}

		for _, o := range resp.Response.OrderList {
			refs = append(refs, integration.OrderRef{
				Platform:   integration.PlatformCodeShopee,
				ExternalID: o.OrderSN,
			})
		}

		if !resp.Response.More || resp.Response.NextCursor == "" {
			return refs, nil
		}
		cursor = resp.Response.NextCursor
	}
}

// GetOrderDetails resolves refs in batches of up to 50 order numbers
func (c *ShopeeClient) GetOrderDetails(ctx context.Context, creds *integration.CredentialSet, refs []integration.OrderRef) ([]integration.MarketplaceOrder, error) {
	if creds.Shopee.AccessToken == "" {
		return nil, integration.ErrCredentialMissing
	}

	path := shopeeBasePath + "/order/get_order_detail"
	orders := make([]integration.MarketplaceOrder, 0, len(refs))

	for start := 0; start < len(refs); start += shopeeDetailBatchSize {
		end := start + shopeeDetailBatchSize
		if end > len(refs) {
			end = len(refs)
		}

		sns := make([]string, 0, end-start)
		for _, ref := range refs[start:end] {
			sns = append(sns, ref.ExternalID)
		}

		query := c.shopQuery(creds, path)
		query.Set("order_sn_list", strings.Join(sns, ","))
		query.Set("response_optional_fields", shopeeOptionalFields)

		respBody, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}

		var resp shopeeOrderDetailResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return nil, integration.NewRemoteError(integration.PlatformCodeShopee, "invalid order detail response", err)
		}
		if !resp.isSuccess() {
			return nil, integration.NewRemoteError(integration.PlatformCodeShopee, fmt.Sprintf("%s: %s", resp.Error, resp.Message), nil)
		}

		for _, detail := range resp.Response.OrderList {
			orders = append(orders, convertShopeeOrder(detail))
		}
	}

	return orders, nil
}

// shopQuery builds the signed common query for shop-level endpoints
func (c *ShopeeClient) shopQuery(creds *integration.CredentialSet, path string) url.Values {
	sign, timestamp := SignRequest(path, creds.ShopeePartnerID, creds.ShopeePartnerKey, creds.Shopee.AccessToken, creds.ShopeeShopID)

	query := url.Values{}
	query.Set("partner_id", strconv.FormatInt(creds.ShopeePartnerID, 10))
	query.Set("timestamp", strconv.FormatInt(timestamp, 10))
	query.Set("access_token", creds.Shopee.AccessToken)
	query.Set("shop_id", strconv.FormatInt(creds.ShopeeShopID, 10))
	query.Set("sign", sign)
	return query
}

// doRequest performs an HTTP request against the Shopee API
func (c *ShopeeClient) doRequest(ctx context.Context, method, path string, query url.Values, body map[string]any) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("shopee: failed to marshal request: %w", err)
		}
		reader = strings.NewReader(string(bodyBytes))
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("shopee: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, integration.NewRemoteError(integration.PlatformCodeShopee, "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopee: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, integration.NewRemoteError(integration.PlatformCodeShopee, fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}
	return respBody, nil
}

// convertShopeeOrder maps a Shopee order detail to the canonical order
func convertShopeeOrder(detail shopeeOrderDetail) integration.MarketplaceOrder {
	return integration.MarketplaceOrder{
		ExternalID:     detail.OrderSN,
		Platform:       integration.PlatformCodeShopee,
		GrossAmount:    decimal.NewFromFloat(detail.TotalAmount),
		ShippingMethod: detail.ShippingCarrier,
		ShippingCost:   decimal.NewFromFloat(detail.ActualShippingFee),
		SaleDate:       time.Unix(detail.CreateTime, 0).UTC(),
	}
}

// Ensure ShopeeClient implements MarketplaceClient
var _ integration.MarketplaceClient = (*ShopeeClient)(nil)
