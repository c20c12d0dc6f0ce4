package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	integrationapp "github.com/lucreapp/backend/internal/application/integration"
	"github.com/lucreapp/backend/internal/domain/integration"
)

const defaultErrorLogLimit = 50

// IntegrationHandler handles platform connection, credentials and sync
// endpoints
type IntegrationHandler struct {
	BaseHandler
	oauthService *integrationapp.OAuthService
	reconciler   *integrationapp.OrderReconciler
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(oauthService *integrationapp.OAuthService, reconciler *integrationapp.OrderReconciler) *IntegrationHandler {
	return &IntegrationHandler{oauthService: oauthService, reconciler: reconciler}
}

// ConfigureCredentialsRequest is the payload for registering the tenant's
// platform application credentials. Fields left empty keep their stored
// values.
type ConfigureCredentialsRequest struct {
	MLClientID       string `json:"ml_client_id" example:"8273645519283746"`
	MLClientSecret   string `json:"ml_client_secret"`
	ShopeePartnerID  int64  `json:"shopee_partner_id" example:"2007788"`
	ShopeePartnerKey string `json:"shopee_partner_key"`
	ShopeeShopID     int64  `json:"shopee_shop_id" example:"226354881"`
}

// PlatformStatusResponse reports one platform's connection state without
// exposing secrets
type PlatformStatusResponse struct {
	AppConfigured  bool       `json:"app_configured"`
	Connected      bool       `json:"connected"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
}

// CredentialStatusResponse is the wire shape of a tenant's credential state
type CredentialStatusResponse struct {
	OrganizationID string                 `json:"organization_id"`
	MercadoLivre   PlatformStatusResponse `json:"mercado_livre"`
	Shopee         PlatformStatusResponse `json:"shopee"`
	ShopeeShopID   int64                  `json:"shopee_shop_id,omitempty"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// AuthorizationURLResponse carries the consent URL the seller must visit
type AuthorizationURLResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

// ErrorLogResponse is the wire shape of one integration failure
type ErrorLogResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Platform       string    `json:"platform"`
	Task           string    `json:"task"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

// SyncResponse summarizes one reconciliation run
type SyncResponse struct {
	Listed   int `json:"listed"`
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Skipped  int `json:"skipped"`
}

func toCredentialStatusResponse(creds *integration.CredentialSet) CredentialStatusResponse {
	resp := CredentialStatusResponse{
		OrganizationID: creds.OrganizationID.String(),
		MercadoLivre: PlatformStatusResponse{
			AppConfigured: creds.MLClientID != "",
			Connected:     creds.ML.Configured(),
		},
		Shopee: PlatformStatusResponse{
			AppConfigured: creds.ShopeePartnerID != 0,
			Connected:     creds.Shopee.Configured(),
		},
		ShopeeShopID: creds.ShopeeShopID,
		UpdatedAt:    creds.UpdatedAt,
	}
	if creds.ML.Configured() && !creds.ML.ExpiresAt.IsZero() {
		expires := creds.ML.ExpiresAt
		resp.MercadoLivre.TokenExpiresAt = &expires
	}
	if creds.Shopee.Configured() && !creds.Shopee.ExpiresAt.IsZero() {
		expires := creds.Shopee.ExpiresAt
		resp.Shopee.TokenExpiresAt = &expires
	}
	return resp
}

// organizationFromQuery resolves the tenant for the OAuth start endpoints,
// where the organization travels as a query parameter instead of a route
// segment
func (h *IntegrationHandler) organizationFromQuery(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("organization_id")
	if raw == "" {
		h.BadRequest(c, "organization_id query parameter is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return uuid.Nil, false
	}
	return id, true
}

// startAuth builds the consent URL for a platform
func (h *IntegrationHandler) startAuth(c *gin.Context, platform integration.PlatformCode) {
	orgID, ok := h.organizationFromQuery(c)
	if !ok {
		return
	}

	url, err := h.oauthService.AuthorizationURL(c.Request.Context(), orgID, platform)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, AuthorizationURLResponse{AuthorizationURL: url})
}

// handleCallback exchanges the authorization code carried by the platform's
// redirect. The state parameter carries the organization ID set on start.
func (h *IntegrationHandler) handleCallback(c *gin.Context, platform integration.PlatformCode, shopID int64) {
	code := c.Query("code")
	if code == "" {
		h.BadRequest(c, "code query parameter is required")
		return
	}
	orgID, err := uuid.Parse(c.Query("state"))
	if err != nil {
		h.BadRequest(c, "Invalid state parameter")
		return
	}

	if err := h.oauthService.HandleCallback(c.Request.Context(), orgID, platform, code, shopID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"platform": platform.String(), "connected": true})
}

// StartMLAuth returns the Mercado Livre consent URL
func (h *IntegrationHandler) StartMLAuth(c *gin.Context) {
	h.startAuth(c, integration.PlatformCodeMercadoLivre)
}

// MLCallback completes the Mercado Livre authorization flow
func (h *IntegrationHandler) MLCallback(c *gin.Context) {
	h.handleCallback(c, integration.PlatformCodeMercadoLivre, 0)
}

// StartShopeeAuth returns the Shopee consent URL
func (h *IntegrationHandler) StartShopeeAuth(c *gin.Context) {
	h.startAuth(c, integration.PlatformCodeShopee)
}

// ShopeeCallback completes the Shopee authorization flow. Shopee's redirect
// carries the shop the seller authorized.
func (h *IntegrationHandler) ShopeeCallback(c *gin.Context) {
	var shopID int64
	if raw := c.Query("shop_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.BadRequest(c, "Invalid shop_id parameter")
			return
		}
		shopID = parsed
	}
	h.handleCallback(c, integration.PlatformCodeShopee, shopID)
}

// ConfigureCredentials upserts the tenant's platform app credentials
func (h *IntegrationHandler) ConfigureCredentials(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req ConfigureCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidBody(c, err)
		return
	}

	creds, err := h.oauthService.ConfigureApp(c.Request.Context(), orgID, integrationapp.AppCredentialsInput{
		MLClientID:       req.MLClientID,
		MLClientSecret:   req.MLClientSecret,
		ShopeePartnerID:  req.ShopeePartnerID,
		ShopeePartnerKey: req.ShopeePartnerKey,
		ShopeeShopID:     req.ShopeeShopID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCredentialStatusResponse(creds))
}

// GetCredentials returns the tenant's connection status
func (h *IntegrationHandler) GetCredentials(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	creds, err := h.oauthService.Credentials(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCredentialStatusResponse(creds))
}

// ListErrors returns the tenant's most recent integration failures
func (h *IntegrationHandler) ListErrors(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	limit := defaultErrorLogLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.oauthService.RecentErrors(c.Request.Context(), orgID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]ErrorLogResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, ErrorLogResponse{
			ID:             entry.ID.String(),
			OrganizationID: entry.OrganizationID.String(),
			Platform:       entry.Platform.String(),
			Task:           entry.Task,
			Message:        entry.Message,
			CreatedAt:      entry.CreatedAt,
		})
	}
	h.Success(c, resp)
}

// TriggerSync runs one on-demand order reconciliation for the tenant
func (h *IntegrationHandler) TriggerSync(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	stats, err := h.reconciler.SyncOrders(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SyncResponse{
		Listed:   stats.Listed,
		Created:  stats.Created,
		Existing: stats.Existing,
		Skipped:  stats.Skipped,
	})
}
