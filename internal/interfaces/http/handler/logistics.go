package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	financeapp "github.com/lucreapp/backend/internal/application/finance"
	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
)

// LogisticsHandler handles the per-shipping-method cost rule endpoints
type LogisticsHandler struct {
	BaseHandler
	logisticsService *financeapp.LogisticsService
}

// NewLogisticsHandler creates a new LogisticsHandler
func NewLogisticsHandler(logisticsService *financeapp.LogisticsService) *LogisticsHandler {
	return &LogisticsHandler{logisticsService: logisticsService}
}

// CreateLogisticsRuleRequest is the payload for registering a cost rule
type CreateLogisticsRuleRequest struct {
	Platform       string          `json:"platform" binding:"required" example:"MERCADO_LIVRE"`
	ShippingMethod string          `json:"shipping_method" binding:"required" example:"fulfillment"`
	FixedCost      decimal.Decimal `json:"fixed_cost" example:"22.50"`
}

// UpdateLogisticsRuleRequest is the payload for updating a rule's fixed cost
type UpdateLogisticsRuleRequest struct {
	FixedCost decimal.Decimal `json:"fixed_cost" example:"22.50"`
}

// LogisticsRuleResponse is the wire shape of a logistics cost rule
type LogisticsRuleResponse struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	Platform       string          `json:"platform"`
	ShippingMethod string          `json:"shipping_method"`
	FixedCost      decimal.Decimal `json:"fixed_cost"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toLogisticsRuleResponse(rule *finance.LogisticsCostRule) LogisticsRuleResponse {
	return LogisticsRuleResponse{
		ID:             rule.ID.String(),
		OrganizationID: rule.OrganizationID.String(),
		Platform:       rule.Platform.String(),
		ShippingMethod: rule.ShippingMethod,
		FixedCost:      rule.FixedCost,
		CreatedAt:      rule.CreatedAt,
		UpdatedAt:      rule.UpdatedAt,
	}
}

// Create registers a cost rule for a (platform, shipping method) pair
func (h *LogisticsHandler) Create(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req CreateLogisticsRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidBody(c, err)
		return
	}

	rule, err := h.logisticsService.Create(c.Request.Context(), orgID, financeapp.LogisticsRuleInput{
		Platform:       integration.PlatformCode(req.Platform),
		ShippingMethod: req.ShippingMethod,
		FixedCost:      req.FixedCost,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toLogisticsRuleResponse(rule))
}

// Update replaces the fixed cost of a rule
func (h *LogisticsHandler) Update(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	id, err := idParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	var req UpdateLogisticsRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidBody(c, err)
		return
	}

	rule, err := h.logisticsService.Update(c.Request.Context(), orgID, id, req.FixedCost)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLogisticsRuleResponse(rule))
}

// List returns the organization's cost rules
func (h *LogisticsHandler) List(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	rules, err := h.logisticsService.List(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]LogisticsRuleResponse, 0, len(rules))
	for _, rule := range rules {
		resp = append(resp, toLogisticsRuleResponse(rule))
	}
	h.Success(c, resp)
}

// Delete removes a cost rule
func (h *LogisticsHandler) Delete(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	id, err := idParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	if err := h.logisticsService.Delete(c.Request.Context(), orgID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
