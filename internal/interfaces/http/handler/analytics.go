package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	financeapp "github.com/lucreapp/backend/internal/application/finance"
	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
)

const defaultBackfillLimit = 500

// AnalyticsHandler handles profitability reporting and tax simulation
type AnalyticsHandler struct {
	BaseHandler
	analyticsService  *financeapp.ProfitabilityAnalyticsService
	simulationService *financeapp.TaxSimulationService
	marginService     *financeapp.MarginService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(
	analyticsService *financeapp.ProfitabilityAnalyticsService,
	simulationService *financeapp.TaxSimulationService,
	marginService *financeapp.MarginService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService:  analyticsService,
		simulationService: simulationService,
		marginService:     marginService,
	}
}

// SummaryResponse aggregates the profitability KPIs over the filter window
type SummaryResponse struct {
	OrderCount    int64           `json:"order_count"`
	Revenue       decimal.Decimal `json:"revenue"`
	NetMargin     decimal.Decimal `json:"net_margin"`
	TotalCosts    decimal.Decimal `json:"total_costs"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

// DailyPointResponse is one day of the revenue/margin series
type DailyPointResponse struct {
	Day       string          `json:"day"`
	Revenue   decimal.Decimal `json:"revenue"`
	NetMargin decimal.Decimal `json:"net_margin"`
}

// TransactionResponse is the wire shape of a sale transaction
type TransactionResponse struct {
	ID                   string           `json:"id"`
	OrganizationID       string           `json:"organization_id"`
	Platform             string           `json:"platform"`
	ExternalID           string           `json:"external_id"`
	GrossAmount          decimal.Decimal  `json:"gross_amount"`
	SaleDate             time.Time        `json:"sale_date"`
	ShippingMethod       string           `json:"shipping_method,omitempty"`
	PlatformShippingCost decimal.Decimal  `json:"platform_shipping_cost"`
	NetMargin            *decimal.Decimal `json:"net_margin"`
	CreatedAt            time.Time        `json:"created_at"`
}

// SimulateTaxRequest selects the transactions and scenario to simulate
type SimulateTaxRequest struct {
	TransactionIDs []string `json:"transaction_ids" binding:"required,min=1"`
	Regime         string   `json:"regime" binding:"required" example:"SIMPLES"`
}

// BackfillMarginsRequest caps one recovery sweep
type BackfillMarginsRequest struct {
	Limit int `json:"limit" example:"500"`
}

// BackfillMarginsResponse reports how many margins one sweep computed
type BackfillMarginsResponse struct {
	Processed int `json:"processed"`
}

func toTransactionResponse(tx *finance.SaleTransaction) TransactionResponse {
	return TransactionResponse{
		ID:                   tx.ID.String(),
		OrganizationID:       tx.OrganizationID.String(),
		Platform:             tx.Platform.String(),
		ExternalID:           tx.ExternalID,
		GrossAmount:          tx.GrossAmount,
		SaleDate:             tx.SaleDate,
		ShippingMethod:       tx.ShippingMethod,
		PlatformShippingCost: tx.PlatformShippingCost,
		NetMargin:            tx.NetMargin,
		CreatedAt:            tx.CreatedAt,
	}
}

// parseAnalyticsFilter reads the from/to/platform query parameters. Dates
// accept YYYY-MM-DD or RFC 3339; an invalid platform code is rejected here
// rather than silently matching nothing.
func parseAnalyticsFilter(c *gin.Context) (finance.AnalyticsFilter, bool) {
	var filter finance.AnalyticsFilter

	parse := func(value string) (time.Time, error) {
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return t, nil
		}
		return time.Parse(time.RFC3339, value)
	}

	if raw := c.Query("from"); raw != "" {
		t, err := parse(raw)
		if err != nil {
			return filter, false
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parse(raw)
		if err != nil {
			return filter, false
		}
		filter.To = t
	}
	if raw := c.Query("platform"); raw != "" {
		platform := integration.PlatformCode(raw)
		if !platform.IsValid() {
			return filter, false
		}
		filter.Platform = &platform
	}
	return filter, true
}

// Summary returns the profitability KPIs for the filter window
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	filter, ok := parseAnalyticsFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid filter: from/to must be YYYY-MM-DD or RFC 3339, platform must be MERCADO_LIVRE or SHOPEE")
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SummaryResponse{
		OrderCount:    summary.OrderCount,
		Revenue:       summary.Revenue,
		NetMargin:     summary.NetMargin,
		TotalCosts:    summary.TotalCosts,
		MarginPercent: summary.MarginPercent,
	})
}

// DailySeries returns the day-by-day revenue and margin series
func (h *AnalyticsHandler) DailySeries(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	filter, ok := parseAnalyticsFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid filter: from/to must be YYYY-MM-DD or RFC 3339, platform must be MERCADO_LIVRE or SHOPEE")
		return
	}

	points, err := h.analyticsService.DailySeries(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]DailyPointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, DailyPointResponse{
			Day:       p.Day.Format("2006-01-02"),
			Revenue:   p.Revenue,
			NetMargin: p.NetMargin,
		})
	}
	h.Success(c, resp)
}

// ListTransactions returns the transactions matching the filter, newest first
func (h *AnalyticsHandler) ListTransactions(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	filter, ok := parseAnalyticsFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid filter: from/to must be YYYY-MM-DD or RFC 3339, platform must be MERCADO_LIVRE or SHOPEE")
		return
	}

	txs, err := h.analyticsService.ListTransactions(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toTransactionResponse(tx))
	}
	h.Success(c, resp)
}

// SimulateTax re-prices the selected transactions under a hypothetical regime
func (h *AnalyticsHandler) SimulateTax(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req SimulateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidBody(c, err)
		return
	}

	regime := finance.SimulationRegime(req.Regime)
	if !regime.IsValid() {
		h.BadRequest(c, "regime must be SIMPLES, PADRAO or EFETIVA_1")
		return
	}

	txIDs := make([]uuid.UUID, 0, len(req.TransactionIDs))
	for _, raw := range req.TransactionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid transaction ID: "+raw)
			return
		}
		txIDs = append(txIDs, id)
	}

	results, err := h.simulationService.Simulate(c.Request.Context(), orgID, txIDs, regime)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// BackfillMargins computes margins for transactions that missed the initial
// calculation, for example after cost tables were filled in
func (h *AnalyticsHandler) BackfillMargins(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req BackfillMarginsRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.InvalidBody(c, err)
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultBackfillLimit
	}

	processed, err := h.marginService.BackfillMissing(c.Request.Context(), orgID, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BackfillMarginsResponse{Processed: processed})
}
