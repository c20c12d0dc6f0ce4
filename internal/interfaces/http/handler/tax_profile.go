package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	financeapp "github.com/lucreapp/backend/internal/application/finance"
	"github.com/lucreapp/backend/internal/domain/finance"
)

// TaxProfileHandler handles the per-organization tax profile endpoints
type TaxProfileHandler struct {
	BaseHandler
	taxService *financeapp.TaxProfileService
}

// NewTaxProfileHandler creates a new TaxProfileHandler
func NewTaxProfileHandler(taxService *financeapp.TaxProfileService) *TaxProfileHandler {
	return &TaxProfileHandler{taxService: taxService}
}

// UpsertTaxProfileRequest is the payload for setting the tax profile
type UpsertTaxProfileRequest struct {
	Regime           string          `json:"regime" binding:"required" example:"LUCRO_REAL"`
	ICMSBenefitFlag  bool            `json:"icms_benefit_flag" example:"true"`
	EffectiveTaxRate decimal.Decimal `json:"effective_tax_rate" example:"1.00"`
}

// TaxProfileResponse is the wire shape of a tax profile
type TaxProfileResponse struct {
	ID               string          `json:"id"`
	OrganizationID   string          `json:"organization_id"`
	Regime           string          `json:"regime"`
	ICMSBenefitFlag  bool            `json:"icms_benefit_flag"`
	EffectiveTaxRate decimal.Decimal `json:"effective_tax_rate"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toTaxProfileResponse(profile *finance.TaxProfile) TaxProfileResponse {
	return TaxProfileResponse{
		ID:               profile.ID.String(),
		OrganizationID:   profile.OrganizationID.String(),
		Regime:           profile.Regime.String(),
		ICMSBenefitFlag:  profile.ICMSBenefitFlag,
		EffectiveTaxRate: profile.EffectiveTaxRate,
		CreatedAt:        profile.CreatedAt,
		UpdatedAt:        profile.UpdatedAt,
	}
}

// Get returns the organization's tax profile
func (h *TaxProfileHandler) Get(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	profile, err := h.taxService.Get(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaxProfileResponse(profile))
}

// Upsert creates or replaces the organization's tax profile
func (h *TaxProfileHandler) Upsert(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req UpsertTaxProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidBody(c, err)
		return
	}

	profile, err := h.taxService.Upsert(c.Request.Context(), orgID,
		finance.TaxRegime(req.Regime), req.ICMSBenefitFlag, req.EffectiveTaxRate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaxProfileResponse(profile))
}

// Delete removes the organization's tax profile
func (h *TaxProfileHandler) Delete(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	if err := h.taxService.Delete(c.Request.Context(), orgID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
