package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	financeapp "github.com/lucreapp/backend/internal/application/finance"
	"github.com/lucreapp/backend/internal/domain/finance"
)

// ProductCostHandler handles the per-SKU cost table endpoints
type ProductCostHandler struct {
	BaseHandler
	costService *financeapp.ProductCostService
}

// NewProductCostHandler creates a new ProductCostHandler
func NewProductCostHandler(costService *financeapp.ProductCostService) *ProductCostHandler {
	return &ProductCostHandler{costService: costService}
}

// ProductCostRequest is the payload for creating or updating a SKU cost entry
type ProductCostRequest struct {
	SKU          string          `json:"sku" binding:"required" example:"SKU-001"`
	Description  string          `json:"description" example:"Fone de ouvido bluetooth"`
	GrossCost    decimal.Decimal `json:"gross_cost" example:"89.90"`
	ICMSCredit   decimal.Decimal `json:"icms_credit" example:"10.79"`
	PISCredit    decimal.Decimal `json:"pis_credit" example:"1.48"`
	COFINSCredit decimal.Decimal `json:"cofins_credit" example:"6.83"`
}

// ProductCostResponse is the wire shape of a SKU cost entry
type ProductCostResponse struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	SKU            string          `json:"sku"`
	Description    string          `json:"description"`
	GrossCost      decimal.Decimal `json:"gross_cost"`
	ICMSCredit     decimal.Decimal `json:"icms_credit"`
	PISCredit      decimal.Decimal `json:"pis_credit"`
	COFINSCredit   decimal.Decimal `json:"cofins_credit"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toProductCostResponse(cost *finance.ProductCost) ProductCostResponse {
	return ProductCostResponse{
		ID:             cost.ID.String(),
		OrganizationID: cost.OrganizationID.String(),
		SKU:            cost.SKU,
		Description:    cost.Description,
		GrossCost:      cost.GrossCost,
		ICMSCredit:     cost.ICMSCredit,
		PISCredit:      cost.PISCredit,
		COFINSCredit:   cost.COFINSCredit,
		CreatedAt:      cost.CreatedAt,
		UpdatedAt:      cost.UpdatedAt,
	}
}

func (r ProductCostRequest) toInput() financeapp.ProductCostInput {
	return financeapp.ProductCostInput{
		SKU:          r.SKU,
		Description:  r.Description,
		GrossCost:    r.GrossCost,
		ICMSCredit:   r.ICMSCredit,
		PISCredit:    r.PISCredit,
		COFINSCredit: r.COFINSCredit,
	}
}

// Create registers a new SKU cost entry
func (h *ProductCostHandler) Create(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req ProductCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidBody(c, err)
		return
	}

	cost, err := h.costService.Create(c.Request.Context(), orgID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProductCostResponse(cost))
}

// Update replaces the cost figures of an entry
func (h *ProductCostHandler) Update(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	id, err := idParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product cost ID")
		return
	}

	var req ProductCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidBody(c, err)
		return
	}

	cost, err := h.costService.Update(c.Request.Context(), orgID, id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductCostResponse(cost))
}

// Get returns one SKU cost entry
func (h *ProductCostHandler) Get(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	id, err := idParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product cost ID")
		return
	}

	cost, err := h.costService.Get(c.Request.Context(), orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductCostResponse(cost))
}

// List returns the organization's SKU cost table
func (h *ProductCostHandler) List(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	costs, err := h.costService.List(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]ProductCostResponse, 0, len(costs))
	for _, cost := range costs {
		resp = append(resp, toProductCostResponse(cost))
	}
	h.Success(c, resp)
}

// Delete removes a SKU cost entry
func (h *ProductCostHandler) Delete(c *gin.Context) {
	orgID, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	id, err := idParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product cost ID")
		return
	}

	if err := h.costService.Delete(c.Request.Context(), orgID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
