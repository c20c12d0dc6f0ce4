package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	tenantapp "github.com/lucreapp/backend/internal/application/tenant"
	"github.com/lucreapp/backend/internal/domain/tenant"
)

// OrganizationHandler handles tenant organization endpoints
type OrganizationHandler struct {
	BaseHandler
	orgService *tenantapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *tenantapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// CreateOrganizationRequest is the payload for registering a tenant
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required" example:"Loja Exemplo LTDA"`
	CNPJ string `json:"cnpj" binding:"required" example:"12.345.678/0001-95"`
}

// UpdateOrganizationRequest is the payload for renaming a tenant
type UpdateOrganizationRequest struct {
	Name string `json:"name" binding:"required" example:"Loja Exemplo LTDA"`
}

// OrganizationResponse is the wire shape of an organization
type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOrganizationResponse(org *tenant.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID.String(),
		Name:      org.Name,
		CNPJ:      org.CNPJ,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

// Create registers a new organization
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidBody(c, err)
		return
	}

	org, err := h.orgService.Create(c.Request.Context(), req.Name, req.CNPJ)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toOrganizationResponse(org))
}

// Get returns one organization by ID
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	org, err := h.orgService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrganizationResponse(org))
}

// List returns all organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.orgService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		resp = append(resp, toOrganizationResponse(org))
	}
	h.Success(c, resp)
}

// Update renames an organization
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidBody(c, err)
		return
	}

	org, err := h.orgService.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrganizationResponse(org))
}

// Delete removes an organization
func (h *OrganizationHandler) Delete(c *gin.Context) {
	id, err := organizationIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	if err := h.orgService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
