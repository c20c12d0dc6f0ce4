package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lucreapp/backend/internal/domain/finance"
	"github.com/lucreapp/backend/internal/domain/integration"
	"github.com/lucreapp/backend/internal/domain/shared"
	"github.com/lucreapp/backend/internal/domain/tenant"
	"github.com/lucreapp/backend/internal/infrastructure/logger"
	"github.com/lucreapp/backend/internal/interfaces/http/dto"
	"github.com/lucreapp/backend/internal/interfaces/http/middleware"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// organizationIDParam parses the organization ID from the route
func organizationIDParam(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("organization_id"))
}

// idParam parses the resource ID from the route
func idParam(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InvalidBody sends a 400 for a request body that failed binding. Validator
// failures carry per-field details; malformed JSON gets a generic message.
func (h *BaseHandler) InvalidBody(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, getRequestID(c)))
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body: "+err.Error())
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// UnprocessableEntity sends a 422 unprocessable entity response
func (h *BaseHandler) UnprocessableEntity(c *gin.Context, code, message string) {
	h.Error(c, http.StatusUnprocessableEntity, code, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BadGateway sends a 502 response for upstream marketplace failures
func (h *BaseHandler) BadGateway(c *gin.Context, message string) {
	h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, message)
}

// notFoundSentinels are domain errors that translate to 404
var notFoundSentinels = []error{
	tenant.ErrOrganizationNotFound,
	finance.ErrTaxProfileNotFound,
	finance.ErrProductCostNotFound,
	finance.ErrLogisticsRuleNotFound,
	finance.ErrTransactionNotFound,
	integration.ErrCredentialNotFound,
	shared.ErrNotFound,
}

// conflictSentinels are domain errors that translate to 409
var conflictSentinels = []error{
	tenant.ErrDuplicateCNPJ,
	finance.ErrDuplicateSKU,
	finance.ErrDuplicateRule,
}

// invalidInputSentinels are domain errors that translate to 400
var invalidInputSentinels = []error{
	tenant.ErrInvalidName,
	tenant.ErrInvalidCNPJ,
	finance.ErrInvalidRegime,
	finance.ErrInvalidTaxRate,
	finance.ErrInvalidSKU,
	finance.ErrNegativeCost,
	finance.ErrCreditsExceedGross,
	finance.ErrInvalidAmount,
	finance.ErrInvalidShipping,
	finance.ErrInvalidExternalID,
	integration.ErrUnknownPlatform,
	integration.ErrInvalidTenantID,
}

// HandleError maps domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			h.NotFound(c, err.Error())
			return
		}
	}

	for _, sentinel := range conflictSentinels {
		if errors.Is(err, sentinel) {
			h.Error(c, http.StatusConflict, dto.ErrCodeAlreadyExists, err.Error())
			return
		}
	}

	for _, sentinel := range invalidInputSentinels {
		if errors.Is(err, sentinel) {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())
			return
		}
	}

	if errors.Is(err, integration.ErrCredentialMissing) {
		h.UnprocessableEntity(c, dto.ErrCodeMissingCredentials, err.Error())
		return
	}

	var remoteErr *integration.RemoteError
	if errors.As(err, &remoteErr) {
		logger.GetGinLogger(c).Warn("Upstream marketplace failure", zap.Error(remoteErr))
		h.BadGateway(c, remoteErr.Error())
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error in request", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}
