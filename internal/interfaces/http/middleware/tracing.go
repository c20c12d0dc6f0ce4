// Package middleware provides HTTP middleware for the profitability backend.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// maxRequestIDLength caps header-supplied request IDs before they land
	// in trace attributes
	maxRequestIDLength = 128
)

// organizationIDPattern accepts only UUIDs; anything else from the route or
// headers stays out of the trace.
var organizationIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig owns the HTTP span lifecycle via otelgin. Span names
// follow otelgin's "METHOD route_pattern" convention. Attribute enrichment
// and error marking live in SpanAnnotator, which has to run inside the span.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanAnnotator enriches the HTTP span with the request ID and organization
// ID before the handler runs, and marks 4xx/5xx responses as errored after.
// It must sit after the tracing middleware in the chain.
func SpanAnnotator() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if requestID := traceRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if orgID := traceOrganizationID(c); orgID != "" {
			span.SetAttributes(attribute.String("organization_id", orgID))
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, spanErrorMessage(status))
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}

// traceRequestID prefers the ID minted by the RequestID middleware and falls
// back to the raw header, truncated.
func traceRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > maxRequestIDLength {
		headerID = headerID[:maxRequestIDLength]
	}
	return headerID
}

// traceOrganizationID resolves the organization from the route param first,
// then the X-Organization-ID header.
func traceOrganizationID(c *gin.Context) string {
	if id := c.Param("organization_id"); organizationIDPattern.MatchString(id) {
		return id
	}
	if id := c.GetHeader("X-Organization-ID"); organizationIDPattern.MatchString(id) {
		return id
	}
	return ""
}

func spanErrorMessage(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusUnauthorized:
		return "Unauthorized"
	case status == http.StatusForbidden:
		return "Forbidden"
	case status == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}
