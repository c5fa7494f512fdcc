package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petshop/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns otelgin middleware. Spans are named after the route
// pattern, e.g. "GET /api/v1/storefront/products/:id/prices".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher adds request, tenant, user and currency attributes to the
// request span once the handler has run, and marks 5xx responses as errors.
// Place it after Tracing.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		for _, key := range []string{logger.GinRequestIDKey, logger.GinTenantIDKey, logger.GinUserIDKey, logger.GinCurrencyKey} {
			if v := c.GetString(key); v != "" {
				span.SetAttributes(attribute.String(key, v))
			}
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
