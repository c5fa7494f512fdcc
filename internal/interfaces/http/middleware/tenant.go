package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/petshop/backend/internal/infrastructure/logger"
	"github.com/petshop/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Tenant context keys
const (
	TenantIDKey     = logger.GinTenantIDKey
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantConfig holds configuration for tenant middleware
type TenantConfig struct {
	// DefaultTenant is used when neither a token nor the header names one.
	// uuid.Nil makes the tenant mandatory.
	DefaultTenant uuid.UUID
	Logger        *zap.Logger
}

// TenantMiddleware resolves the tenant of the request.
// Extraction order: JWT claims > X-Tenant-ID header > configured default.
// A token may not be used against another tenant's header.
func TenantMiddleware(cfg TenantConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader(TenantHeaderKey)
		var headerID uuid.UUID
		if header != "" {
			id, err := uuid.Parse(header)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid tenant ID format")
				return
			}
			headerID = id
		}

		var tenantID uuid.UUID
		method := "default"
		if claims := GetJWTClaims(c); claims != nil {
			id, err := claims.TenantUUID()
			if err != nil {
				abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid tenant in token")
				return
			}
			if headerID != uuid.Nil && headerID != id {
				abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Token does not belong to this tenant")
				return
			}
			tenantID, method = id, "jwt"
		} else if headerID != uuid.Nil {
			tenantID, method = headerID, "header"
		} else {
			tenantID = cfg.DefaultTenant
		}

		if tenantID == uuid.Nil {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Tenant identification required")
			return
		}

		c.Set(TenantIDKey, tenantID.String())
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID.String()))
		log.Debug("Tenant identified",
			zap.String("tenant_id", tenantID.String()),
			zap.String("method", method))
		c.Next()
	}
}

// GetTenantUUID retrieves the tenant resolved by TenantMiddleware
func GetTenantUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(TenantIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
