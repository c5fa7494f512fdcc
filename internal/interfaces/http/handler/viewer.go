package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pricingapp "github.com/petshop/backend/internal/application/pricing"
	"github.com/petshop/backend/internal/infrastructure/logger"
	"github.com/petshop/backend/internal/interfaces/http/middleware"
)

// CurrencyQueryParam lets a shopper pick a storefront currency explicitly
const CurrencyQueryParam = "currency"

// ViewerService resolves the pricing context of a request
type ViewerService interface {
	ResolveViewer(ctx context.Context, in pricingapp.ViewerInput) (*pricingapp.Viewer, error)
}

// ViewerResolver turns request state (tenant, claims, geo header and the
// currency query parameter) into a pricing viewer
type ViewerResolver struct {
	service   ViewerService
	geoHeader string
}

// NewViewerResolver creates a ViewerResolver reading the country from geoHeader
func NewViewerResolver(service ViewerService, geoHeader string) *ViewerResolver {
	return &ViewerResolver{service: service, geoHeader: geoHeader}
}

// Resolve builds the viewer and tags the request with its currency
func (r *ViewerResolver) Resolve(c *gin.Context, tenantID uuid.UUID) (*pricingapp.Viewer, error) {
	in := pricingapp.ViewerInput{
		TenantID:          tenantID,
		RequestedCurrency: c.Query(CurrencyQueryParam),
	}
	if r.geoHeader != "" {
		in.Country = c.GetHeader(r.geoHeader)
	}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		if id, err := claims.UserUUID(); err == nil {
			in.UserID = &id
		}
		in.Role = claims.Role
		if id, ok := claims.ResellerCategoryUUID(); ok {
			in.ResellerCategoryID = &id
		}
	}

	viewer, err := r.service.ResolveViewer(c.Request.Context(), in)
	if err != nil {
		return nil, err
	}
	c.Set(logger.GinCurrencyKey, viewer.Currency.String())
	c.Request = c.Request.WithContext(logger.WithCurrency(c.Request.Context(), viewer.Currency.String()))
	return viewer, nil
}
