package handler

import (
	"github.com/gin-gonic/gin"
	pricingapp "github.com/petshop/backend/internal/application/pricing"
	"github.com/petshop/backend/internal/domain/shared"
)

// StorefrontHandler serves viewer-priced catalog endpoints
type StorefrontHandler struct {
	BaseHandler
	pricingService *pricingapp.StorefrontPricingService
	viewers        *ViewerResolver
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(pricingService *pricingapp.StorefrontPricingService, viewers *ViewerResolver) *StorefrontHandler {
	return &StorefrontHandler{
		pricingService: pricingService,
		viewers:        viewers,
	}
}

func (h *StorefrontHandler) viewer(c *gin.Context) (*pricingapp.Viewer, bool) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return nil, false
	}
	viewer, err := h.viewers.Resolve(c, tenantID)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return viewer, true
}

// ListProducts handles GET /storefront/products. Each card carries the
// lowest variant price for the viewer.
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	var filter pricingapp.ListingFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}

	items, total, err := h.pricingService.ListProductPrices(c.Request.Context(), viewer, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetProductPrices handles GET /storefront/products/:id/prices
func (h *StorefrontHandler) GetProductPrices(c *gin.Context) {
	productID, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}

	prices, err := h.pricingService.GetProductPrices(c.Request.Context(), viewer, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}

// GetVariantPrice handles GET /storefront/products/:id/variants/:variant_id/price
func (h *StorefrontHandler) GetVariantPrice(c *gin.Context) {
	productID, ok := h.pathID(c, "id", "product")
	if !ok {
		return
	}
	variantID, ok := h.pathID(c, "variant_id", "variant")
	if !ok {
		return
	}
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}

	price, err := h.pricingService.GetVariantPrice(c.Request.Context(), viewer, productID, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, price)
}

// QuoteReseller handles POST /storefront/reseller-quote
func (h *StorefrontHandler) QuoteReseller(c *gin.Context) {
	var req pricingapp.QuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	viewer, ok := h.viewer(c)
	if !ok {
		return
	}
	if viewer.UserID == nil {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}

	quote, err := h.pricingService.QuoteReseller(c.Request.Context(), viewer, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}
