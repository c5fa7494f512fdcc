package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	promotionapp "github.com/petshop/backend/internal/application/promotion"
)

// PromotionHandler handles promotion administration. Every write drops the
// tenant's active-promotion snapshot.
type PromotionHandler struct {
	BaseHandler
	promotionService *promotionapp.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler
func NewPromotionHandler(promotionService *promotionapp.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// Create handles POST /admin/promotions
func (h *PromotionHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req promotionapp.CreatePromotionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = actor(c)

	promo, err := h.promotionService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, promo)
}

// GetByID handles GET /admin/promotions/:id
func (h *PromotionHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "promotion")
	if !ok {
		return
	}

	promo, err := h.promotionService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promo)
}

// List handles GET /admin/promotions
func (h *PromotionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter promotionapp.PromotionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	promos, total, err := h.promotionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, promos, total, filter.Page, filter.PageSize)
}

// Update handles PUT /admin/promotions/:id
func (h *PromotionHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "promotion")
	if !ok {
		return
	}
	var req promotionapp.UpdatePromotionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	promo, err := h.promotionService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promo)
}

// Reschedule handles PUT /admin/promotions/:id/schedule
func (h *PromotionHandler) Reschedule(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "promotion")
	if !ok {
		return
	}
	var req promotionapp.RescheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	promo, err := h.promotionService.Reschedule(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promo)
}

// ReplaceProducts handles PUT /admin/promotions/:id/products
func (h *PromotionHandler) ReplaceProducts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "promotion")
	if !ok {
		return
	}
	var req promotionapp.ReplaceProductsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	promo, err := h.promotionService.ReplaceProducts(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promo)
}

// Activate handles POST /admin/promotions/:id/activate
func (h *PromotionHandler) Activate(c *gin.Context) {
	h.toggle(c, h.promotionService.Activate)
}

// Deactivate handles POST /admin/promotions/:id/deactivate
func (h *PromotionHandler) Deactivate(c *gin.Context) {
	h.toggle(c, h.promotionService.Deactivate)
}

func (h *PromotionHandler) toggle(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (*promotionapp.PromotionResponse, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "promotion")
	if !ok {
		return
	}

	promo, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promo)
}

// Delete handles DELETE /admin/promotions/:id
func (h *PromotionHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "promotion")
	if !ok {
		return
	}

	if err := h.promotionService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
