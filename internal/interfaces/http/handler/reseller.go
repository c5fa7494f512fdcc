package handler

import (
	"github.com/gin-gonic/gin"
	resellerapp "github.com/petshop/backend/internal/application/reseller"
)

// ResellerCategoryHandler handles reseller category administration
type ResellerCategoryHandler struct {
	BaseHandler
	categoryService *resellerapp.ResellerCategoryService
}

// NewResellerCategoryHandler creates a new ResellerCategoryHandler
func NewResellerCategoryHandler(categoryService *resellerapp.ResellerCategoryService) *ResellerCategoryHandler {
	return &ResellerCategoryHandler{categoryService: categoryService}
}

// Create handles POST /admin/reseller-categories
func (h *ResellerCategoryHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req resellerapp.CreateResellerCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = actor(c)

	category, err := h.categoryService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// GetByID handles GET /admin/reseller-categories/:id
func (h *ResellerCategoryHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "reseller category")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// List handles GET /admin/reseller-categories
func (h *ResellerCategoryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter resellerapp.ResellerCategoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	categories, total, err := h.categoryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, categories, total, filter.Page, filter.PageSize)
}

// Update handles PUT /admin/reseller-categories/:id
func (h *ResellerCategoryHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "reseller category")
	if !ok {
		return
	}
	var req resellerapp.UpdateResellerCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// ReplaceTiers handles PUT /admin/reseller-categories/:id/tiers
func (h *ResellerCategoryHandler) ReplaceTiers(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "reseller category")
	if !ok {
		return
	}
	var req resellerapp.ReplaceTiersRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.ReplaceTiers(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete handles DELETE /admin/reseller-categories/:id
func (h *ResellerCategoryHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "reseller category")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
