package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/petshop/backend/internal/application/order"
	"github.com/petshop/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order endpoints for shoppers and admins
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
	viewers      *ViewerResolver
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService, viewers *ViewerResolver) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		viewers:      viewers,
	}
}

// requester describes the authenticated caller for read scoping
func (h *OrderHandler) requester(c *gin.Context) (orderapp.Requester, bool) {
	userID, ok := getUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return orderapp.Requester{}, false
	}
	return orderapp.Requester{UserID: userID, IsAdmin: middleware.GetJWTRole(c) == "admin"}, true
}

// Place handles POST /orders. Lines are priced for the caller at the moment
// of the request and stock is reserved in the same transaction.
func (h *OrderHandler) Place(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req orderapp.PlaceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	viewer, err := h.viewers.Resolve(c, tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.orderService.PlaceDirectOrder(c.Request.Context(), viewer, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	who, ok := h.requester(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, who, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /orders and GET /admin/orders. Non-admins only ever see
// their own orders.
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	who, ok := h.requester(c)
	if !ok {
		return
	}
	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, who, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// UpdateStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}
	var req orderapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
