package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderLineRequest asks for a quantity of one variant
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=10000"`
}

// PlaceOrderRequest is a direct order without a cart. Lines for the same
// variant are merged before pricing.
type PlaceOrderRequest struct {
	Items []OrderLineRequest `json:"items" binding:"required,min=1,max=100,dive"`
	Note  string             `json:"note" binding:"max=1000"`
}

// UpdateStatusRequest moves an order through its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=paid shipped completed cancelled"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search   string     `form:"search" binding:"max=100"`
	Status   string     `form:"status" binding:"omitempty,oneof=pending paid shipped completed cancelled"`
	UserID   *uuid.UUID `form:"user_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Requester identifies who is reading orders. Non-admins only see their own.
type Requester struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ProductID          uuid.UUID       `json:"product_id"`
	VariantID          uuid.UUID       `json:"variant_id"`
	ProductName        string          `json:"product_name"`
	SKU                string          `json:"sku"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	OriginalUnitPrice  decimal.Decimal `json:"original_unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	LineTotal          decimal.Decimal `json:"line_total"`
	AppliedRule        string          `json:"applied_rule,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	OrderNumber string              `json:"order_number"`
	UserID      uuid.UUID           `json:"user_id"`
	Currency    string              `json:"currency"`
	PricingMode string              `json:"pricing_mode"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	ItemCount   int                 `json:"item_count"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Discount    decimal.Decimal     `json:"discount"`
	Total       decimal.Decimal     `json:"total"`
	Note        string              `json:"note,omitempty"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	ShippedAt   *time.Time          `json:"shipped_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:          it.ProductID,
			VariantID:          it.VariantID,
			ProductName:        it.ProductName,
			SKU:                it.SKU,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			OriginalUnitPrice:  it.OriginalUnitPrice,
			DiscountPercentage: it.DiscountPercentage,
			LineTotal:          it.LineTotal,
			AppliedRule:        it.AppliedRule,
		}
	}
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Currency:    o.Currency.String(),
		PricingMode: string(o.PricingMode),
		Status:      string(o.Status),
		Items:       items,
		ItemCount:   o.ItemCount(),
		Subtotal:    o.Subtotal,
		Discount:    o.Discount,
		Total:       o.Total,
		Note:        o.Note,
		PaidAt:      o.PaidAt,
		ShippedAt:   o.ShippedAt,
		CompletedAt: o.CompletedAt,
		CancelledAt: o.CancelledAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
