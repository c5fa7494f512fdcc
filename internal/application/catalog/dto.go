package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/catalog"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=1000"`
	SortOrder   *int       `json:"sort_order"`
	CreatedBy   *uuid.UUID `json:"-"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryListFilter represents filter options for category list
type CategoryListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// VariantRequest is the authoring shape of a variant
type VariantRequest struct {
	ID    *uuid.UUID                 `json:"id"`
	SKU   string                     `json:"sku" binding:"required,min=1,max=64"`
	Name  string                     `json:"name" binding:"required,min=1,max=100"`
	Price valueobject.CurrencyPrices `json:"price" binding:"required"`
	Stock int                        `json:"stock" binding:"min=0"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=5000"`
	CategoryID  uuid.UUID        `json:"category_id" binding:"required"`
	Variants    []VariantRequest `json:"variants" binding:"required,min=1,dive"`
	CreatedBy   *uuid.UUID       `json:"-"`
}

// UpdateProductRequest represents a request to update a product. A nil
// Variants keeps the current variant list.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Variants    []VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// ProductListFilter represents filter options for the admin product list
type ProductListFilter struct {
	Search     string     `form:"search" binding:"max=100"`
	CategoryID *uuid.UUID `form:"category_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=active inactive"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StockUpdate sets the stock of one SKU
type StockUpdate struct {
	SKU   string `json:"sku" binding:"required"`
	Stock int    `json:"stock" binding:"min=0"`
}

// BulkStockRequest updates the stock of many SKUs at once
type BulkStockRequest struct {
	Items []StockUpdate `json:"items" binding:"required,min=1,max=500,dive"`
}

// StockUpdateResult reports the outcome for one SKU
type StockUpdateResult struct {
	SKU     string `json:"sku"`
	Updated bool   `json:"updated"`
	Error   string `json:"error,omitempty"`
}

// VariantResponse represents a variant in API responses
type VariantResponse struct {
	ID    uuid.UUID                  `json:"id"`
	SKU   string                     `json:"sku"`
	Name  string                     `json:"name"`
	Price valueobject.CurrencyPrices `json:"price"`
	Stock int                        `json:"stock"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	CategoryID  uuid.UUID         `json:"category_id"`
	Status      string            `json:"status"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Version     int               `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	variants := make([]VariantResponse, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = VariantResponse{
			ID:    v.ID,
			SKU:   v.SKU,
			Name:  v.Name,
			Price: v.Price.Clone(),
			Stock: v.Stock,
		}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Status:      string(p.Status),
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

func toVariantInputs(reqs []VariantRequest) []catalog.VariantInput {
	inputs := make([]catalog.VariantInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = catalog.VariantInput{
			SKU:   r.SKU,
			Name:  r.Name,
			Price: r.Price,
			Stock: r.Stock,
		}
		if r.ID != nil {
			inputs[i].ID = *r.ID
		}
	}
	return inputs
}

func paging(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return page, pageSize
}
