package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the storefront visibility of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid returns true if the status is known
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Variant is a purchasable option of a product (size, flavour, colour)
// with its own base price per currency.
type Variant struct {
	ID    uuid.UUID
	SKU   string
	Name  string
	Price valueobject.CurrencyPrices
	Stock int
}

// VariantInput is the authoring shape of a variant. A nil ID creates a new
// variant; an existing ID keeps the variant's identity.
type VariantInput struct {
	ID    uuid.UUID
	SKU   string
	Name  string
	Price valueobject.CurrencyPrices
	Stock int
}

// Product is the aggregate root for a catalog item and its variants
type Product struct {
	shared.TenantAggregateRoot
	Name        string
	Slug        string
	Description string
	CategoryID  uuid.UUID
	Status      ProductStatus
	IsDeleted   bool
	Variants    []Variant
}

// NewProduct creates an active product
func NewProduct(tenantID uuid.UUID, name, description string, categoryID uuid.UUID, variants []VariantInput) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product category is required")
	}
	built, err := buildVariants(variants)
	if err != nil {
		return nil, err
	}

	p := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Slug:                slug.Make(name),
		Description:         description,
		CategoryID:          categoryID,
		Status:              ProductStatusActive,
		Variants:            built,
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// IsSoftDeleted implements shared.SoftDeletable
func (p *Product) IsSoftDeleted() bool {
	return p.IsDeleted
}

// IsActive reports whether the product is visible on the storefront
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive && !p.IsDeleted
}

// Update changes the descriptive fields and category
func (p *Product) Update(name, description string, categoryID uuid.UUID) error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	if err := validateProductName(name); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Product category is required")
	}
	p.Name = strings.TrimSpace(name)
	p.Slug = slug.Make(name)
	p.Description = description
	p.CategoryID = categoryID
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// ReplaceVariants swaps the variant list
func (p *Product) ReplaceVariants(variants []VariantInput) error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	built, err := buildVariants(variants)
	if err != nil {
		return err
	}
	p.Variants = built
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// Activate shows the product on the storefront
func (p *Product) Activate() error {
	return p.setStatus(ProductStatusActive)
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() error {
	return p.setStatus(ProductStatusInactive)
}

func (p *Product) setStatus(status ProductStatus) error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	if p.Status == status {
		return nil
	}
	old := p.Status
	p.Status = status
	p.touch()
	p.AddDomainEvent(NewProductStatusChangedEvent(p, old, status))
	return nil
}

// SoftDelete flags the product
func (p *Product) SoftDelete() error {
	if p.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Product is already deleted")
	}
	p.IsDeleted = true
	p.touch()
	p.AddDomainEvent(NewProductDeletedEvent(p))
	return nil
}

// FindVariant returns the variant with the given id
func (p *Product) FindVariant(id uuid.UUID) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// FindVariantBySKU returns the variant with the given SKU (case-insensitive)
func (p *Product) FindVariantBySKU(sku string) (*Variant, bool) {
	sku = normalizeSKU(sku)
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// SetStock overwrites a variant's stock level
func (p *Product) SetStock(sku string, stock int) error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	v, ok := p.FindVariantBySKU(sku)
	if !ok {
		return shared.NewDomainError("NOT_FOUND", "Variant "+sku+" not found")
	}
	v.Stock = stock
	p.touch()
	return nil
}

// DecreaseStock takes quantity units of a variant out of stock
func (p *Product) DecreaseStock(variantID uuid.UUID, quantity int) error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	v, ok := p.FindVariant(variantID)
	if !ok {
		return shared.NewDomainError("NOT_FOUND", "Variant not found")
	}
	if v.Stock < quantity {
		return shared.ErrInsufficientStock
	}
	v.Stock -= quantity
	p.touch()
	return nil
}

// RestoreStock puts units back, e.g. when an order is cancelled. A variant
// removed since the order was placed is skipped.
func (p *Product) RestoreStock(variantID uuid.UUID, quantity int) {
	if quantity <= 0 {
		return
	}
	v, ok := p.FindVariant(variantID)
	if !ok {
		return
	}
	v.Stock += quantity
	p.touch()
}

func (p *Product) ensureNotDeleted() error {
	if p.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a deleted product")
	}
	return nil
}

func (p *Product) touch() {
	p.Touch()
	p.IncrementVersion()
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

func buildVariants(inputs []VariantInput) ([]Variant, error) {
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("INVALID_VARIANTS", "Product needs at least one variant")
	}
	seen := make(map[string]struct{}, len(inputs))
	out := make([]Variant, 0, len(inputs))
	for _, in := range inputs {
		sku := normalizeSKU(in.SKU)
		if sku == "" {
			return nil, shared.NewDomainError("INVALID_SKU", "Variant SKU cannot be empty")
		}
		if len(sku) > 64 {
			return nil, shared.NewDomainError("INVALID_SKU", "Variant SKU cannot exceed 64 characters")
		}
		if _, dup := seen[sku]; dup {
			return nil, shared.NewDomainError("DUPLICATE_SKU", "Variant SKU "+sku+" is used twice")
		}
		seen[sku] = struct{}{}
		if in.Stock < 0 {
			return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
		}
		if err := in.Price.ValidateNonNegative(); err != nil {
			return nil, shared.NewDomainError("INVALID_PRICE", err.Error())
		}
		id := in.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		out = append(out, Variant{
			ID:    id,
			SKU:   sku,
			Name:  strings.TrimSpace(in.Name),
			Price: in.Price.Clone(),
			Stock: in.Stock,
		})
	}
	return out, nil
}
