package promotion

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
)

// Promotion is a time-boxed discount campaign scoped to specific product
// variants. It is the aggregate root for campaign authoring.
type Promotion struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	IsActive    bool
	IsDeleted   bool
	Products    []PromotionProduct
}

// PromotionProduct lists the variant overrides of one product
type PromotionProduct struct {
	ProductID uuid.UUID
	Variants  []PromotionVariant
}

// PromotionVariant carries per-currency promo pricing for one variant.
// DiscountedPrice is derived from OriginalPrice and DiscountPercentage.
type PromotionVariant struct {
	VariantID          uuid.UUID
	OriginalPrice      valueobject.CurrencyPrices
	DiscountPercentage valueobject.CurrencyPrices
	DiscountedPrice    valueobject.CurrencyPrices
	IsActive           bool
}

// VariantInput is the authoring shape of a promotion variant
type VariantInput struct {
	VariantID          uuid.UUID
	OriginalPrice      valueobject.CurrencyPrices
	DiscountPercentage valueobject.CurrencyPrices
	IsActive           bool
}

// ProductInput is the authoring shape of a covered product
type ProductInput struct {
	ProductID uuid.UUID
	Variants  []VariantInput
}

// NewPromotion creates an inactive-by-default campaign. Pass active=true to
// publish it immediately.
func NewPromotion(tenantID uuid.UUID, name, description string, start, end time.Time, active bool, products []ProductInput) (*Promotion, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	built, err := buildProducts(products)
	if err != nil {
		return nil, err
	}

	p := &Promotion{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Description:         description,
		StartDate:           start,
		EndDate:             end,
		IsActive:            active,
		Products:            built,
	}
	p.AddDomainEvent(NewPromotionCreatedEvent(p))
	return p, nil
}

// IsSoftDeleted implements shared.SoftDeletable
func (p *Promotion) IsSoftDeleted() bool {
	return p.IsDeleted
}

// Update changes the display fields
func (p *Promotion) Update(name, description string) error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.touch()
	p.AddDomainEvent(NewPromotionUpdatedEvent(p))
	return nil
}

// Reschedule moves the active window
func (p *Promotion) Reschedule(start, end time.Time) error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	if err := validateWindow(start, end); err != nil {
		return err
	}
	p.StartDate = start
	p.EndDate = end
	p.touch()
	p.AddDomainEvent(NewPromotionUpdatedEvent(p))
	return nil
}

// ReplaceProducts swaps the covered product list, re-deriving discounted prices
func (p *Promotion) ReplaceProducts(products []ProductInput) error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	built, err := buildProducts(products)
	if err != nil {
		return err
	}
	p.Products = built
	p.touch()
	p.AddDomainEvent(NewPromotionUpdatedEvent(p))
	return nil
}

// Activate turns the campaign on. Activating an active campaign is a no-op.
func (p *Promotion) Activate() error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	if p.IsActive {
		return nil
	}
	p.IsActive = true
	p.touch()
	p.AddDomainEvent(NewPromotionActivatedEvent(p))
	return nil
}

// Deactivate turns the campaign off without touching its window
func (p *Promotion) Deactivate() error {
	if err := p.ensureNotDeleted(); err != nil {
		return err
	}
	if !p.IsActive {
		return nil
	}
	p.IsActive = false
	p.touch()
	p.AddDomainEvent(NewPromotionDeactivatedEvent(p))
	return nil
}

// SoftDelete flags the campaign. It is never removed from storage.
func (p *Promotion) SoftDelete() error {
	if p.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Promotion is already deleted")
	}
	p.IsDeleted = true
	p.IsActive = false
	p.touch()
	p.AddDomainEvent(NewPromotionDeletedEvent(p))
	return nil
}

// CoversVariant reports whether the campaign lists the variant, active or not
func (p *Promotion) CoversVariant(productID, variantID uuid.UUID) bool {
	for _, prod := range p.Products {
		if prod.ProductID != productID {
			continue
		}
		for _, v := range prod.Variants {
			if v.VariantID == variantID {
				return true
			}
		}
	}
	return false
}

// ProductIDs returns the covered product ids in list order
func (p *Promotion) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Products))
	for _, prod := range p.Products {
		ids = append(ids, prod.ProductID)
	}
	return ids
}

func (p *Promotion) ensureNotDeleted() error {
	if p.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a deleted promotion")
	}
	return nil
}

func (p *Promotion) touch() {
	p.Touch()
	p.IncrementVersion()
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Promotion name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Promotion name cannot exceed 200 characters")
	}
	return nil
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Promotion start and end dates are required")
	}
	if !end.After(start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Promotion end date must be after start date")
	}
	return nil
}

func buildProducts(inputs []ProductInput) ([]PromotionProduct, error) {
	seenProducts := make(map[uuid.UUID]struct{}, len(inputs))
	out := make([]PromotionProduct, 0, len(inputs))

	for _, in := range inputs {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Promotion product id is required")
		}
		if _, dup := seenProducts[in.ProductID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product "+in.ProductID.String()+" is listed twice")
		}
		seenProducts[in.ProductID] = struct{}{}

		seenVariants := make(map[uuid.UUID]struct{}, len(in.Variants))
		variants := make([]PromotionVariant, 0, len(in.Variants))
		for _, vi := range in.Variants {
			if vi.VariantID == uuid.Nil {
				return nil, shared.NewDomainError("INVALID_VARIANT", "Promotion variant id is required")
			}
			if _, dup := seenVariants[vi.VariantID]; dup {
				return nil, shared.NewDomainError("DUPLICATE_VARIANT", "Variant "+vi.VariantID.String()+" is listed twice")
			}
			seenVariants[vi.VariantID] = struct{}{}

			v, err := newPromotionVariant(vi)
			if err != nil {
				return nil, err
			}
			variants = append(variants, v)
		}
		out = append(out, PromotionProduct{ProductID: in.ProductID, Variants: variants})
	}
	return out, nil
}

func newPromotionVariant(in VariantInput) (PromotionVariant, error) {
	if err := in.OriginalPrice.ValidateNonNegative(); err != nil {
		return PromotionVariant{}, shared.NewDomainError("INVALID_PRICE", err.Error())
	}
	if err := in.DiscountPercentage.ValidatePercentages(); err != nil {
		return PromotionVariant{}, shared.NewDomainError("INVALID_DISCOUNT", err.Error())
	}

	discounted := make(valueobject.CurrencyPrices)
	for _, c := range in.DiscountPercentage.Currencies() {
		original, ok := in.OriginalPrice.Get(c)
		if !ok {
			continue
		}
		discounted[c] = c.ApplyPercentOff(original, in.DiscountPercentage[c])
	}

	return PromotionVariant{
		VariantID:          in.VariantID,
		OriginalPrice:      in.OriginalPrice.Clone(),
		DiscountPercentage: in.DiscountPercentage.Clone(),
		DiscountedPrice:    discounted,
		IsActive:           in.IsActive,
	}, nil
}
