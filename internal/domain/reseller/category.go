package reseller

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// scopeAll is the wire form of a tier that applies to every product category
const scopeAll = "all"

// CategoryScope restricts a tier to product categories. The zero value
// matches nothing; use AllCategories or CategoriesOf.
type CategoryScope struct {
	All         bool
	CategoryIDs []uuid.UUID
}

// AllCategories returns a scope matching every product
func AllCategories() CategoryScope {
	return CategoryScope{All: true}
}

// CategoriesOf returns a scope matching the given product categories
func CategoriesOf(ids ...uuid.UUID) CategoryScope {
	return CategoryScope{CategoryIDs: append([]uuid.UUID(nil), ids...)}
}

// Includes reports whether a product in categoryID falls under the scope
func (s CategoryScope) Includes(categoryID uuid.UUID) bool {
	if s.All {
		return true
	}
	for _, id := range s.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// MarshalJSON writes "all" or an array of ids
func (s CategoryScope) MarshalJSON() ([]byte, error) {
	if s.All {
		return json.Marshal(scopeAll)
	}
	ids := s.CategoryIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return json.Marshal(ids)
}

// UnmarshalJSON accepts "all", null (treated as "all") or an array of ids
func (s *CategoryScope) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = AllCategories()
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if !strings.EqualFold(single, scopeAll) {
			return shared.NewDomainError("INVALID_SCOPE", "category scope must be \"all\" or a list of category ids")
		}
		*s = AllCategories()
		return nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return shared.NewDomainError("INVALID_SCOPE", "category scope must be \"all\" or a list of category ids")
	}
	*s = CategoriesOf(ids...)
	return nil
}

// TierDiscount is one quantity bracket of a reseller category
type TierDiscount struct {
	MinimumQuantity int             `json:"minimum_quantity"`
	Discount        decimal.Decimal `json:"discount"`
	CategoryProduct CategoryScope   `json:"category_product"`
}

// Validate checks the tier bounds
func (t TierDiscount) Validate() error {
	if t.MinimumQuantity < 0 {
		return shared.NewDomainError("INVALID_TIER", "Tier minimum quantity cannot be negative")
	}
	if t.Discount.IsNegative() || t.Discount.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TIER", "Tier discount must be between 0 and 100")
	}
	if !t.CategoryProduct.All && len(t.CategoryProduct.CategoryIDs) == 0 {
		return shared.NewDomainError("INVALID_TIER", "Tier must apply to all categories or list at least one")
	}
	return nil
}

// ResellerCategory groups resellers that share a currency and tier list.
// Tiers keep their declared order.
type ResellerCategory struct {
	shared.TenantAggregateRoot
	Name      string
	Currency  valueobject.Currency
	Tiers     []TierDiscount
	IsDeleted bool
}

// NewResellerCategory creates a reseller category
func NewResellerCategory(tenantID uuid.UUID, name, currency string, tiers []TierDiscount) (*ResellerCategory, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	if err := validateTiers(tiers); err != nil {
		return nil, err
	}

	c := &ResellerCategory{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Currency:            cur,
		Tiers:               append([]TierDiscount(nil), tiers...),
	}
	c.AddDomainEvent(NewResellerCategoryCreatedEvent(c))
	return c, nil
}

// IsSoftDeleted implements shared.SoftDeletable
func (c *ResellerCategory) IsSoftDeleted() bool {
	return c.IsDeleted
}

// Rename changes the category name
func (c *ResellerCategory) Rename(name string) error {
	if err := c.ensureNotDeleted(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.touch()
	return nil
}

// ChangeCurrency switches the currency every member is priced in
func (c *ResellerCategory) ChangeCurrency(currency string) error {
	if err := c.ensureNotDeleted(); err != nil {
		return err
	}
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	c.Currency = cur
	c.touch()
	return nil
}

// ReplaceTiers swaps the tier list, keeping the given order
func (c *ResellerCategory) ReplaceTiers(tiers []TierDiscount) error {
	if err := c.ensureNotDeleted(); err != nil {
		return err
	}
	if err := validateTiers(tiers); err != nil {
		return err
	}
	c.Tiers = append([]TierDiscount(nil), tiers...)
	c.touch()
	return nil
}

// SoftDelete flags the category
func (c *ResellerCategory) SoftDelete() error {
	if c.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Reseller category is already deleted")
	}
	c.IsDeleted = true
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewResellerCategoryDeletedEvent(c))
	return nil
}

func (c *ResellerCategory) ensureNotDeleted() error {
	if c.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a deleted reseller category")
	}
	return nil
}

func (c *ResellerCategory) touch() {
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewResellerCategoryUpdatedEvent(c))
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Reseller category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Reseller category name cannot exceed 100 characters")
	}
	return nil
}

func validateTiers(tiers []TierDiscount) error {
	for _, t := range tiers {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
