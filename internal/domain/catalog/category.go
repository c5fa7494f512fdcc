package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/petshop/backend/internal/domain/shared"
)

// Category groups storefront products (dog food, cat litter, aquarium...).
// Reseller tiers can be scoped to categories.
type Category struct {
	shared.TenantAggregateRoot
	Name        string
	Slug        string
	Description string
	SortOrder   int
	IsDeleted   bool
}

// NewCategory creates a category with a slug derived from its name
func NewCategory(tenantID uuid.UUID, name, description string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	c := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Slug:                slug.Make(name),
		Description:         description,
	}
	c.AddDomainEvent(NewCategoryCreatedEvent(c))
	return c, nil
}

// IsSoftDeleted implements shared.SoftDeletable
func (c *Category) IsSoftDeleted() bool {
	return c.IsDeleted
}

// Update renames the category and regenerates its slug
func (c *Category) Update(name, description string) error {
	if c.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a deleted category")
	}
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Slug = slug.Make(name)
	c.Description = description
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewCategoryUpdatedEvent(c))
	return nil
}

func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.Touch()
	c.IncrementVersion()
}

// SoftDelete flags the category
func (c *Category) SoftDelete() error {
	if c.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Category is already deleted")
	}
	c.IsDeleted = true
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewCategoryDeletedEvent(c))
	return nil
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	if slug.Make(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name must contain letters or digits")
	}
	return nil
}
