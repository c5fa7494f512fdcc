package reseller

import (
	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
)

const AggregateTypeResellerCategory = "ResellerCategory"

const (
	EventTypeResellerCategoryCreated = "ResellerCategoryCreated"
	EventTypeResellerCategoryUpdated = "ResellerCategoryUpdated"
	EventTypeResellerCategoryDeleted = "ResellerCategoryDeleted"
)

// ResellerCategoryCreatedEvent is published when a category is created
type ResellerCategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"reseller_category_id"`
	Name       string    `json:"name"`
	Currency   string    `json:"currency"`
	TierCount  int       `json:"tier_count"`
}

func NewResellerCategoryCreatedEvent(c *ResellerCategory) *ResellerCategoryCreatedEvent {
	return &ResellerCategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeResellerCategoryCreated, AggregateTypeResellerCategory, c.ID, c.TenantID),
		CategoryID:      c.ID,
		Name:            c.Name,
		Currency:        c.Currency.String(),
		TierCount:       len(c.Tiers),
	}
}

// ResellerCategoryUpdatedEvent is published after name, currency or tier edits
type ResellerCategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"reseller_category_id"`
	Currency   string    `json:"currency"`
	TierCount  int       `json:"tier_count"`
}

func NewResellerCategoryUpdatedEvent(c *ResellerCategory) *ResellerCategoryUpdatedEvent {
	return &ResellerCategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeResellerCategoryUpdated, AggregateTypeResellerCategory, c.ID, c.TenantID),
		CategoryID:      c.ID,
		Currency:        c.Currency.String(),
		TierCount:       len(c.Tiers),
	}
}

// ResellerCategoryDeletedEvent is published on soft delete
type ResellerCategoryDeletedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"reseller_category_id"`
}

func NewResellerCategoryDeletedEvent(c *ResellerCategory) *ResellerCategoryDeletedEvent {
	return &ResellerCategoryDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeResellerCategoryDeleted, AggregateTypeResellerCategory, c.ID, c.TenantID),
		CategoryID:      c.ID,
	}
}
