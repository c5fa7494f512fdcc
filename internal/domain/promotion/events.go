package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
)

// AggregateTypePromotion names the aggregate in emitted events
const AggregateTypePromotion = "Promotion"

const (
	EventTypePromotionCreated     = "PromotionCreated"
	EventTypePromotionUpdated     = "PromotionUpdated"
	EventTypePromotionActivated   = "PromotionActivated"
	EventTypePromotionDeactivated = "PromotionDeactivated"
	EventTypePromotionDeleted     = "PromotionDeleted"
)

// PromotionCreatedEvent is published when a campaign is authored
type PromotionCreatedEvent struct {
	shared.BaseDomainEvent
	PromotionID uuid.UUID `json:"promotion_id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
}

func NewPromotionCreatedEvent(p *Promotion) *PromotionCreatedEvent {
	return &PromotionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePromotionCreated, AggregateTypePromotion, p.ID, p.TenantID),
		PromotionID:     p.ID,
		Name:            p.Name,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		IsActive:        p.IsActive,
	}
}

// PromotionUpdatedEvent covers edits to name, window or product list
type PromotionUpdatedEvent struct {
	shared.BaseDomainEvent
	PromotionID  uuid.UUID `json:"promotion_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	ProductCount int       `json:"product_count"`
}

func NewPromotionUpdatedEvent(p *Promotion) *PromotionUpdatedEvent {
	return &PromotionUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePromotionUpdated, AggregateTypePromotion, p.ID, p.TenantID),
		PromotionID:     p.ID,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		ProductCount:    len(p.Products),
	}
}

// PromotionActivatedEvent is published when the activation toggle turns on
type PromotionActivatedEvent struct {
	shared.BaseDomainEvent
	PromotionID uuid.UUID `json:"promotion_id"`
}

func NewPromotionActivatedEvent(p *Promotion) *PromotionActivatedEvent {
	return &PromotionActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePromotionActivated, AggregateTypePromotion, p.ID, p.TenantID),
		PromotionID:     p.ID,
	}
}

// PromotionDeactivatedEvent is published when the activation toggle turns off
type PromotionDeactivatedEvent struct {
	shared.BaseDomainEvent
	PromotionID uuid.UUID `json:"promotion_id"`
}

func NewPromotionDeactivatedEvent(p *Promotion) *PromotionDeactivatedEvent {
	return &PromotionDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePromotionDeactivated, AggregateTypePromotion, p.ID, p.TenantID),
		PromotionID:     p.ID,
	}
}

// PromotionDeletedEvent is published on soft delete
type PromotionDeletedEvent struct {
	shared.BaseDomainEvent
	PromotionID uuid.UUID `json:"promotion_id"`
}

func NewPromotionDeletedEvent(p *Promotion) *PromotionDeletedEvent {
	return &PromotionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePromotionDeleted, AggregateTypePromotion, p.ID, p.TenantID),
		PromotionID:     p.ID,
	}
}
