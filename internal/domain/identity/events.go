package identity

import (
	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserRegistered  = "UserRegistered"
	EventTypeUserRoleChanged = "UserRoleChanged"
)

// UserRegisteredEvent is published when an account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID, u.TenantID),
		UserID:          u.ID,
		Email:           u.Email,
		Role:            u.Role,
	}
}

// UserRoleChangedEvent is published when role, category link or activation changes
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	UserID             uuid.UUID  `json:"user_id"`
	Role               Role       `json:"role"`
	ResellerCategoryID *uuid.UUID `json:"reseller_category_id,omitempty"`
	IsActive           bool       `json:"is_active"`
}

func NewUserRoleChangedEvent(u *User) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, u.ID, u.TenantID),
		UserID:             u.ID,
		Role:               u.Role,
		ResellerCategoryID: u.ResellerCategoryID,
		IsActive:           u.IsActive,
	}
}
