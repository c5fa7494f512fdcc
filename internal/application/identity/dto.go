package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/identity"
)

// LoginInput contains login credentials
type LoginInput struct {
	TenantID uuid.UUID `json:"-"`
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required"`
}

// LoginResult is a successful login
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// RegisterRequest is a storefront sign-up. It always creates a customer.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// CreateUserRequest is an admin-created account of any role. Resellers need
// ResellerCategoryID.
type CreateUserRequest struct {
	Email              string     `json:"email" binding:"required,email,max=255"`
	Name               string     `json:"name" binding:"required,min=1,max=100"`
	Password           string     `json:"password" binding:"required,min=8,max=72"`
	Role               string     `json:"role" binding:"required,oneof=customer reseller admin"`
	ResellerCategoryID *uuid.UUID `json:"reseller_category_id"`
}

// ChangeRoleRequest moves a user to another role
type ChangeRoleRequest struct {
	Role               string     `json:"role" binding:"required,oneof=customer reseller admin"`
	ResellerCategoryID *uuid.UUID `json:"reseller_category_id"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Role     string `form:"role" binding:"omitempty,oneof=customer reseller admin"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Role               string     `json:"role"`
	ResellerCategoryID *uuid.UUID `json:"reseller_category_id,omitempty"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               string(u.Role),
		ResellerCategoryID: u.ResellerCategoryID,
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
