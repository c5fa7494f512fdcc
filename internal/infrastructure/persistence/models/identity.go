package models

import (
	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	TenantAggregateModel
	Email              string        `gorm:"type:varchar(200);not null;index"`
	Name               string        `gorm:"type:varchar(100);not null"`
	PasswordHash       string        `gorm:"type:varchar(255);not null"`
	Role               identity.Role `gorm:"type:varchar(20);not null;default:'customer'"`
	ResellerCategoryID *uuid.UUID    `gorm:"type:uuid;index"`
	IsActive           bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Email:              m.Email,
		Name:               m.Name,
		PasswordHash:       m.PasswordHash,
		Role:               m.Role,
		ResellerCategoryID: m.ResellerCategoryID,
		IsActive:           m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&u.TenantAggregateRoot)
	return u
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:              u.Email,
		Name:               u.Name,
		PasswordHash:       u.PasswordHash,
		Role:               u.Role,
		ResellerCategoryID: u.ResellerCategoryID,
		IsActive:           u.IsActive,
	}
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	return m
}
