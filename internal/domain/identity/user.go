package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the commercial role of a storefront account
type Role string

const (
	RoleCustomer Role = "customer"
	RoleReseller Role = "reseller"
	RoleAdmin    Role = "admin"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleReseller, RoleAdmin:
		return true
	default:
		return false
	}
}

// passwordCost is the bcrypt cost for new hashes
var passwordCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a storefront or admin account.
// A reseller is linked to exactly one reseller category; other roles have none.
type User struct {
	shared.TenantAggregateRoot
	Email              string
	Name               string
	PasswordHash       string
	Role               Role
	ResellerCategoryID *uuid.UUID
	IsActive           bool
}

// NewUser creates a customer or admin account. Resellers are created with
// NewReseller so the category link is never missing.
func NewUser(tenantID uuid.UUID, email, name, password string, role Role) (*User, error) {
	if role == RoleReseller {
		return nil, shared.NewDomainError("INVALID_ROLE", "Resellers must be created with a reseller category")
	}
	return newUser(tenantID, email, name, password, role, nil)
}

// NewReseller creates a reseller account linked to a reseller category
func NewReseller(tenantID uuid.UUID, email, name, password string, resellerCategoryID uuid.UUID) (*User, error) {
	if resellerCategoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESELLER_CATEGORY", "Reseller category is required")
	}
	return newUser(tenantID, email, name, password, RoleReseller, &resellerCategoryID)
}

func newUser(tenantID uuid.UUID, email, name, password string, role Role, categoryID *uuid.UUID) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role "+string(role))
	}

	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		Name:                strings.TrimSpace(name),
		Role:                role,
		ResellerCategoryID:  categoryID,
		IsActive:            true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	u.ClearDomainEvents()
	u.AddDomainEvent(NewUserRegisteredEvent(u))
	return u, nil
}

// IsReseller reports whether the account is priced by reseller tiers
func (u *User) IsReseller() bool {
	return u.Role == RoleReseller && u.ResellerCategoryID != nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// MakeReseller switches the account to reseller pricing under a category
func (u *User) MakeReseller(resellerCategoryID uuid.UUID) error {
	if resellerCategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_RESELLER_CATEGORY", "Reseller category is required")
	}
	u.Role = RoleReseller
	u.ResellerCategoryID = &resellerCategoryID
	u.changed()
	return nil
}

// ChangeRole moves the account to a non-reseller role and drops any
// reseller category link.
func (u *User) ChangeRole(role Role) error {
	if role == RoleReseller {
		return shared.NewDomainError("INVALID_ROLE", "Use MakeReseller to assign a reseller category")
	}
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role "+string(role))
	}
	u.Role = role
	u.ResellerCategoryID = nil
	u.changed()
	return nil
}

// Deactivate blocks login
func (u *User) Deactivate() {
	if !u.IsActive {
		return
	}
	u.IsActive = false
	u.changed()
}

// Activate re-enables login
func (u *User) Activate() {
	if u.IsActive {
		return
	}
	u.IsActive = true
	u.changed()
}

func (u *User) changed() {
	u.Touch()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserRoleChangedEvent(u))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt ignores bytes past 72
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
