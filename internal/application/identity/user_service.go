package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/identity"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages storefront and admin accounts
type UserService struct {
	userRepo     identity.UserRepository
	resellerRepo reseller.ResellerCategoryRepository
	logger       *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	resellerRepo reseller.ResellerCategoryRepository,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:     userRepo,
		resellerRepo: resellerRepo,
		logger:       logger,
	}
}

// Register creates a customer account from the storefront
func (s *UserService) Register(ctx context.Context, tenantID uuid.UUID, req RegisterRequest) (*UserResponse, error) {
	if err := s.ensureEmailFree(ctx, tenantID, req.Email); err != nil {
		return nil, err
	}
	user, err := identity.NewUser(tenantID, req.Email, req.Name, req.Password, identity.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Create creates an account of any role
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if err := s.ensureEmailFree(ctx, tenantID, req.Email); err != nil {
		return nil, err
	}

	var (
		user *identity.User
		err  error
	)
	if identity.Role(req.Role) == identity.RoleReseller {
		if req.ResellerCategoryID == nil {
			return nil, shared.NewDomainError("INVALID_RESELLER_CATEGORY", "Reseller category is required")
		}
		if err := s.ensureResellerCategory(ctx, tenantID, *req.ResellerCategoryID); err != nil {
			return nil, err
		}
		user, err = identity.NewReseller(tenantID, req.Email, req.Name, req.Password, *req.ResellerCategoryID)
	} else {
		user, err = identity.NewUser(tenantID, req.Email, req.Name, req.Password, identity.Role(req.Role))
	}
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID retrieves a user
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List retrieves users, optionally by role
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = identity.Role(filter.Role)
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses, total, nil
}

// ChangeRole moves a user to another role. Moving to reseller links the
// given reseller category; other roles drop any link.
func (s *UserService) ChangeRole(ctx context.Context, tenantID, id uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if identity.Role(req.Role) == identity.RoleReseller {
		if req.ResellerCategoryID == nil {
			return nil, shared.NewDomainError("INVALID_RESELLER_CATEGORY", "Reseller category is required")
		}
		if err := s.ensureResellerCategory(ctx, tenantID, *req.ResellerCategoryID); err != nil {
			return nil, err
		}
		err = user.MakeReseller(*req.ResellerCategoryID)
	} else {
		err = user.ChangeRole(identity.Role(req.Role))
	}
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// SetActive enables or blocks login for a user
func (s *UserService) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if active {
		user.Activate()
	} else {
		user.Deactivate()
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, tenantID uuid.UUID, email string) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, tenantID, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}
	return nil
}

func (s *UserService) ensureResellerCategory(ctx context.Context, tenantID, id uuid.UUID) error {
	category, err := s.resellerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_RESELLER_CATEGORY", "Reseller category not found")
		}
		return err
	}
	if category.IsDeleted {
		return shared.NewDomainError("INVALID_RESELLER_CATEGORY", "Reseller category not found")
	}
	return nil
}
