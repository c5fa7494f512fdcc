package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/petshop/backend/internal/domain/identity"
	"github.com/petshop/backend/internal/domain/shared"
	"github.com/petshop/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenIssuer issues access tokens for authenticated users
type TokenIssuer interface {
	GenerateAccessToken(input auth.GenerateTokenInput) (*auth.AccessToken, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo identity.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login authenticates a user and returns an access token. Unknown email and
// wrong password give the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Login attempt", zap.String("email", email), zap.String("tenant_id", input.TenantID.String()))

	user, err := s.userRepo.FindByEmail(ctx, input.TenantID, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("email", email))
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !user.IsActive {
		s.logger.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	token, err := s.tokens.GenerateAccessToken(auth.GenerateTokenInput{
		TenantID:           user.TenantID,
		UserID:             user.ID,
		Email:              user.Email,
		Role:               string(user.Role),
		ResellerCategoryID: user.ResellerCategoryID,
	})
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate access token")
	}

	s.logger.Info("Login successful",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return &LoginResult{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}
