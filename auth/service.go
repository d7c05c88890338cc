package auth

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/repositories"
	"github.com/dookan/catalog-backend/services"
	"github.com/dookan/catalog-backend/utils"
)

// PasswordMinLength is the minimum accepted password length
const PasswordMinLength = 8

// Service implements registration, login, and profile management
type Service struct {
	users  repositories.UserRepository
	tokens *TokenManager
	logger *zap.Logger
}

// NewService creates a new auth service
func NewService(users repositories.UserRepository, tokens *TokenManager, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// TokenPair is one access token plus its paired refresh token
type TokenPair struct {
	Access  string
	Refresh string
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	var errs []string
	if err := utils.ValidateEmail(email); err != nil {
		errs = append(errs, "Email address is not valid")
	}
	if len(password) < PasswordMinLength {
		errs = append(errs, "Password must be at least 8 characters")
	}
	if name == "" {
		errs = append(errs, "Missing required field: name")
	}
	if len(errs) > 0 {
		return nil, services.NewValidationError(errs)
	}

	user, err := models.NewUser(email, password, name)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to hash password", err)
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", created.ID.Hex()))
	return created, nil
}

// Login verifies the credentials, stamps last_login, and issues a token
// pair. Unknown email and wrong password return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if services.IsNotFoundError(err) {
			return nil, nil, services.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.CheckPassword(password) {
		return nil, nil, services.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID.Hex(), now); err != nil {
		s.logger.Warn("failed to stamp last login",
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
	}
	user.LastLogin = &now

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token and rotates the whole pair. The user is
// re-read so a deleted account cannot refresh its session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := s.tokens.Validate(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if services.IsNotFoundError(err) {
			return nil, nil, services.ErrInvalidToken
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Profile returns the user behind an actor id
func (s *Service) Profile(ctx context.Context, actorID string) (*models.User, error) {
	return s.users.GetByID(ctx, actorID)
}

// UpdateProfile changes the display name and/or password
func (s *Service) UpdateProfile(ctx context.Context, actorID string, name, password *string) (*models.User, error) {
	var errs []string
	if name != nil && strings.TrimSpace(*name) == "" {
		errs = append(errs, "Name must not be empty")
	}
	if password != nil && len(*password) < PasswordMinLength {
		errs = append(errs, "Password must be at least 8 characters")
	}
	if name == nil && password == nil {
		errs = append(errs, "No fields to update")
	}
	if len(errs) > 0 {
		return nil, services.NewValidationError(errs)
	}

	var trimmedName *string
	if name != nil {
		n := strings.TrimSpace(*name)
		trimmedName = &n
	}

	var passwordHash *string
	if password != nil {
		scratch := &models.User{}
		if err := scratch.SetPassword(*password); err != nil {
			return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to hash password", err)
		}
		passwordHash = &scratch.PasswordHash
	}

	return s.users.UpdateProfile(ctx, actorID, trimmedName, passwordHash)
}

func (s *Service) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user.ID.Hex(), user.Name)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to sign access token", err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID.Hex(), user.Name)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeInternal, "failed to sign refresh token", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}
