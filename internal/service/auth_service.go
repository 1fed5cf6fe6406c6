package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cmrpai/internal/auth"
	"cmrpai/internal/model"
	"cmrpai/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidSession is returned when a session token is invalid, expired or logged out.
	ErrInvalidSession = auth.ErrInvalidSession
)

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, claims *auth.Claims, user *model.User, err error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	BootstrapAdmin(ctx context.Context, username, password string) (created bool, err error)
}

type authService struct {
	userRepo   repository.UserRepository
	sessions   *auth.SessionService
	tokenStore auth.TokenStoreInterface
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions *auth.SessionService, tokenStore auth.TokenStoreInterface, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		tokenStore: tokenStore,
		logger:     logger,
	}
}

// Login verifies the password and opens a new session.
func (s *authService) Login(ctx context.Context, username, password string) (token string, claims *auth.Claims, user *model.User, err error) {
	user, err = s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.String("username", username), zap.Error(err))
		}
		return "", nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, nil, ErrInvalidCredentials
	}

	token, claims, err = s.sessions.Issue(user)
	if err != nil {
		return "", nil, nil, fmt.Errorf("issue session: %w", err)
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return token, claims, user, nil
}

// Logout revokes the session until its natural expiry.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return ErrInvalidSession
	}
	if err := s.tokenStore.RevokeSession(ctx, claims.ID, s.sessions.Remaining(claims)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.logger.Info("user logged out", zap.Uint("user_id", claims.UserID))
	return nil
}

// Authenticate validates a session token, rejecting revoked sessions and deleted users.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	revoked, err := s.tokenStore.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if revoked {
		return nil, ErrInvalidSession
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}
	claims.Username = user.Username
	claims.Role = user.Role
	return claims, nil
}

// BootstrapAdmin creates the first admin user when both credentials are given and
// no user with that username exists yet. Existing users are never modified.
func (s *authService) BootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return false, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("admin user created from environment", zap.String("username", username))
	return true, nil
}
