package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/gravity-notes/gravity/errors"
	"github.com/gravity-notes/gravity/internal/domain/entities"
	"github.com/gravity-notes/gravity/internal/domain/repositories"
	"github.com/gravity-notes/gravity/internal/infrastructure/cache"
	"github.com/gravity-notes/gravity/pkg/jwt"
)

const refreshKeyPrefix = "refresh:"

// TokenPair carries the tokens issued after register/login
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // seconds
}

// Service handles registration, login and token validation
type Service struct {
	userRepo   repositories.UserRepository
	tokens     cache.TokenStore
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

// NewService creates a new auth service
func NewService(userRepo repositories.UserRepository, tokens cache.TokenStore, jwtManager *jwt.Manager, logger *zap.Logger) *Service {
	return &Service{
		userRepo:   userRepo,
		tokens:     tokens,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates a new user and issues a token pair
func (s *Service) Register(ctx context.Context, email, password, name string) (*entities.User, *TokenPair, error) {
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, nil, apperrors.ErrUserAlreadyExists(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperrors.ErrInternal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := entities.NewUser(email, name, string(hash))
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, apperrors.ErrInternal(err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, pair, nil
}

// Login verifies credentials and issues a token pair
func (s *Service) Login(ctx context.Context, email, password string) (*entities.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials()
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, int, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", 0, apperrors.ErrInvalidRefreshToken()
	}

	stored, ok, err := s.tokens.Get(ctx, refreshKeyPrefix+userID.String())
	if err != nil {
		return "", 0, apperrors.ErrCacheFailed("get refresh token", err)
	}
	if !ok || stored != refreshToken {
		return "", 0, apperrors.ErrInvalidRefreshToken()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", 0, apperrors.ErrUserNotFound()
	}

	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", 0, apperrors.ErrInternal(err)
	}
	return access, int(s.jwtManager.AccessExpiry().Seconds()), nil
}

// Logout revokes the user's refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken()
	}
	if err := s.tokens.Delete(ctx, refreshKeyPrefix+userID.String()); err != nil {
		return apperrors.ErrCacheFailed("delete refresh token", err)
	}
	return nil
}

// ValidateSession parses an access token and confirms the user still exists.
// A deleted user invalidates otherwise valid tokens.
func (s *Service) ValidateSession(ctx context.Context, accessToken string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken()
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound()
	}
	return user, nil
}

func (s *Service) issueTokens(ctx context.Context, user *entities.User) (*TokenPair, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	if err := s.tokens.Set(ctx, refreshKeyPrefix+user.ID.String(), refresh, s.jwtManager.RefreshExpiry()); err != nil {
		return nil, apperrors.ErrCacheFailed("store refresh token", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.jwtManager.AccessExpiry().Seconds()),
	}, nil
}
