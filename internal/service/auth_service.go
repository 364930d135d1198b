package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/logging"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/utils"
	"storefront/internal/validation"
)

// PasswordHasher salts, hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs and verifies session tokens
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
	ValidateToken(token string) (*utils.JWTClaims, error)
}

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error)
	// Logout has no server-side effect; tokens stay valid until they expire.
	Logout(ctx context.Context)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	// Authenticate verifies a bearer token and returns the user ID it names.
	Authenticate(ctx context.Context, token string) (string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     PasswordHasher
	tokens     TokenIssuer
	logger     *slog.Logger
	verifyUser bool
	now        func() time.Time
}

// NewAuthService creates a new AuthService. When verifyUser is set,
// Authenticate also checks that the token's user still exists.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger, verifyUser bool) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		tokens:     tokens,
		logger:     logger,
		verifyUser: verifyUser,
		now:        time.Now,
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if msg, fields := validation.Struct(req); !fields.Empty() {
		return nil, "", apperr.Validation(msg, fields)
	}

	_, err := s.userRepo.FindByPhone(ctx, req.Phone)
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "registration rejected, phone taken", "phone", logging.MaskPhone(req.Phone))
		return nil, "", apperr.DuplicateUser()
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, "", apperr.Storage(err, "check existing user")
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", apperr.Storage(err, "hash password")
	}

	now := s.now()
	user := &model.User{
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			// Lost a race with a concurrent registration for the same phone.
			return nil, "", apperr.DuplicateUser()
		}
		return nil, "", apperr.Storage(err, "create user")
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "user created but token generation failed", "user_id", user.ID, "error", err)
		return nil, "", apperr.Storage(err, "generate token")
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "phone", logging.MaskPhone(user.Phone))
	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	if msg, fields := validation.Struct(req); !fields.Empty() {
		return nil, "", apperr.Validation(msg, fields)
	}

	user, err := s.userRepo.FindByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.InfoContext(ctx, "login failed", "phone", logging.MaskPhone(req.Phone), "reason", "unknown phone")
			return nil, "", apperr.InvalidCredentials()
		}
		return nil, "", apperr.Storage(err, "find user by phone")
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.logger.InfoContext(ctx, "login failed", "phone", logging.MaskPhone(req.Phone), "reason", "password mismatch")
		return nil, "", apperr.InvalidCredentials()
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", apperr.Storage(err, "generate token")
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context) {
	s.logger.DebugContext(ctx, "logout requested")
}

// GetProfile loads the user named by an already verified identity
func (s *authService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound(userID)
		}
		return nil, apperr.Storage(err, "find user by id")
	}
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.Unauthenticated(nil)
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return "", apperr.Unauthenticated(err)
	}
	if !s.verifyUser {
		return claims.UserID, nil
	}

	if _, err := s.userRepo.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperr.Unauthenticated(err)
		}
		return "", apperr.Storage(err, "verify token user")
	}
	return claims.UserID, nil
}
