package service

import (
	"context"
	"strings"
	"time"

	"slotswap/core/cache"
	"slotswap/core/constants"
	"slotswap/core/errors"
	"slotswap/core/logger"
	"slotswap/core/utils"
	"slotswap/modules/auth/dto"
	"slotswap/modules/auth/entity"
	"slotswap/modules/auth/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.Cache) *AuthService {
	return &AuthService{
		repo:  repo,
		cache: c,
	}
}

// Register creates a new account. Email collisions surface as conflicts
// rather than leaking whether an address is registered via timing.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name, email and password are required", nil)
	}

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "an account with this email already exists", nil)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("AuthService:Register:HashPassword", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	created, err := s.repo.CreateUser(ctx, &entity.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	return s.issueToken(created)
}

// Login verifies credentials and issues an access token. Attempts are
// throttled per email through the cache.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if s.cache != nil {
		attempts, err := s.cache.IncrementLoginAttempt(ctx, req.Email)
		if err != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt", "error", err)
		} else if attempts > constants.LoginMaxAttempts {
			return nil, errors.NewAppError(errors.ErrUnauthorized, "too many login attempts, try again later", nil)
		}
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", err)
	}
	if user == nil || !utils.CheckPassword(user.Password, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	if s.cache != nil {
		if err := s.cache.ResetLoginAttempts(ctx, req.Email); err != nil {
			logger.Error("AuthService:Login:ResetLoginAttempts", "error", err)
		}
	}

	return s.issueToken(user)
}

// Logout revokes the presented token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return err
	}

	if s.cache == nil || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
		logger.Error("AuthService:Logout:Blacklist", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to revoke token", err)
	}

	return nil
}

// Me returns the account behind an authenticated caller identity.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	return &dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

func (s *AuthService) issueToken(user *entity.User) (*dto.AuthResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Name, constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("AuthService:IssueToken", "error", err, "user_id", user.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}
