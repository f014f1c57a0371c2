package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/logiops/ops-portal/internal/auth"
	"github.com/logiops/ops-portal/internal/config"
	"github.com/logiops/ops-portal/internal/domain"
	"github.com/logiops/ops-portal/internal/repository"
	apperrors "github.com/logiops/ops-portal/pkg/util"
)

// AuthService authenticates portal accounts and issues access tokens.
type AuthService struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware construction.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, *domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, nil, apperrors.MapError(err)
	}
	if !account.IsActive {
		return "", time.Time{}, nil, apperrors.NewForbidden("account disabled")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(account.ID)
	if err != nil {
		return "", time.Time{}, nil, apperrors.NewInternalError(err)
	}
	return token, expiresAt, account, nil
}

// ChangePassword rotates an account password after verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, oldPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hashed, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return apperrors.MapError(s.accounts.UpdatePassword(ctx, accountID, hashed))
}
