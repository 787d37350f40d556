package services

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/SscSPs/currency_api/internal/utils"
)

// AdminSubject is the JWT subject of every admin token.
const AdminSubject = "admin"

type adminAuthService struct {
	BaseService
	passwordHash string
	jwtSecret    string
	jwtIssuer    string
	jwtExpiry    time.Duration
}

// NewAdminAuthService creates the single-administrator login service.
func NewAdminAuthService(cfg *config.Config) portssvc.AdminAuthSvc {
	return &adminAuthService{
		passwordHash: cfg.AdminPasswordHash,
		jwtSecret:    cfg.JWTSecret,
		jwtIssuer:    cfg.JWTIssuer,
		jwtExpiry:    cfg.JWTExpiryDuration,
	}
}

func (s *adminAuthService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if s.passwordHash == "" || password == "" {
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	if err := utils.CheckPasswordHash(password, s.passwordHash); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			s.LogWarn(ctx, "Admin login rejected")
			return "", time.Time{}, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Admin password check failed")
		return "", time.Time{}, apperrors.NewAppError(500, "failed to verify admin password", err)
	}

	token, expiresAt, err := utils.GenerateJWT(AdminSubject, s.jwtSecret, s.jwtExpiry, s.jwtIssuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign admin token")
		return "", time.Time{}, apperrors.NewAppError(500, "failed to issue admin token", err)
	}

	s.LogInfo(ctx, "Admin logged in")
	return token, expiresAt, nil
}
