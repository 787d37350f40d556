package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/services"
	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/SscSPs/currency_api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminAuthService_Login(t *testing.T) {
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)

	cfg := &config.Config{
		AdminPasswordHash: hash,
		JWTSecret:         "test-secret",
		JWTIssuer:         "currency-api",
		JWTExpiryDuration: time.Hour,
	}
	svc := services.NewAdminAuthService(cfg)

	token, expiresAt, err := svc.Login(context.Background(), "s3cret")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := utils.ParseAndValidateJWT(token, cfg.JWTSecret, cfg.JWTIssuer)
	require.NoError(t, err)
	assert.Equal(t, services.AdminSubject, claims.Subject)

	_, _, err = svc.Login(context.Background(), "wrong")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestAdminAuthService_LoginDisabledWithoutHash(t *testing.T) {
	svc := services.NewAdminAuthService(&config.Config{JWTSecret: "x", JWTExpiryDuration: time.Hour})

	_, _, err := svc.Login(context.Background(), "anything")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}
