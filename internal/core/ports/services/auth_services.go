package services

import (
	"context"
	"time"
)

// AdminAuthSvc authenticates the single administrator.
type AdminAuthSvc interface {
	// Login checks the password and returns a signed token with its expiry.
	// A wrong password fails with apperrors.ErrUnauthorized.
	Login(ctx context.Context, password string) (token string, expiresAt time.Time, err error)
}
