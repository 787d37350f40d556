package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperrors.NewAppError(http.StatusInternalServerError, "failed to save rates", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save rates: connection reset", err.Error())
}

func TestNotFoundAndValidationSentinels(t *testing.T) {
	notFound := fmt.Errorf("service: %w", apperrors.NewNotFoundError("device not found"))
	validation := apperrors.NewValidationError("amount must be positive")

	assert.ErrorIs(t, notFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, validation, apperrors.ErrValidation)
	assert.NotErrorIs(t, validation, apperrors.ErrNotFound)
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.NewValidationError("bad"), http.StatusBadRequest},
		{"not found", apperrors.NewNotFoundError("missing"), http.StatusNotFound},
		{"unauthorized", fmt.Errorf("login: %w", apperrors.ErrUnauthorized), http.StatusUnauthorized},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"app error code", apperrors.NewAppError(http.StatusBadGateway, "upstream", nil), http.StatusBadGateway},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperrors.StatusCode(tc.err))
		})
	}
}
