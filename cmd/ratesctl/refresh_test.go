package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) UpdateRates(ctx context.Context) domain.RateRefreshResult {
	return m.Called(ctx).Get(0).(domain.RateRefreshResult)
}

func (m *mockRefresher) ShouldUpdate(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockRefresher) RefreshAndRecord(ctx context.Context, source string) domain.RateRefreshResult {
	return m.Called(ctx, source).Get(0).(domain.RateRefreshResult)
}

func TestRefreshOnce(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("fresh rates are left alone", func(t *testing.T) {
		svc := new(mockRefresher)
		svc.On("ShouldUpdate", mock.Anything).Return(false, nil).Once()

		assert.NoError(t, refreshOnce(context.Background(), svc, false, logger))
		svc.AssertNotCalled(t, "RefreshAndRecord", mock.Anything, mock.Anything)
	})

	t.Run("force skips the freshness check", func(t *testing.T) {
		svc := new(mockRefresher)
		svc.On("RefreshAndRecord", mock.Anything, domain.RateUpdateSourceCron).
			Return(domain.RateRefreshResult{Success: true, BaseCurrency: "USD", RatesCount: 3}).Once()

		assert.NoError(t, refreshOnce(context.Background(), svc, true, logger))
		svc.AssertNotCalled(t, "ShouldUpdate", mock.Anything)
		svc.AssertExpectations(t)
	})

	t.Run("failed refresh is an error", func(t *testing.T) {
		svc := new(mockRefresher)
		svc.On("ShouldUpdate", mock.Anything).Return(true, nil).Once()
		svc.On("RefreshAndRecord", mock.Anything, domain.RateUpdateSourceCron).
			Return(domain.RateRefreshResult{Error: "Network Error: timeout"}).Once()

		assert.ErrorIs(t, refreshOnce(context.Background(), svc, false, logger), errRefreshFailed)
	})
}
