package background_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/currency_api/internal/background"
	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRateRefreshService struct {
	mock.Mock
}

func (m *MockRateRefreshService) UpdateRates(ctx context.Context) domain.RateRefreshResult {
	return m.Called(ctx).Get(0).(domain.RateRefreshResult)
}

func (m *MockRateRefreshService) ShouldUpdate(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateRefreshService) RefreshAndRecord(ctx context.Context, source string) domain.RateRefreshResult {
	return m.Called(ctx, source).Get(0).(domain.RateRefreshResult)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefreshIfStale_SkipsFreshRates(t *testing.T) {
	svc := new(MockRateRefreshService)
	svc.On("ShouldUpdate", mock.Anything).Return(false, nil).Once()

	tasks := background.NewTasks(svc, time.Minute, quietLogger())

	assert.False(t, tasks.RefreshIfStale(context.Background()))
	svc.AssertNotCalled(t, "RefreshAndRecord", mock.Anything, mock.Anything)
}

func TestRefreshIfStale_RefreshesWithSchedulerSource(t *testing.T) {
	svc := new(MockRateRefreshService)
	svc.On("ShouldUpdate", mock.Anything).Return(true, nil).Once()
	svc.On("RefreshAndRecord", mock.Anything, domain.RateUpdateSourceScheduler).
		Return(domain.RateRefreshResult{Success: false, Error: "HTTP Error: 503"}).Once()

	tasks := background.NewTasks(svc, time.Minute, quietLogger())

	assert.True(t, tasks.RefreshIfStale(context.Background()))
	svc.AssertExpectations(t)
}

func TestRefreshIfStale_FreshnessErrorWaitsForNextTick(t *testing.T) {
	svc := new(MockRateRefreshService)
	svc.On("ShouldUpdate", mock.Anything).Return(false, errors.New("db down")).Once()

	tasks := background.NewTasks(svc, time.Minute, quietLogger())

	assert.False(t, tasks.RefreshIfStale(context.Background()))
	svc.AssertNotCalled(t, "RefreshAndRecord", mock.Anything, mock.Anything)
}

func TestStartAll_StopsOnCancel(t *testing.T) {
	svc := new(MockRateRefreshService)
	var checks atomic.Int32
	svc.On("ShouldUpdate", mock.Anything).Return(false, nil).Run(func(mock.Arguments) { checks.Add(1) })

	tasks := background.NewTasks(svc, 10*time.Millisecond, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	tasks.StartAll(ctx)

	assert.Eventually(t, func() bool {
		return checks.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		tasks.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tasks did not stop after cancel")
	}
}
