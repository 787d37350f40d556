package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
)

const defaultCheckInterval = 5 * time.Minute

// Tasks runs the periodic jobs of the API process.
type Tasks struct {
	RateRefresh   portssvc.RateRefreshSvc
	CheckInterval time.Duration
	Logger        *slog.Logger

	wg sync.WaitGroup
}

func NewTasks(rateRefresh portssvc.RateRefreshSvc, checkInterval time.Duration, logger *slog.Logger) *Tasks {
	if checkInterval <= 0 {
		checkInterval = defaultCheckInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tasks{
		RateRefresh:   rateRefresh,
		CheckInterval: checkInterval,
		Logger:        logger,
	}
}

// StartAll launches every task. They stop when ctx is cancelled; Wait blocks until they have.
func (t *Tasks) StartAll(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.startRateRefresh(ctx)
	}()
}

// Wait blocks until every task started by StartAll has returned.
func (t *Tasks) Wait() {
	t.wg.Wait()
}

func (t *Tasks) startRateRefresh(ctx context.Context) {
	ticker := time.NewTicker(t.CheckInterval)
	defer ticker.Stop()

	t.Logger.Info("Rate refresh scheduler started", slog.Duration("check_interval", t.CheckInterval))
	t.RefreshIfStale(ctx)

	for {
		select {
		case <-ctx.Done():
			t.Logger.Info("Rate refresh scheduler stopped")
			return
		case <-ticker.C:
			t.RefreshIfStale(ctx)
		}
	}
}

// RefreshIfStale runs one scheduler tick: refresh only when the stored rates are not fresh.
// It reports whether a refresh was attempted.
func (t *Tasks) RefreshIfStale(ctx context.Context) bool {
	stale, err := t.RateRefresh.ShouldUpdate(ctx)
	if err != nil {
		t.Logger.Error("Rate freshness check failed", slog.String("error", err.Error()))
		return false
	}
	if !stale {
		t.Logger.Debug("Rates are fresh, skipping refresh")
		return false
	}

	result := t.RateRefresh.RefreshAndRecord(ctx, domain.RateUpdateSourceScheduler)
	if !result.Success {
		t.Logger.Error("Scheduled rate refresh failed", slog.String("error", result.Error))
		return true
	}
	t.Logger.Info("Scheduled rate refresh finished",
		slog.String("base_currency", result.BaseCurrency),
		slog.Int("rates_count", result.RatesCount),
		slog.Duration("execution_time", result.ExecutionTime))
	return true
}
