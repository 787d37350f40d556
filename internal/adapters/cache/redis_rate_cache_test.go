package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/currency_api/internal/adapters/cache"
	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatesKey(t *testing.T) {
	assert.Equal(t, "rates:USD", cache.RatesKey("USD"))
}

// Runs against a real Redis when TEST_REDIS_ADDR is set.
func TestRedisRateCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	c := cache.NewRedisRateCache(client)
	base := "T" + time.Now().Format("150405")
	t.Cleanup(func() { _ = c.Invalidate(ctx, base) })

	_, ok, err := c.GetRates(ctx, base)
	require.NoError(t, err)
	assert.False(t, ok)

	updated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rates := []domain.ExchangeRate{
		{BaseCurrency: base, TargetCurrency: "EUR", Rate: decimal.RequireFromString("0.91234567"), LastUpdated: updated},
	}
	require.NoError(t, c.SetRates(ctx, base, rates, time.Minute))

	got, ok, err := c.GetRates(ctx, base)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, rates[0].Rate.Equal(got[0].Rate))
	assert.True(t, updated.Equal(got[0].LastUpdated))

	require.NoError(t, c.Invalidate(ctx, base))
	_, ok, err = c.GetRates(ctx, base)
	require.NoError(t, err)
	assert.False(t, ok)
}
