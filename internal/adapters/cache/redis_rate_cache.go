package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/core/ports/gateways"
	"github.com/redis/go-redis/v9"
)

// ratesKeyPrefix namespaces the per-base rate sets
const ratesKeyPrefix = "rates:"

// RedisRateCache implements gateways.RateCache using Redis
type RedisRateCache struct {
	client *redis.Client
}

// NewRedisRateCache creates a new Redis-backed rate cache
func NewRedisRateCache(client *redis.Client) *RedisRateCache {
	return &RedisRateCache{
		client: client,
	}
}

var _ gateways.RateCache = (*RedisRateCache)(nil)

// RatesKey generates the Redis key for the rate set of a base currency
func RatesKey(baseCurrency string) string {
	return ratesKeyPrefix + baseCurrency
}

// GetRates retrieves the cached rate set of a base
func (c *RedisRateCache) GetRates(ctx context.Context, baseCurrency string) ([]domain.ExchangeRate, bool, error) {
	data, err := c.client.Get(ctx, RatesKey(baseCurrency)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cached rates: %w", err)
	}

	var rates []domain.ExchangeRate
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached rates: %w", err)
	}
	return rates, true, nil
}

// SetRates stores the rate set of a base with a TTL
func (c *RedisRateCache) SetRates(ctx context.Context, baseCurrency string, rates []domain.ExchangeRate, ttl time.Duration) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}

	if err := c.client.Set(ctx, RatesKey(baseCurrency), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rates: %w", err)
	}
	return nil
}

// Invalidate drops the cached rate set of a base
func (c *RedisRateCache) Invalidate(ctx context.Context, baseCurrency string) error {
	if err := c.client.Del(ctx, RatesKey(baseCurrency)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached rates: %w", err)
	}
	return nil
}

