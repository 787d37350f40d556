package config

import (
	"testing"
	"time"

	"github.com/SscSPs/currency_api/internal/utils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, "USD", cfg.Refresh.BaseCurrency)
	assert.Equal(t, 60*time.Minute, cfg.Refresh.UpdateInterval)
	assert.Equal(t, 30*time.Second, cfg.Refresh.UpstreamTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.CheckInterval)
	assert.True(t, cfg.Audit.Async)
	assert.Equal(t, "v1", cfg.Audit.APIVersion)
	assert.False(t, cfg.Cache.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Empty(t, cfg.AdminPasswordHash)
}

func TestLoadConfig_Overrides(t *testing.T) {
	resetViper(t)
	t.Setenv("TIMEZONE", "Europe/Moscow")
	t.Setenv("BASE_CURRENCY", "eur")
	t.Setenv("UPDATE_INTERVAL_MINUTES", "15")
	t.Setenv("UPSTREAM_TIMEOUT", "bogus")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Equal(t, cfg.Location, cfg.Audit.Location)
	assert.Equal(t, "EUR", cfg.Refresh.BaseCurrency)
	assert.Equal(t, 15*time.Minute, cfg.Refresh.UpdateInterval)
	assert.Equal(t, 30*time.Second, cfg.Refresh.UpstreamTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Cache.Enabled())
	assert.NoError(t, utils.CheckPasswordHash("s3cret", cfg.AdminPasswordHash))
}

func TestLoadConfig_InvalidTimezoneFallsBack(t *testing.T) {
	resetViper(t)
	t.Setenv("TIMEZONE", "Mars/Olympus")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cfg.Location)
}
