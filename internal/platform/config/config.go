package config

import (
	"log"
	"strings"
	"time"

	"github.com/SscSPs/currency_api/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string
	Location       *time.Location

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	AdminPasswordHash string

	RateLimit        string
	PosthogAPIKey    string
	PosthogEndpoint  string
	MetricsNamespace string

	Refresh RefreshConfig
	Audit   AuditConfig
	Cache   CacheConfig
	Kafka   KafkaConfig
}

// RefreshConfig drives the rate refresh service and its scheduler.
type RefreshConfig struct {
	UpstreamURL      string
	BaseCurrency     string
	UpdateInterval   time.Duration
	UpstreamTimeout  time.Duration
	SchedulerEnabled bool
	CheckInterval    time.Duration
}

// AuditConfig drives the request/event logger.
type AuditConfig struct {
	Async      bool
	Timeout    time.Duration
	APIVersion string
	Location   *time.Location
}

// CacheConfig configures the optional Redis rate cache. An empty address disables it.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Enabled reports whether a Redis address was configured.
func (c CacheConfig) Enabled() bool { return c.RedisAddr != "" }

// KafkaConfig configures the optional rate event publisher. No brokers disables it.
type KafkaConfig struct {
	Brokers    []string
	RatesTopic string
}

// Enabled reports whether any broker was configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

const (
	defaultJWTIssuer      = "currency-api"
	defaultBaseCurrency   = "USD"
	defaultUpdateInterval = 60 * time.Minute
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("EXCHANGE_RATE_API_URL", "")
	viper.SetDefault("BASE_CURRENCY", defaultBaseCurrency)
	viper.SetDefault("UPDATE_INTERVAL_MINUTES", 60)
	viper.SetDefault("UPSTREAM_TIMEOUT", "30s")
	viper.SetDefault("REFRESH_SCHEDULER_ENABLED", false)
	viper.SetDefault("REFRESH_CHECK_INTERVAL", "5m")
	viper.SetDefault("AUDIT_ASYNC", true)
	viper.SetDefault("AUDIT_TIMEOUT", "5s")
	viper.SetDefault("API_VERSION", "v1")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_RATES_TOPIC", "rates.updated")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("METRICS_NAMESPACE", "currency_api")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	tz := viper.GetString("TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
		log.Printf("Warning: Invalid value for TIMEZONE ('%s'). Defaulting to UTC.\n", tz)
	}
	cfg.Location = loc

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		secret, err := utils.GenerateSecureToken(32)
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		log.Println("Warning: JWT_SECRET environment variable not set. Using a random key; admin tokens will not survive a restart.")
	}

	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", time.Hour)

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.AdminPasswordHash = viper.GetString("ADMIN_PASSWORD_HASH")
	if cfg.AdminPasswordHash == "" {
		if plain := viper.GetString("ADMIN_PASSWORD"); plain != "" {
			hash, err := utils.HashPassword(plain)
			if err != nil {
				return nil, err
			}
			cfg.AdminPasswordHash = hash
			log.Println("Warning: ADMIN_PASSWORD is set in plain text. Prefer ADMIN_PASSWORD_HASH.")
		} else {
			log.Println("Warning: neither ADMIN_PASSWORD_HASH nor ADMIN_PASSWORD set. Admin login is disabled.")
		}
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")
	cfg.MetricsNamespace = viper.GetString("METRICS_NAMESPACE")

	cfg.Refresh = loadRefreshConfig()
	cfg.Audit = AuditConfig{
		Async:      viper.GetBool("AUDIT_ASYNC"),
		Timeout:    durationOrDefault("AUDIT_TIMEOUT", 5*time.Second),
		APIVersion: viper.GetString("API_VERSION"),
		Location:   loc,
	}
	cfg.Cache = CacheConfig{
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		RedisDB:       viper.GetInt("REDIS_DB"),
	}
	cfg.Kafka = KafkaConfig{
		Brokers:    splitList(viper.GetString("KAFKA_BROKERS")),
		RatesTopic: viper.GetString("KAFKA_RATES_TOPIC"),
	}

	return cfg, nil
}

func loadRefreshConfig() RefreshConfig {
	rc := RefreshConfig{
		UpstreamURL:      viper.GetString("EXCHANGE_RATE_API_URL"),
		BaseCurrency:     strings.ToUpper(viper.GetString("BASE_CURRENCY")),
		UpstreamTimeout:  durationOrDefault("UPSTREAM_TIMEOUT", 30*time.Second),
		SchedulerEnabled: viper.GetBool("REFRESH_SCHEDULER_ENABLED"),
		CheckInterval:    durationOrDefault("REFRESH_CHECK_INTERVAL", 5*time.Minute),
	}
	if rc.UpstreamURL == "" {
		log.Println("Warning: EXCHANGE_RATE_API_URL not set. Rate refreshes will fail.")
	}
	if rc.BaseCurrency == "" {
		rc.BaseCurrency = defaultBaseCurrency
	}

	minutes := viper.GetInt("UPDATE_INTERVAL_MINUTES")
	if minutes <= 0 {
		log.Printf("Warning: Invalid value for UPDATE_INTERVAL_MINUTES (%d). Defaulting to %s.\n", minutes, defaultUpdateInterval)
		rc.UpdateInterval = defaultUpdateInterval
	} else {
		rc.UpdateInterval = time.Duration(minutes) * time.Minute
	}
	return rc
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
