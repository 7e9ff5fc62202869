package app

import (
	"os"
	"strconv"
	"time"

	"github.com/srots/portal/pkg/httpx"
)

type Config struct {
	Issuer        string        // Optional: issuer claim for session tokens (default: srots-devapi)
	JWTSecret     string        // Optional: HMAC secret, at least 32 bytes; random per process when unset
	TokenTTL      time.Duration // Optional: session token lifetime (default: 10h)
	WebhookSecret string        // Optional: payment webhook secret; webhooks are rejected when unset
	ProviderKey   string        // Optional: payment provider public key id returned with orders
	ResetURL      string        // Optional: portal page that accepts reset tokens
	SeedDemo      bool          // Seed one demo account per role (default: true)
	PasswordCost  int           // Optional: bcrypt cost for seeded accounts (default: 12)
	StrictLimit   httpx.Limit   // Login and recovery limit per client, "<n>/<window>" (default: 5/1m)
	ModerateLimit httpx.Limit   // Reset and premium limit per client (default: 20/1m)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8081)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("DEVAPI_ISSUER", "srots-devapi"),
		JWTSecret:     os.Getenv("DEVAPI_JWT_SECRET"),
		TokenTTL:      getEnvDurationOrDefault("DEVAPI_TOKEN_TTL", 10*time.Hour),
		WebhookSecret: os.Getenv("DEVAPI_WEBHOOK_SECRET"),
		ProviderKey:   getEnvOrDefault("DEVAPI_PROVIDER_KEY", "rzp_test_devapi"),
		ResetURL:      getEnvOrDefault("DEVAPI_RESET_URL", "http://localhost:5173/reset-password"),
		SeedDemo:      getEnvBoolOrDefault("DEVAPI_SEED_DEMO", true),
		PasswordCost:  getEnvIntOrDefault("DEVAPI_PASSWORD_COST", 0),
		StrictLimit:   getEnvLimitOrDefault("DEVAPI_RATELIMIT_STRICT", httpx.StrictLimit),
		ModerateLimit: getEnvLimitOrDefault("DEVAPI_RATELIMIT_MODERATE", httpx.ModerateLimit),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8081),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func getEnvLimitOrDefault(key string, defaultValue httpx.Limit) httpx.Limit {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if l, err := httpx.ParseLimit(value); err == nil {
		return l
	}

	return defaultValue
}
