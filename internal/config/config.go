package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Provider configuration
	ProviderBaseURL string        // Geolocation API endpoint
	ProviderToken   string        // Optional API token for higher rate limits
	ProviderTimeout time.Duration // Bound on a single provider round trip

	// Cache configuration
	CacheType string        // "memory", "redis", "mysql", or "none"
	CacheTTL  time.Duration // How long a cached lookup stays valid

	// Rate limiting
	RateLimitType   string // "memory" or "redis"
	RateLimit       int    // number of requests allowed
	RateLimitWindow int    // time window in seconds

	// MySQL configuration
	MySQLDSN string

	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Logging
	LogLevel  string
	LogPretty bool
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file is honored for local development; in
// production the environment is set directly.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port: getEnv("PORT", "3000"),

		// Provider config. The unauthenticated endpoint works without a
		// token, just with tighter provider-side rate limits.
		ProviderBaseURL: getEnv("IPINFO_BASE_URL", "https://ipinfo.io"),
		ProviderToken:   getEnv("IPINFO_TOKEN", ""),
		ProviderTimeout: time.Duration(getEnvAsInt("IPINFO_TIMEOUT_MS", 10000)) * time.Millisecond,

		// Cache config (default: in-process memory cache, 1 hour TTL)
		CacheType: getEnv("CACHE_TYPE", "memory"),
		CacheTTL:  time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second,

		// Rate limiting (default: memory, 10 requests per 1 second)
		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 10),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 1),

		// MySQL config
		MySQLDSN: getEnv("MYSQL_DSN", ""),

		// Redis config
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer.
// Returns default if not set or invalid.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool reads an environment variable as a boolean.
// Returns default if not set or invalid.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
