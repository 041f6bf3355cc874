package main

import (
	"fmt"
	"net/http"

	"github.com/evyataryagoni/ipinfo/internal/config"
	"github.com/evyataryagoni/ipinfo/internal/handler"
	"github.com/evyataryagoni/ipinfo/internal/ipinfo"
	"github.com/evyataryagoni/ipinfo/internal/limiter"
	"github.com/evyataryagoni/ipinfo/internal/logger"
	"github.com/evyataryagoni/ipinfo/internal/metrics"
	"github.com/evyataryagoni/ipinfo/internal/router"
	"github.com/evyataryagoni/ipinfo/internal/service"
	"github.com/evyataryagoni/ipinfo/internal/store"
)

func main() {
	// Load configuration
	appConfig := config.Load()

	// Initialize components
	appLogger := setupLogger(appConfig)
	cacheStore := setupCacheStore(appConfig, appLogger)
	defer cacheStore.Close()

	rateLimiter := setupRateLimiter(appConfig, appLogger)
	defer rateLimiter.Close()

	metricsCollector := setupMetrics(appLogger)

	// Build application layers
	providerClient := ipinfo.New(ipinfo.Config{
		BaseURL: appConfig.ProviderBaseURL,
		Token:   appConfig.ProviderToken,
		Timeout: appConfig.ProviderTimeout,
		Logger:  appLogger,
	})

	lookupService := service.NewLookupService(providerClient, cacheStore, metricsCollector, appLogger)
	defer lookupService.Close()

	ipHandler := handler.NewIPHandler(lookupService)
	appRouter := router.SetupRouter(ipHandler, rateLimiter, metricsCollector, appLogger)

	// Start server
	startServer(appConfig, appRouter, appLogger)
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	})

	appLogger.Info().Msg("Starting ipinfo server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("provider_base_url", appConfig.ProviderBaseURL).
		Bool("provider_token_set", appConfig.ProviderToken != "").
		Dur("provider_timeout", appConfig.ProviderTimeout).
		Str("cache_type", appConfig.CacheType).
		Dur("cache_ttl", appConfig.CacheTTL).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Msg("Configuration loaded")

	return appLogger
}

// setupCacheStore initializes the lookup cache based on configuration.
// Supports memory, Redis, and MySQL backends, or none at all.
func setupCacheStore(appConfig *config.Config, log *logger.Logger) store.Store {
	switch appConfig.CacheType {
	case "memory", "":
		fmt.Println("✅ In-memory cache initialized")
		return store.NewMemoryStore(appConfig.CacheTTL)

	case "redis":
		redisStore, err := store.NewRedisStore(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB, appConfig.CacheTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis cache")
		}
		fmt.Println("✅ Redis cache initialized")
		return redisStore

	case "mysql":
		mysqlStore, err := store.NewMySQLStore(appConfig.MySQLDSN, appConfig.CacheTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize MySQL cache")
		}
		fmt.Println("✅ MySQL cache initialized")
		return mysqlStore

	case "none":
		fmt.Println("✅ Caching disabled")
		return store.NewNoopStore()

	default:
		log.Fatal().Str("type", appConfig.CacheType).Msg("Unknown cache type")
		return nil
	}
}

// setupRateLimiter initializes the rate limiter.
// Supports in-memory and Redis-based rate limiting.
func setupRateLimiter(appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	// Effective rate in requests per second:
	// 10 requests per 5 seconds = 10/5 = 2.0 req/s
	effectiveRate := float64(appConfig.RateLimit) / float64(appConfig.RateLimitWindow)

	rateLimiter, err := limiter.NewLimiter(limiter.LimiterConfig{
		Type:              appConfig.RateLimitType,
		RequestsPerSecond: effectiveRate,
		RedisAddr:         appConfig.RedisAddr,
		RedisPassword:     appConfig.RedisPassword,
		RedisDB:           appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	fmt.Printf("✅ Rate limiter initialized (type: %s, limit: %d req per %d sec = %.2f req/s)\n",
		appConfig.RateLimitType, appConfig.RateLimit, appConfig.RateLimitWindow, effectiveRate)

	return rateLimiter
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New()
	log.Info().Msg("Metrics initialized")
	return metricsCollector
}

// startServer starts the HTTP server and blocks
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) {
	serverAddr := ":" + appConfig.Port

	log.Info().
		Str("port", appConfig.Port).
		Str("api_endpoint", "http://localhost:"+appConfig.Port+"/v1/lookup?ip=<ipv4>").
		Str("health_check", "http://localhost:"+appConfig.Port+"/health").
		Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
		Msg("Server is running")

	log.Fatal().Err(http.ListenAndServe(serverAddr, appRouter)).Msg("Server failed")
}
