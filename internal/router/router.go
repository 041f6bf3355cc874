package router

import (
	"net/http"

	"github.com/evyataryagoni/ipinfo/internal/handler"
	"github.com/evyataryagoni/ipinfo/internal/limiter"
	"github.com/evyataryagoni/ipinfo/internal/logger"
	"github.com/evyataryagoni/ipinfo/internal/metrics"
	custommiddleware "github.com/evyataryagoni/ipinfo/internal/middleware"
	v1 "github.com/evyataryagoni/ipinfo/internal/router/v1"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Chi router with all middleware
// and routes. Order matters: RequestID first, then logging, then rate
// limiting, then metrics.
func SetupRouter(ipHandler *handler.IPHandler, rateLimiter limiter.Limiter, m *metrics.Metrics, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.RateLimitMiddleware(rateLimiter))
	r.Use(custommiddleware.MetricsMiddleware(m))

	// Mount v1 API routes under /v1 prefix
	r.Mount("/v1", v1.SetupRoutes(ipHandler))

	// Health check endpoint - used by load balancers and monitoring
	r.Get("/health", healthCheckHandler)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// healthCheckHandler returns 200 OK if the service is running
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
