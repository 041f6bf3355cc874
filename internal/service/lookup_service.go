package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/evyataryagoni/ipinfo/internal/ipinfo"
	"github.com/evyataryagoni/ipinfo/internal/logger"
	"github.com/evyataryagoni/ipinfo/internal/metrics"
	"github.com/evyataryagoni/ipinfo/internal/models"
	"github.com/evyataryagoni/ipinfo/internal/store"
)

// Fetcher is the part of the provider client the service depends on.
// Narrowing to an interface lets tests substitute a fake provider.
type Fetcher interface {
	Fetch(ctx context.Context, ip string) (*models.IPInfo, error)
}

// LookupService handles business logic for IP lookups.
// It sits between the HTTP handlers and the provider client, consulting
// the cache before going to the network.
type LookupService struct {
	fetcher Fetcher
	cache   store.Store
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewLookupService creates a lookup service.
//
// Parameters:
//   - fetcher: the provider client (or a test fake)
//   - cache: any Store implementation; use store.NewNoopStore() to disable caching
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewLookupService(fetcher Fetcher, cache store.Store, m *metrics.Metrics, log *logger.Logger) *LookupService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &LookupService{
		fetcher: fetcher,
		cache:   cache,
		metrics: m,
		logger:  log.WithComponent("LookupService"),
	}
}

// Lookup returns geolocation details for an IPv4 address.
//
// Flow:
//  1. Consult the cache
//  2. On a miss, query the provider
//  3. Cache the result (best effort) and return it
//
// Provider and validation errors pass through untranslated so the
// handler can map them to status codes. Cache failures are logged and
// counted but never fail the lookup.
func (s *LookupService) Lookup(ctx context.Context, ip string) (*models.IPInfo, error) {
	if cached := s.fromCache(ip); cached != nil {
		s.logger.Debug().Str("ip", ip).Msg("Cache hit")
		if s.metrics != nil {
			s.metrics.LookupsTotal.WithLabelValues("cache_hit").Inc()
		}
		return cached, nil
	}

	start := time.Now()
	info, err := s.fetcher.Fetch(ctx, ip)
	if err != nil {
		s.recordFetchError(ip, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ProviderRequestDuration.Observe(time.Since(start).Seconds())
		s.metrics.ProviderRequestsTotal.WithLabelValues("success").Inc()
		s.metrics.LookupsTotal.WithLabelValues("success").Inc()
		if info.Bogon {
			s.metrics.BogonsTotal.Inc()
		}
	}

	s.logger.Info().
		Str("ip", ip).
		Bool("bogon", info.Bogon).
		Msg("IP lookup successful")

	// Best-effort write; a broken cache must not fail the lookup.
	if err := s.cache.Set(ip, info); err != nil {
		s.logger.Warn().Err(err).Str("ip", ip).Msg("Failed to cache lookup result")
		if s.metrics != nil {
			s.metrics.CacheErrorsTotal.WithLabelValues("cache", "set").Inc()
		}
	}

	return info, nil
}

// fromCache returns the cached result for an IP, or nil on a miss or a
// cache failure.
func (s *LookupService) fromCache(ip string) *models.IPInfo {
	info, err := s.cache.Get(ip)
	if err != nil {
		if errors.Is(err, store.ErrCacheMiss) {
			if s.metrics != nil {
				s.metrics.CacheLookupsTotal.WithLabelValues("cache", "miss").Inc()
			}
			return nil
		}
		s.logger.Warn().Err(err).Str("ip", ip).Msg("Cache read failed")
		if s.metrics != nil {
			s.metrics.CacheErrorsTotal.WithLabelValues("cache", "get").Inc()
		}
		return nil
	}

	if s.metrics != nil {
		s.metrics.CacheLookupsTotal.WithLabelValues("cache", "hit").Inc()
	}
	return info
}

// recordFetchError logs and counts a failed provider fetch.
func (s *LookupService) recordFetchError(ip string, err error) {
	var invalidErr *ipinfo.InvalidAddressError
	var requestErr *ipinfo.RequestError
	var parseErr *ipinfo.ParseError

	switch {
	case errors.As(err, &invalidErr):
		// Rejected before any network access
		s.logger.Warn().Str("ip", ip).Msg("Invalid IPv4 address")
		if s.metrics != nil {
			s.metrics.LookupsErrors.WithLabelValues("validation").Inc()
		}

	case errors.As(err, &requestErr):
		s.logger.Error().Err(err).Str("ip", ip).Msg("Provider request failed")
		if s.metrics != nil {
			label := "transport"
			if requestErr.Timeout() {
				label = "timeout"
			} else if requestErr.StatusCode != 0 {
				label = strconv.Itoa(requestErr.StatusCode)
			}
			s.metrics.ProviderRequestsTotal.WithLabelValues(label).Inc()
			s.metrics.LookupsErrors.WithLabelValues("provider").Inc()
		}

	case errors.As(err, &parseErr):
		s.logger.Error().Err(err).Str("ip", ip).Msg("Unparseable provider response")
		if s.metrics != nil {
			s.metrics.ProviderRequestsTotal.WithLabelValues("parse_error").Inc()
			s.metrics.LookupsErrors.WithLabelValues("parse").Inc()
		}

	default:
		s.logger.Error().Err(err).Str("ip", ip).Msg("IP lookup failed")
		if s.metrics != nil {
			s.metrics.LookupsErrors.WithLabelValues("unknown").Inc()
		}
	}
}

// Close cleans up resources held by the underlying cache.
func (s *LookupService) Close() error {
	return s.cache.Close()
}
