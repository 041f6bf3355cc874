package store

import (
	"errors"

	"github.com/evyataryagoni/ipinfo/internal/models"
)

// ErrCacheMiss is returned by Get when no entry exists for the address
// (or the entry has expired).
var ErrCacheMiss = errors.New("ip not in cache")

// Store defines the interface for caching lookup results.
// Allows multiple implementations (memory, Redis, MySQL) and easy
// testing with mocks.
type Store interface {
	// Get returns the cached result for an IP address, or ErrCacheMiss.
	Get(ip string) (*models.IPInfo, error)

	// Set caches the result for an IP address.
	Set(ip string, info *models.IPInfo) error

	// Close cleans up resources (connections, goroutines, etc.)
	Close() error
}

// NoopStore is a Store that caches nothing. Used when caching is
// disabled via configuration.
type NoopStore struct{}

// NewNoopStore creates a store that never hits.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

// Get always misses.
func (s *NoopStore) Get(ip string) (*models.IPInfo, error) {
	return nil, ErrCacheMiss
}

// Set discards the entry.
func (s *NoopStore) Set(ip string, info *models.IPInfo) error {
	return nil
}

// Close is a no-op.
func (s *NoopStore) Close() error {
	return nil
}
