package store

import (
	"sync"
	"time"

	"github.com/evyataryagoni/ipinfo/internal/models"
)

// MemoryStore implements Store with an in-process map and per-entry
// TTL. Good for single-server deployments; entries are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time // Injectable clock for tests
}

type memoryEntry struct {
	info      *models.IPInfo
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory cache. A non-positive TTL means
// entries never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached result for an IP, or ErrCacheMiss when absent
// or expired. Expired entries are removed lazily.
func (s *MemoryStore) Get(ip string) (*models.IPInfo, error) {
	s.mu.RLock()
	entry, ok := s.entries[ip]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, ip)
		s.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return entry.info, nil
}

// Set caches the result for an IP address.
func (s *MemoryStore) Set(ip string, info *models.IPInfo) error {
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[ip] = memoryEntry{info: info, expiresAt: expiresAt}
	s.mu.Unlock()

	return nil
}

// Len reports the number of cached entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close drops all entries.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}
