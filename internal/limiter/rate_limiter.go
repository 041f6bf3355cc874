package limiter

import (
	"sync"
	"time"
)

// Limiter is the interface that all rate limiters must implement.
// This allows swapping between in-memory and Redis implementations.
type Limiter interface {
	// Allow checks if a request from the given client should be allowed.
	// Returns true if allowed, false if rate limited.
	Allow(ip string) bool

	// Close cleans up any resources (Redis connections, goroutines, etc.)
	Close() error
}

// TokenBucket implements the token bucket algorithm for one client.
// Tokens refill at a fixed rate; each request consumes one. A full
// bucket allows a burst up to its capacity.
type TokenBucket struct {
	mu             sync.Mutex
	tokens         float64
	capacity       float64
	refillRate     float64 // Tokens added per second
	lastRefillTime time.Time
}

// NewTokenBucket creates a bucket that refills at rate tokens/second
// with the given burst capacity. The bucket starts full, with at least
// one token so the first request always has a chance.
func NewTokenBucket(rate float64, capacity float64) *TokenBucket {
	if capacity < 1.0 {
		capacity = 1.0
	}

	return &TokenBucket{
		tokens:         capacity,
		capacity:       capacity,
		refillRate:     rate,
		lastRefillTime: time.Now(),
	}
}

// Allow consumes a token if one is available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}

	return false
}

// refill adds tokens for the time elapsed since the last refill.
// Caller must hold tb.mu.
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefillTime).Seconds()

	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefillTime = now
}

// MemoryLimiter implements per-client rate limiting with in-process
// token buckets. Suitable for single-server deployments.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*TokenBucket
	rate    float64
	done    chan struct{}
}

// NewMemoryLimiter creates an in-memory rate limiter allowing
// requestsPerSecond per client IP. A background goroutine drops idle
// buckets so the map does not grow without bound.
func NewMemoryLimiter(requestsPerSecond float64) *MemoryLimiter {
	l := &MemoryLimiter{
		buckets: make(map[string]*TokenBucket),
		rate:    requestsPerSecond,
		done:    make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Allow checks if a request from the given IP should be allowed.
func (l *MemoryLimiter) Allow(ip string) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[ip]
	if !ok {
		bucket = NewTokenBucket(l.rate, l.rate)
		l.buckets[ip] = bucket
	}
	l.mu.Unlock()

	return bucket.Allow()
}

// cleanupLoop periodically drops buckets that have refilled completely,
// meaning the client has been idle long enough to start fresh anyway.
func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			for ip, bucket := range l.buckets {
				bucket.mu.Lock()
				bucket.refill()
				full := bucket.tokens >= bucket.capacity
				bucket.mu.Unlock()
				if full {
					delete(l.buckets, ip)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

// Close stops the cleanup goroutine.
func (l *MemoryLimiter) Close() error {
	close(l.done)
	return nil
}
