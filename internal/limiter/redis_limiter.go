package limiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements distributed rate limiting using Redis, for
// deployments where the limit must be shared across instances.
//
// Counters live under "ratelimit:{ip}:{window}" keys with a TTL for
// automatic cleanup. The increment-and-expire runs as a Lua script so
// concurrent instances cannot race.
type RedisLimiter struct {
	client         *redis.Client
	ctx            context.Context
	requestsPerSec float64
	windowSize     time.Duration
}

// rateLimitScript atomically increments the window counter and sets its
// expiry on first use.
const rateLimitScript = `
	local key = KEYS[1]
	local ttl = tonumber(ARGV[1])

	local current = redis.call('INCR', key)
	if current == 1 then
		redis.call('EXPIRE', key, ttl)
	end

	return current
`

// NewRedisLimiter creates a Redis-based rate limiter allowing
// requestsPerSecond per client IP. Fractional rates widen the window:
// 0.2 req/s becomes 1 request per 5-second window.
func NewRedisLimiter(addr, password string, db int, requestsPerSecond float64) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	windowSize := time.Second
	if requestsPerSecond < 1.0 {
		windowSize = time.Duration(float64(time.Second) / requestsPerSecond)
	}

	return &RedisLimiter{
		client:         client,
		ctx:            ctx,
		requestsPerSec: requestsPerSecond,
		windowSize:     windowSize,
	}, nil
}

// Allow checks if a request from the given IP should be allowed.
// On Redis errors the limiter fails open rather than blocking
// legitimate traffic.
func (rl *RedisLimiter) Allow(ip string) bool {
	now := time.Now()
	windowSeconds := int64(rl.windowSize.Seconds())
	window := now.Unix() / windowSeconds
	key := fmt.Sprintf("ratelimit:%s:%d", ip, window)

	result, err := rl.client.Eval(rl.ctx, rateLimitScript, []string{key}, windowSeconds*2).Result()
	if err != nil {
		return true
	}

	count, ok := result.(int64)
	if !ok {
		return true
	}

	limit := int64(math.Ceil(rl.requestsPerSec * rl.windowSize.Seconds()))
	return count <= limit
}

// Close closes the Redis connection.
func (rl *RedisLimiter) Close() error {
	if rl.client != nil {
		return rl.client.Close()
	}
	return nil
}
