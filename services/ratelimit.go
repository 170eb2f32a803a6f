package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/personal-blog-backend/config"
)

const (
	DefaultLoginLimit         = 5
	DefaultLoginWindowSeconds = 60
)

// Limiter counts attempts per key in fixed windows.
type Limiter interface {
	// Allow records one attempt for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter keeps its counters in Redis so the limit holds across instances.
type RedisLimiter struct {
	rdb      *redis.Client
	resource string
	limit    int
	window   time.Duration
}

func NewRedisLimiter(rdb *redis.Client, resource string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, resource: resource, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	redisKey := fmt.Sprintf("rl:%s:%s", l.resource, key)

	// INCR and set EXPIRE if new
	cnt, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(l.limit), nil
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is the single process fallback used when no Redis is configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryLimiter(limit int, span time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  span,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.window)}
		l.windows[key] = w
		l.sweep(now)
	}
	w.count++
	return w.count <= l.limit, nil
}

// sweep drops expired windows. Callers hold mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// NewLoginLimiter builds the login limiter from config: Redis when REDIS_URL
// is set and reachable, otherwise an in-memory limiter. The returned close
// func releases the Redis client.
func NewLoginLimiter(ctx context.Context, cfg config.Config) (Limiter, func() error, error) {
	limit := config.GetInt(cfg, "LOGIN_RATE_LIMIT", DefaultLoginLimit)
	window := config.GetSeconds(cfg, "LOGIN_RATE_WINDOW_SECONDS", DefaultLoginWindowSeconds)
	noop := func() error { return nil }

	redisURL := config.GetString(cfg, "REDIS_URL", "")
	if redisURL == "" {
		log.Info().Int("limit", limit).Dur("window", window).Msg("login rate limit kept in memory")
		return NewMemoryLimiter(limit, window), noop, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, noop, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, noop, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Int("limit", limit).Dur("window", window).Msg("login rate limit kept in redis")
	return NewRedisLimiter(rdb, "login", limit, window), rdb.Close, nil
}
