package ratelimit

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/socialchef/chefgpt/internal/utils"
)

// slidingWindowScript trims the sorted set to the window, then admits and
// records the request only while the live count is under quota.
// KEYS[1] = key, ARGV = now (ms), window (ms), quota, member.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local quota = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= quota then
	return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// RedisLimiter shares sliding-window state across processes through one
// sorted set per identifier. Keys expire after a full idle window.
type RedisLimiter struct {
	client redis.Scripter
	cfg    Config
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client redis.Scripter, cfg Config, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		cfg:    cfg.withDefaults(),
		prefix: prefix,
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (l *RedisLimiter) WithClock(now func() time.Time) *RedisLimiter {
	l.now = now
	return l
}

func (l *RedisLimiter) Quota() int { return l.cfg.Quota }

func (l *RedisLimiter) Window() time.Duration { return l.cfg.Window }

func (l *RedisLimiter) Key(identifier string) string {
	return l.prefix + identifier
}

func (l *RedisLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	now := l.now().UnixMilli()
	allowed, err := slidingWindowScript.Run(ctx, l.client,
		[]string{l.Key(identifier)},
		now, l.cfg.Window.Milliseconds(), l.cfg.Quota, fmt.Sprintf("%d-%s", now, uuid.NewString()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return allowed == 1, nil
}

// ParseRedisURL accepts redis://, rediss:// or a bare host:port.
func ParseRedisURL(redisURL string) (*redis.Options, error) {
	if !strings.HasPrefix(redisURL, "redis://") && !strings.HasPrefix(redisURL, "rediss://") {
		return &redis.Options{Addr: redisURL}, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(redisURL, "rediss://") && opt.TLSConfig == nil {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt, nil
}

// NewRedisClient creates a client for REDIS_URL and verifies connectivity,
// retrying while the server is still starting.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := redisotel.InstrumentTracing(client); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to instrument Redis tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to instrument Redis metrics: %w", err)
	}
	err = utils.Retry(ctx, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}, utils.ConnectRetryConfig())
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
