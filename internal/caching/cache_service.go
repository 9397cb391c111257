package caching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "renttracker:"

// CacheService is the small key/value surface the app needs from Redis:
// revoked session ids and login attempt counters.
type CacheService interface {
	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error
	ResetRateLimit(ctx context.Context, key string) error

	// Revoked session markers
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		slog.Warn("redis ping failed on initialization", "err", pingErr, "addr", parsedAddr)
	} else {
		slog.Debug("redis connection established", "addr", parsedAddr)
	}

	return &redisCacheService{client: client}
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("%sratelimit:%s", keyPrefix, key)
}

// IsRateLimited reports whether key has already used up its attempts in the current window.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Get(ctx, rateLimitKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return count >= int64(limit), nil
}

func (r *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	cacheKey := rateLimitKey(key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return err
	}
	// Set expiry on the first attempt so the window is fixed
	if count == 1 {
		return r.client.Expire(ctx, cacheKey, window).Err()
	}
	return nil
}

func (r *redisCacheService) ResetRateLimit(ctx context.Context, key string) error {
	return r.client.Del(ctx, rateLimitKey(key)).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (r *redisCacheService) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
