package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/amirasaad/txnimport/pkg/cache"
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/redis/go-redis/v9"
)

// RedisPredictionCache implements PredictionCache using Redis.
type RedisPredictionCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisPredictionCache creates a RedisPredictionCache from a redis:// URL.
func NewRedisPredictionCache(
	cfg *config.Redis,
	prefix string,
	logger *slog.Logger,
) (*RedisPredictionCache, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout
	return NewRedisPredictionCacheWithOptions(opt, prefix, logger), nil
}

// NewRedisPredictionCacheWithOptions creates a new RedisPredictionCache
// from redis.Options.
func NewRedisPredictionCacheWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisPredictionCache {
	if logger == nil {
		logger = slog.Default()
	}
	client := redis.NewClient(opt)
	return &RedisPredictionCache{client: client, prefix: prefix, logger: logger}
}

func (r *RedisPredictionCache) key(key string) string {
	return r.prefix + key
}

// Ping checks the connection.
func (r *RedisPredictionCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisPredictionCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return "", false, err
	}
	r.logger.Debug("Redis cache hit", "key", key, "category", val)
	return val, true, nil
}

func (r *RedisPredictionCache) Set(
	ctx context.Context,
	key, name string,
	ttl time.Duration,
) error {
	if err := r.client.Set(ctx, r.key(key), name, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "category", name, "ttl", ttl)
	return nil
}

func (r *RedisPredictionCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "key", key)
	return nil
}

// Close releases the underlying connection pool.
func (r *RedisPredictionCache) Close() error {
	return r.client.Close()
}

var _ cache.PredictionCache = (*RedisPredictionCache)(nil)
