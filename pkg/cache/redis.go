package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kraxel/txquery/pkg/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis shares cached results between replicas.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
	prefix string
}

// NewRedis connects and pings the server once. A failed ping is a startup error.
func NewRedis(ctx context.Context, rcfg config.RedisConfig, ccfg config.CacheConfig, logger *zap.Logger) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     rcfg.Addr,
		Password: rcfg.Password,
		DB:       rcfg.DB,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", rcfg.Addr, err)
	}

	logger.Info("Connected to Redis cache",
		zap.String("addr", rcfg.Addr),
		zap.Int("db", rcfg.DB),
		zap.Duration("ttl", ccfg.TTL))

	return newRedis(rdb, logger, ccfg.TTL, ccfg.KeyPrefix), nil
}

func newRedis(rdb *redis.Client, logger *zap.Logger, ttl time.Duration, prefix string) *Redis {
	return &Redis{client: rdb, logger: logger, ttl: ttl, prefix: prefix}
}

func (r *Redis) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("Redis cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return b, true
}

// Set is best-effort; errors are logged and dropped.
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if r.ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		r.logger.Warn("Redis cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
