package cache

import (
	"context"
	"fmt"

	"github.com/kraxel/txquery/pkg/config"
	"go.uber.org/zap"
)

// Cache holds encoded query results for a bounded time.
// Implementations never fail a request: backend errors read as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Close() error
}

// New builds the backend selected by cfg.Cache.Backend.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendNone:
		return Noop{}, nil
	case config.CacheBackendMemory:
		return NewMemory(cfg.Cache.TTL, cfg.Cache.MaxEntries), nil
	case config.CacheBackendRedis:
		return NewRedis(ctx, cfg.Redis, cfg.Cache, logger)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Noop caches nothing.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte)        {}
func (Noop) Close() error                               { return nil }
