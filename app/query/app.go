package query

import (
	"context"
	"fmt"

	"github.com/kraxel/txquery/app/query/types"
	"github.com/kraxel/txquery/pkg/cache"
	"github.com/kraxel/txquery/pkg/config"
	"github.com/kraxel/txquery/pkg/db/postgres"
	"github.com/kraxel/txquery/pkg/db/postgres/txstore"
	"github.com/kraxel/txquery/pkg/logging"
	"github.com/kraxel/txquery/pkg/metrics"
	"github.com/kraxel/txquery/pkg/query"
	"go.uber.org/zap"
)

// Initialize connects to the store and builds every component of the app.
func Initialize(ctx context.Context, cfg *config.Config) (*types.App, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	m := metrics.New()

	client, err := postgres.New(ctx, logger, cfg.Postgres, cfg.Query.Timeout)
	if err != nil {
		return nil, fmt.Errorf("connect transaction store: %w", err)
	}

	opts := txstore.Options{
		MaxLimit: cfg.Query.MaxLimit,
		Timeout:  cfg.Query.Timeout,
		Observer: m.ObserveStore,
	}
	var pricesClient *postgres.Client
	if cfg.Prices.URL != "" {
		pricesClient, err = postgres.New(ctx, logger.With(zap.String("pool", "prices")), cfg.PricesPool(), cfg.Query.Timeout)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("connect prices store: %w", err)
		}
		opts.Prices = pricesClient.Querier()
	}

	store := txstore.New(client.Querier(), logger, opts)

	// The cache is optional: an unreachable Redis degrades to no caching.
	resultCache, err := cache.New(ctx, cfg, logger)
	if err != nil {
		logger.Warn("Result cache unavailable, serving uncached", zap.String("backend", cfg.Cache.Backend), zap.Error(err))
		resultCache = cache.Noop{}
	} else {
		logger.Info("Result cache ready", zap.String("backend", cfg.Cache.Backend), zap.Duration("ttl", cfg.Cache.TTL))
	}

	svc := query.New(store, cfg.Query, logger, query.Options{Cache: resultCache, Recorder: m})

	return &types.App{
		Config:  cfg,
		DB:       client,
		PricesDB: pricesClient,
		Cache:    resultCache,
		Metrics:  m,
		Service:  svc,
		Logger:   logger,
	}, nil
}
