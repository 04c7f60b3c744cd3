package types

import (
	"context"
	"errors"
	"net/http"

	"github.com/kraxel/txquery/pkg/cache"
	"github.com/kraxel/txquery/pkg/config"
	"github.com/kraxel/txquery/pkg/db/postgres"
	"github.com/kraxel/txquery/pkg/metrics"
	"github.com/kraxel/txquery/pkg/query"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	// DB owns the connection pool. Nil in tests that run over a fake store.
	DB *postgres.Client
	// PricesDB is set only when prices live in their own database.
	PricesDB *postgres.Client
	Cache    cache.Cache
	Metrics  *metrics.Metrics
	Service  *query.Service
	// Zap Logger
	Logger *zap.Logger
	// Server represents the HTTP server instance used to handle incoming client requests and manage HTTP routes.
	Server *http.Server
}

// Start serves until ctx is cancelled or the listener fails, then shuts down
// the server and releases the cache and the pool.
func (a *App) Start(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		a.Logger.Info("Starting server", zap.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			a.Logger.Error("Server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout)
	defer cancel()

	if shutdownErr := a.Server.Shutdown(shutdownCtx); shutdownErr != nil {
		a.Logger.Warn("Server shutdown incomplete", zap.Error(shutdownErr))
	}
	a.Close()
	a.Logger.Info("さようなら!")
	return err
}

// Close releases the cache and the database pool.
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Error("Failed to close cache", zap.Error(err))
		}
	}
	if a.DB != nil {
		a.Logger.Info("Closing transaction store pool", a.DB.Stats()...)
		a.DB.Close()
	}
	if a.PricesDB != nil {
		a.Logger.Info("Closing prices pool", a.PricesDB.Stats()...)
		a.PricesDB.Close()
	}
	_ = a.Logger.Sync()
}
