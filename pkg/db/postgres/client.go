package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kraxel/txquery/pkg/config"
	"github.com/kraxel/txquery/pkg/retry"
	"go.uber.org/zap"
)

// Querier is the read subset of *pgxpool.Pool. Store code depends on it so a
// transaction or a single connection could stand in for the pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Client wraps a PostgreSQL connection pool
type Client struct {
	Logger *zap.Logger
	Pool   *pgxpool.Pool
}

// New opens the pool described by cfg and waits until the database answers a ping.
// statementTimeout is installed as the server-side statement_timeout of every session.
func New(ctx context.Context, logger *zap.Logger, cfg config.PostgresConfig, statementTimeout time.Duration) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if statementTimeout > 0 {
		poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(statementTimeout.Milliseconds(), 10)
	}
	// The service never writes.
	poolCfg.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"

	client := &Client{Logger: logger}

	retryErr := retry.WithBackoff(ctx, retry.StartupConfig(cfg.StartupRetries), logger, "postgres_connection", func() error {
		pool, openErr := pgxpool.NewWithConfig(ctx, poolCfg)
		if openErr != nil {
			return retry.Permanent(fmt.Errorf("failed to create postgres connection pool: %w", openErr))
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()

		if pingErr := pool.Ping(pingCtx); pingErr != nil {
			pool.Close()
			return fmt.Errorf("failed to ping postgres: %w", pingErr)
		}

		client.Pool = pool
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	logger.Info("PostgreSQL connection pool configured",
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.Int32("min_conns", cfg.MinConns),
		zap.Int32("max_conns", cfg.MaxConns),
		zap.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		zap.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime),
		zap.Duration("statement_timeout", statementTimeout),
	)

	return client, nil
}

// Querier returns the pool as a Querier.
func (c *Client) Querier() Querier {
	return c.Pool
}

// Stats returns a snapshot of pool usage for logging.
func (c *Client) Stats() []zap.Field {
	s := c.Pool.Stat()
	return []zap.Field{
		zap.Int32("total_conns", s.TotalConns()),
		zap.Int32("idle_conns", s.IdleConns()),
		zap.Int32("acquired_conns", s.AcquiredConns()),
		zap.Int64("empty_acquire_count", s.EmptyAcquireCount()),
	}
}

// Close closes the connection pool
func (c *Client) Close() {
	c.Pool.Close()
}

// IsNoRows checks if the error is a "no rows" error
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// PgErrorCode returns the SQLSTATE carried by err, or "" when err did not come from the server.
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
