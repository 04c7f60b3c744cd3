package txstore

import (
	"context"
	"time"

	"github.com/kraxel/txquery/pkg/db"
	"github.com/kraxel/txquery/pkg/db/postgres"
	"go.uber.org/zap"
)

// Observer receives the duration and outcome of every store call.
type Observer func(op, outcome string, took time.Duration)

// Options bounds what a single call may ask of the database.
type Options struct {
	// MaxLimit clamps page sizes.
	MaxLimit int
	// Timeout bounds each call, including the event hydration query.
	Timeout  time.Duration
	Observer Observer
	// Prices serves the price tables. Nil reads them through the main querier.
	Prices postgres.Querier
}

// DB reads transactions, events, tokens, swaps and prices from PostgreSQL.
type DB struct {
	q        postgres.Querier
	prices   postgres.Querier
	logger   *zap.Logger
	maxLimit int
	timeout  time.Duration
	observe  Observer
}

var _ db.Store = (*DB)(nil)

// New returns a store over q. q is typically the pool of a postgres.Client.
func New(q postgres.Querier, logger *zap.Logger, opts Options) *DB {
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Observer == nil {
		opts.Observer = func(string, string, time.Duration) {}
	}
	if opts.Prices == nil {
		opts.Prices = q
	}
	return &DB{
		q:        q,
		prices:   opts.Prices,
		logger:   logger.With(zap.String("component", "txstore")),
		maxLimit: opts.MaxLimit,
		timeout:  opts.Timeout,
		observe:  opts.Observer,
	}
}

// Ping checks the store is reachable.
func (s *DB) Ping(ctx context.Context) (err error) {
	defer s.track("ping", time.Now(), &err)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return translate("ping", s.q.Ping(ctx))
}

// track records the call once it returns. errp points at the named result.
func (s *DB) track(op string, start time.Time, errp *error) {
	took := time.Since(start)
	outcome := db.Outcome(*errp)
	s.observe(op, outcome, took)

	switch outcome {
	case db.OutcomeInternal:
		s.logger.Error("store call failed", zap.String("op", op), zap.Duration("took", took), zap.Error(*errp))
	case db.OutcomeUnavailable, db.OutcomeTimeout:
		s.logger.Warn("store call failed", zap.String("op", op), zap.Duration("took", took), zap.Error(*errp))
	default:
		s.logger.Debug("store call", zap.String("op", op), zap.String("outcome", outcome), zap.Duration("took", took))
	}
}

// page validates and clamps limit/offset.
func (s *DB) page(limit, offset int) (int, int, error) {
	if limit <= 0 {
		return 0, 0, invalidf("limit must be positive, got %d", limit)
	}
	if offset < 0 {
		return 0, 0, invalidf("offset must not be negative, got %d", offset)
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return limit, offset, nil
}
