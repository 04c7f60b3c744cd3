package query

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/go-jose/go-jose/v4/json"
	"github.com/kraxel/txquery/pkg/cache"
	"github.com/kraxel/txquery/pkg/config"
	"github.com/kraxel/txquery/pkg/db"
	"github.com/kraxel/txquery/pkg/db/models"
	"go.uber.org/zap"
)

// Recorder counts cache lookups. *metrics.Metrics satisfies it.
type Recorder interface {
	CacheHit()
	CacheMiss()
}

type nopRecorder struct{}

func (nopRecorder) CacheHit()  {}
func (nopRecorder) CacheMiss() {}

type Options struct {
	Cache    cache.Cache
	Recorder Recorder
}

// Service validates client parameters, calls the store and shapes results.
// It knows nothing about HTTP.
type Service struct {
	store    db.Store
	cache    cache.Cache
	recorder Recorder
	cfg      config.QueryConfig
	logger   *zap.Logger
}

func New(store db.Store, cfg config.QueryConfig, logger *zap.Logger, opts Options) *Service {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(20, cfg.MaxLimit)
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 2 * time.Second
	}
	if opts.Cache == nil {
		opts.Cache = cache.Noop{}
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	return &Service{
		store:    store,
		cache:    opts.Cache,
		recorder: opts.Recorder,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "query")),
	}
}

// Transaction looks up one transaction. Events are included unless
// include_events is false.
func (s *Service) Transaction(ctx context.Context, req TransactionRequest) (*TransactionView, error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	withEvents := true
	if req.IncludeEvents != "" {
		withEvents, _ = strconv.ParseBool(req.IncludeEvents)
	}

	key := cacheKey("tx", url.Values{"id": {req.TxID}, "events": {strconv.FormatBool(withEvents)}})
	return cached(ctx, s, key, func(ctx context.Context) (*TransactionView, error) {
		tx, err := s.store.GetTransaction(ctx, req.TxID, withEvents)
		if err != nil {
			return nil, s.fail("transaction", "transaction", err)
		}
		v := newTransactionView(*tx)
		return &v, nil
	})
}

// Transactions lists transactions newest first, optionally filtered.
func (s *Service) Transactions(ctx context.Context, req ListRequest) (*Page[TransactionView], error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	limit, offset, qerr := s.page(req.PageRequest)
	if qerr != nil {
		return nil, qerr
	}
	filter, qerr := parseFilter(req)
	if qerr != nil {
		return nil, qerr
	}

	key := cacheKey("txs", filterParams(filter, limit, offset))
	return cached(ctx, s, key, func(ctx context.Context) (*Page[TransactionView], error) {
		txs, total, err := s.store.ListTransactions(ctx, filter, limit, offset)
		if err != nil {
			return nil, s.fail("transactions", "transaction query", err)
		}
		return &Page[TransactionView]{Items: newTransactionViews(txs), Limit: limit, Offset: offset, Total: total}, nil
	})
}

// TransactionsByBlock returns all transactions of a block. An empty block is
// not an error.
func (s *Service) TransactionsByBlock(ctx context.Context, req BlockRequest) (*BlockTransactions, error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	height, qerr := parseUint("block_height", req.BlockHeight)
	if qerr != nil {
		return nil, qerr
	}

	key := cacheKey("block", url.Values{"height": {strconv.FormatUint(height, 10)}})
	return cached(ctx, s, key, func(ctx context.Context) (*BlockTransactions, error) {
		txs, err := s.store.TransactionsByBlock(ctx, height)
		if err != nil {
			return nil, s.fail("transactions_by_block", "block", err)
		}
		return &BlockTransactions{BlockHeight: height, Transactions: newTransactionViews(txs)}, nil
	})
}

// TransactionsByAddress lists the most recent transactions sent by an address.
func (s *Service) TransactionsByAddress(ctx context.Context, req AddressRequest) (*Page[TransactionView], error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	limit, offset, qerr := s.page(req.PageRequest)
	if qerr != nil {
		return nil, qerr
	}

	key := cacheKey("addr", url.Values{
		"address": {req.Address},
		"limit":   {strconv.Itoa(limit)},
		"offset":  {strconv.Itoa(offset)},
	})
	return cached(ctx, s, key, func(ctx context.Context) (*Page[TransactionView], error) {
		txs, total, err := s.store.TransactionsByAddress(ctx, req.Address, limit, offset)
		if err != nil {
			return nil, s.fail("transactions_by_address", "address", err)
		}
		return &Page[TransactionView]{Items: newTransactionViews(txs), Limit: limit, Offset: offset, Total: total}, nil
	})
}

func (s *Service) Tokens(ctx context.Context, req PageRequest) (*Page[TokenView], error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	limit, offset, qerr := s.page(req)
	if qerr != nil {
		return nil, qerr
	}

	key := cacheKey("tokens", url.Values{"limit": {strconv.Itoa(limit)}, "offset": {strconv.Itoa(offset)}})
	return cached(ctx, s, key, func(ctx context.Context) (*Page[TokenView], error) {
		tokens, total, err := s.store.ListTokens(ctx, limit, offset)
		if err != nil {
			return nil, s.fail("tokens", "token query", err)
		}
		items := make([]TokenView, 0, len(tokens))
		for _, t := range tokens {
			items = append(items, newTokenView(t))
		}
		return &Page[TokenView]{Items: items, Limit: limit, Offset: offset, Total: total}, nil
	})
}

func (s *Service) Token(ctx context.Context, req TokenRequest) (*TokenView, error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}

	key := cacheKey("token", url.Values{"principal": {req.ContractPrincipal}})
	return cached(ctx, s, key, func(ctx context.Context) (*TokenView, error) {
		t, err := s.store.GetToken(ctx, req.ContractPrincipal)
		if err != nil {
			return nil, s.fail("token", "token", err)
		}
		v := newTokenView(*t)
		return &v, nil
	})
}

// Health reports whether the store answers within the health timeout.
// It never reads the cache.
func (s *Service) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.HealthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		qe := fromStore(err, "store")
		if qe.Kind != KindTimeout {
			qe.Kind, qe.Message = KindUnavailable, "transaction store unavailable"
		}
		s.logger.Warn("health check failed", zap.Error(err))
		return qe
	}
	return nil
}

// page resolves limit and offset against the configured bounds.
func (s *Service) page(p PageRequest) (int, int, *Error) {
	limit := s.cfg.DefaultLimit
	if p.Limit != "" {
		n, qerr := parseLimit(p.Limit, s.cfg.MaxLimit)
		if qerr != nil {
			return 0, 0, qerr
		}
		limit = n
	}

	offset := 0
	if p.Offset != "" {
		n, qerr := parseUint("offset", p.Offset)
		if qerr != nil {
			return 0, 0, qerr
		}
		offset = int(n)
	}
	return limit, offset, nil
}

func parseFilter(req ListRequest) (models.TransactionFilter, *Error) {
	f := models.TransactionFilter{Address: req.Address, Status: req.Status, TxType: req.TxType}

	var qerr *Error
	if f.BlockHeight, qerr = parseOptionalUint("block_height", req.BlockHeight); qerr != nil {
		return f, qerr
	}
	if f.MinHeight, qerr = parseOptionalUint("min_height", req.MinHeight); qerr != nil {
		return f, qerr
	}
	if f.MaxHeight, qerr = parseOptionalUint("max_height", req.MaxHeight); qerr != nil {
		return f, qerr
	}
	if f.FromTime, qerr = parseTime("from_time", req.FromTime); qerr != nil {
		return f, qerr
	}
	if f.ToTime, qerr = parseTime("to_time", req.ToTime); qerr != nil {
		return f, qerr
	}

	if f.MinHeight != nil && f.MaxHeight != nil && *f.MinHeight > *f.MaxHeight {
		return f, invalidArg("min_height must not exceed max_height")
	}
	if f.FromTime != nil && f.ToTime != nil && f.FromTime.After(*f.ToTime) {
		return f, invalidArg("from_time must not be after to_time")
	}
	return f, nil
}

// filterParams is the normalized form of a list query, used as cache key.
func filterParams(f models.TransactionFilter, limit, offset int) url.Values {
	v := url.Values{"limit": {strconv.Itoa(limit)}, "offset": {strconv.Itoa(offset)}}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("address", f.Address)
	set("status", f.Status)
	set("tx_type", f.TxType)
	for k, h := range map[string]*uint64{"block_height": f.BlockHeight, "min_height": f.MinHeight, "max_height": f.MaxHeight} {
		if h != nil {
			v.Set(k, strconv.FormatUint(*h, 10))
		}
	}
	if f.FromTime != nil {
		v.Set("from_time", strconv.FormatInt(f.FromTime.Unix(), 10))
	}
	if f.ToTime != nil {
		v.Set("to_time", strconv.FormatInt(f.ToTime.Unix(), 10))
	}
	return v
}

// cacheKey encodes params in sorted order so equal queries share a key.
func cacheKey(op string, params url.Values) string {
	return op + "?" + params.Encode()
}

// cached serves key from the cache or runs load and stores its result.
// Failed loads are never stored.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	if b, ok := s.cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			s.recorder.CacheHit()
			return v, nil
		}
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
	}
	s.recorder.CacheMiss()

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if b, err := json.Marshal(v); err == nil {
		s.cache.Set(ctx, key, b)
	} else {
		s.logger.Warn("result not cacheable", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

// fail converts a store error and logs it when it points at a defect.
func (s *Service) fail(op, what string, err error) error {
	qe := fromStore(err, what)
	if qe.Kind == KindInternal {
		s.logger.Error("query failed", zap.String("op", op), zap.Error(err))
	}
	return qe
}
