package query

import (
	"context"
	"net/url"
	"strconv"
)

// LatestPrices returns the newest snapshot of every priced token.
func (s *Service) LatestPrices(ctx context.Context) ([]PriceView, error) {
	return cached(ctx, s, cacheKey("latest_prices", nil), func(ctx context.Context) ([]PriceView, error) {
		prices, err := s.store.LatestPrices(ctx)
		if err != nil {
			return nil, s.fail("latest_prices", "price query", err)
		}
		return newPriceViews(prices), nil
	})
}

// PriceHistory pages through the snapshots of one token, newest first.
func (s *Service) PriceHistory(ctx context.Context, req PriceHistoryRequest) (*Page[PriceView], error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	limit, offset, qerr := s.page(req.PageRequest)
	if qerr != nil {
		return nil, qerr
	}

	key := cacheKey("price_history", url.Values{
		"principal": {req.ContractPrincipal},
		"limit":     {strconv.Itoa(limit)},
		"offset":    {strconv.Itoa(offset)},
	})
	return cached(ctx, s, key, func(ctx context.Context) (*Page[PriceView], error) {
		prices, total, err := s.store.PriceHistory(ctx, req.ContractPrincipal, limit, offset)
		if err != nil {
			return nil, s.fail("price_history", "price query", err)
		}
		return &Page[PriceView]{Items: newPriceViews(prices), Limit: limit, Offset: offset, Total: total}, nil
	})
}
