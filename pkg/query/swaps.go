package query

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kraxel/txquery/pkg/db/models"
)

// Swaps lists swaps by latest block time, optionally limited to a date range.
func (s *Service) Swaps(ctx context.Context, req SwapsRequest) (*Page[SwapView], error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	return s.swapPage(ctx, "swaps", req.PageRequest, req.DateRange, models.SwapFilter{})
}

// SwapsByContract lists swaps whose details mention a contract principal.
func (s *Service) SwapsByContract(ctx context.Context, req SwapsByContractRequest) (*Page[SwapView], error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	return s.swapPage(ctx, "swaps_by_contract", req.PageRequest, req.DateRange,
		models.SwapFilter{Contract: req.ContractPrincipal, UserAddress: req.UserAddress})
}

// SwapsByUser lists the swaps made by one address.
func (s *Service) SwapsByUser(ctx context.Context, req SwapsByUserRequest) (*Page[SwapView], error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	return s.swapPage(ctx, "swaps_by_user", req.PageRequest, req.DateRange,
		models.SwapFilter{UserAddress: req.UserAddress})
}

// SwapStats counts swaps and distinct users per day, week or month. The period
// defaults to day.
func (s *Service) SwapStats(ctx context.Context, req SwapStatsRequest) (*SwapStatsView, error) {
	if qerr := check(req); qerr != nil {
		return nil, qerr
	}
	period := req.Period
	if period == "" {
		period = models.SwapPeriodDay
	}
	filter := models.SwapFilter{Contract: req.Token}
	var qerr *Error
	if filter.From, filter.To, qerr = parseDateRange(req.DateRange); qerr != nil {
		return nil, qerr
	}

	params := swapParams(filter)
	params.Set("period", period)
	return cached(ctx, s, cacheKey("swap_stats", params), func(ctx context.Context) (*SwapStatsView, error) {
		st, err := s.store.SwapStats(ctx, period, filter)
		if err != nil {
			return nil, s.fail("swap_stats", "swap query", err)
		}
		v := newSwapStatsView(period, *st)
		return &v, nil
	})
}

func (s *Service) swapPage(ctx context.Context, op string, p PageRequest, dr DateRange, filter models.SwapFilter) (*Page[SwapView], error) {
	limit, offset, qerr := s.page(p)
	if qerr != nil {
		return nil, qerr
	}
	if filter.From, filter.To, qerr = parseDateRange(dr); qerr != nil {
		return nil, qerr
	}

	params := swapParams(filter)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	return cached(ctx, s, cacheKey(op, params), func(ctx context.Context) (*Page[SwapView], error) {
		swaps, total, err := s.store.ListSwaps(ctx, filter, limit, offset)
		if err != nil {
			return nil, s.fail(op, "swap query", err)
		}
		return &Page[SwapView]{Items: newSwapViews(swaps), Limit: limit, Offset: offset, Total: total}, nil
	})
}

func swapParams(f models.SwapFilter) url.Values {
	v := url.Values{}
	if f.UserAddress != "" {
		v.Set("user", f.UserAddress)
	}
	if f.Contract != "" {
		v.Set("contract", f.Contract)
	}
	if f.From != nil {
		v.Set("from", strconv.FormatInt(*f.From, 10))
	}
	if f.To != nil {
		v.Set("to", strconv.FormatInt(*f.To, 10))
	}
	return v
}
