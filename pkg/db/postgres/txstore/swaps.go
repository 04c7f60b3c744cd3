package txstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kraxel/txquery/pkg/db/models"
	"golang.org/x/sync/errgroup"
)

const (
	swapColumns = `tx_id, user_address, CAST(block_time AS BIGINT) AS block_time, swap_details`

	orderSwapsNewestFirst = `ORDER BY CAST(block_time AS BIGINT) DESC NULLS LAST, tx_id ASC`
)

// ListSwaps returns one page of swaps matching filter, latest block time
// first, together with the number of matching rows.
func (s *DB) ListSwaps(ctx context.Context, filter models.SwapFilter, limit, offset int) (swaps []models.Swap, total int64, err error) {
	defer s.track("list_swaps", time.Now(), &err)

	limit, offset, err = s.page(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if err := checkSwapFilter(filter); err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	where := swapWhere(filter)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := `SELECT COUNT(*) FROM ` + models.SwapsTableName + ` ` + where.sql()
		if err := s.q.QueryRow(gctx, query, where.args...).Scan(&total); err != nil {
			return translate("list_swaps_count", err)
		}
		return nil
	})

	g.Go(func() error {
		n := where.next()
		query := fmt.Sprintf(`SELECT %s FROM %s %s %s LIMIT $%d OFFSET $%d`,
			swapColumns, models.SwapsTableName, where.sql(), orderSwapsNewestFirst, n, n+1)
		args := append(append([]any{}, where.args...), limit, offset)

		rows, err := s.q.Query(gctx, query, args...)
		if err != nil {
			return translate("list_swaps", err)
		}
		swaps, err = pgx.CollectRows(rows, pgx.RowToStructByName[models.Swap])
		return translate("list_swaps", err)
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return swaps, total, nil
}

// SwapStats buckets the swaps matching filter by UTC period, newest bucket first.
func (s *DB) SwapStats(ctx context.Context, period string, filter models.SwapFilter) (stats *models.SwapStats, err error) {
	defer s.track("swap_stats", time.Now(), &err)

	if !models.ValidSwapPeriod(period) {
		return nil, invalidf("unsupported period %q", period)
	}
	if err := checkSwapFilter(filter); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	where := swapWhere(filter)
	stats = &models.SwapStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := fmt.Sprintf(`
			SELECT date_trunc($%d, to_timestamp(CAST(block_time AS BIGINT)) AT TIME ZONE 'UTC') AS time_period,
				COUNT(*) AS swap_count,
				COUNT(DISTINCT user_address) AS unique_users
			FROM %s %s
			GROUP BY time_period
			ORDER BY time_period DESC NULLS LAST`,
			where.next(), models.SwapsTableName, where.sql())
		args := append(append([]any{}, where.args...), period)

		rows, err := s.q.Query(gctx, query, args...)
		if err != nil {
			return translate("swap_stats", err)
		}
		stats.Periods, err = pgx.CollectRows(rows, pgx.RowToStructByName[models.SwapPeriodStats])
		return translate("swap_stats", err)
	})

	g.Go(func() error {
		query := `SELECT COUNT(*) AS total_swaps,
				COUNT(DISTINCT user_address) AS total_unique_users,
				COUNT(DISTINCT tx_id) AS total_transactions
			FROM ` + models.SwapsTableName + ` ` + where.sql()
		rows, err := s.q.Query(gctx, query, where.args...)
		if err != nil {
			return translate("swap_stats_totals", err)
		}
		stats.Totals, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.SwapTotals])
		return translate("swap_stats_totals", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func checkSwapFilter(f models.SwapFilter) error {
	if f.UserAddress != "" && !models.ValidAddress(f.UserAddress) {
		return invalidf("malformed user address %q", f.UserAddress)
	}
	if f.Contract != "" && !models.ValidAddress(f.Contract) {
		return invalidf("malformed contract principal %q", f.Contract)
	}
	if f.From != nil && f.To != nil && *f.From > *f.To {
		return invalidf("start of range %d is after its end %d", *f.From, *f.To)
	}
	return nil
}
