package txstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kraxel/txquery/pkg/db/models"
	"golang.org/x/sync/errgroup"
)

const priceColumns = `contract_principal, price, tvl, updated_at, created_at`

// LatestPrices returns the most recently updated snapshot of every token,
// ordered by contract principal.
func (s *DB) LatestPrices(ctx context.Context) (prices []models.Price, err error) {
	defer s.track("latest_prices", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `SELECT DISTINCT ON (contract_principal) ` + priceColumns + `
		FROM ` + models.PricesTableName + `
		ORDER BY contract_principal, updated_at DESC NULLS LAST`
	rows, err := s.prices.Query(ctx, query)
	if err != nil {
		return nil, translate("latest_prices", err)
	}
	prices, err = pgx.CollectRows(rows, pgx.RowToStructByName[models.Price])
	if err != nil {
		return nil, translate("latest_prices", err)
	}
	return prices, nil
}

// PriceHistory returns one page of snapshots for contractPrincipal, newest first.
// An unknown principal yields an empty page.
func (s *DB) PriceHistory(ctx context.Context, contractPrincipal string, limit, offset int) (prices []models.Price, total int64, err error) {
	defer s.track("price_history", time.Now(), &err)

	if !models.ValidAddress(contractPrincipal) {
		return nil, 0, invalidf("malformed contract principal %q", contractPrincipal)
	}
	limit, offset, err = s.page(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := `SELECT COUNT(*) FROM ` + models.PricesTableName + ` WHERE contract_principal = $1`
		if err := s.prices.QueryRow(gctx, query, contractPrincipal).Scan(&total); err != nil {
			return translate("price_history_count", err)
		}
		return nil
	})
	g.Go(func() error {
		query := `SELECT ` + priceColumns + ` FROM ` + models.PricesTableName + `
			WHERE contract_principal = $1
			ORDER BY created_at DESC NULLS LAST, updated_at DESC NULLS LAST
			LIMIT $2 OFFSET $3`
		rows, err := s.prices.Query(gctx, query, contractPrincipal, limit, offset)
		if err != nil {
			return translate("price_history", err)
		}
		prices, err = pgx.CollectRows(rows, pgx.RowToStructByName[models.Price])
		return translate("price_history", err)
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return prices, total, nil
}
