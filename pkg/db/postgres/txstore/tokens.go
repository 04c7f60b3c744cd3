package txstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kraxel/txquery/pkg/db/models"
	"golang.org/x/sync/errgroup"
)

const tokenColumns = `contract_principal, asset_identifier, name, symbol, image_uri,
	decimals_from_contract, total_supply_from_contract`

// ListTokens returns one page of tokens ordered by symbol and name.
func (s *DB) ListTokens(ctx context.Context, limit, offset int) (tokens []models.Token, total int64, err error) {
	defer s.track("list_tokens", time.Now(), &err)

	limit, offset, err = s.page(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.q.QueryRow(gctx, `SELECT COUNT(*) FROM ` + models.TokensTableName).Scan(&total); err != nil {
			return translate("list_tokens_count", err)
		}
		return nil
	})
	g.Go(func() error {
		query := `SELECT ` + tokenColumns + ` FROM ` + models.TokensTableName + `
			ORDER BY symbol ASC NULLS LAST, name ASC NULLS LAST, contract_principal ASC
			LIMIT $1 OFFSET $2`
		rows, err := s.q.Query(gctx, query, limit, offset)
		if err != nil {
			return translate("list_tokens", err)
		}
		tokens, err = pgx.CollectRows(rows, pgx.RowToStructByName[models.Token])
		return translate("list_tokens", err)
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return tokens, total, nil
}

// GetToken returns the token deployed at contractPrincipal, or db.ErrNotFound.
func (s *DB) GetToken(ctx context.Context, contractPrincipal string) (token *models.Token, err error) {
	defer s.track("get_token", time.Now(), &err)

	if !models.ValidAddress(contractPrincipal) {
		return nil, invalidf("malformed contract principal %q", contractPrincipal)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.q.Query(ctx, `SELECT `+tokenColumns+` FROM `+models.TokensTableName+` WHERE contract_principal = $1`, contractPrincipal)
	if err != nil {
		return nil, translate("get_token", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Token])
	if err != nil {
		return nil, translate("get_token", err)
	}
	return &row, nil
}
