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
	txColumns = `t.tx_id, t.block_height, t.tx_index, t.sender_address, t.status, t.tx_type,
		t.function_name, t.fee_rate, t.block_time, t.events_processed,
		(SELECT COUNT(*) FROM ` + models.EventsTableName + ` e WHERE e.tx_id = t.tx_id) AS event_count`

	// Newest first. tx_id breaks ties between rows sharing a block position.
	orderNewestFirst = `ORDER BY t.block_height DESC, t.tx_index DESC, t.tx_id DESC`
	orderIntraBlock  = `ORDER BY t.tx_index ASC, t.tx_id ASC`
)

// GetTransaction returns the transaction with txID, or db.ErrNotFound.
func (s *DB) GetTransaction(ctx context.Context, txID string, withEvents bool) (tx *models.Transaction, err error) {
	defer s.track("get_transaction", time.Now(), &err)

	if !models.ValidTxID(txID) {
		return nil, invalidf("malformed transaction id %q", txID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `SELECT ` + txColumns + `, t.raw_data FROM ` + models.TransactionsTableName + ` t WHERE t.tx_id = $1`
	rows, err := s.q.Query(ctx, query, txID)
	if err != nil {
		return nil, translate("get_transaction", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[models.Transaction])
	if err != nil {
		return nil, translate("get_transaction", err)
	}

	if withEvents {
		events, err := s.eventsFor(ctx, []string{row.TxID})
		if err != nil {
			return nil, err
		}
		row.Events = events[row.TxID]
	}

	return &row, nil
}

// ListTransactions returns one page of transactions matching filter, newest
// first, together with the number of matching rows.
func (s *DB) ListTransactions(ctx context.Context, filter models.TransactionFilter, limit, offset int) (txs []models.Transaction, total int64, err error) {
	defer s.track("list_transactions", time.Now(), &err)

	limit, offset, err = s.page(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if filter.Address != "" && !models.ValidAddress(filter.Address) {
		return nil, 0, invalidf("malformed address %q", filter.Address)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	txs, total, err = s.pageWithCount(ctx, "list_transactions", transactionWhere(filter), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// TransactionsByBlock returns every transaction at height in block order.
// A height without transactions yields an empty slice.
func (s *DB) TransactionsByBlock(ctx context.Context, height uint64) (txs []models.Transaction, err error) {
	defer s.track("transactions_by_block", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `SELECT ` + txColumns + ` FROM ` + models.TransactionsTableName + ` t WHERE t.block_height = $1 ` + orderIntraBlock
	rows, err := s.q.Query(ctx, query, int64(height))
	if err != nil {
		return nil, translate("transactions_by_block", err)
	}
	txs, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Transaction])
	if err != nil {
		return nil, translate("transactions_by_block", err)
	}

	if err := s.attachEvents(ctx, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// TransactionsByAddress returns the most recent transactions sent by address.
func (s *DB) TransactionsByAddress(ctx context.Context, address string, limit, offset int) (txs []models.Transaction, total int64, err error) {
	defer s.track("transactions_by_address", time.Now(), &err)

	if !models.ValidAddress(address) {
		return nil, 0, invalidf("malformed address %q", address)
	}
	limit, offset, err = s.page(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	txs, total, err = s.pageWithCount(ctx, "transactions_by_address", transactionWhere(models.TransactionFilter{Address: address}), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// pageWithCount runs the page and count queries concurrently, then hydrates events.
// Each query holds its own pooled connection only while it runs.
func (s *DB) pageWithCount(ctx context.Context, op string, where *whereBuilder, limit, offset int) ([]models.Transaction, int64, error) {
	var (
		txs   []models.Transaction
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := `SELECT COUNT(*) FROM ` + models.TransactionsTableName + ` t ` + where.sql()
		if err := s.q.QueryRow(gctx, query, where.args...).Scan(&total); err != nil {
			return translate(op+"_count", err)
		}
		return nil
	})

	g.Go(func() error {
		n := where.next()
		query := fmt.Sprintf(`SELECT %s FROM %s t %s %s LIMIT $%d OFFSET $%d`,
			txColumns, models.TransactionsTableName, where.sql(), orderNewestFirst, n, n+1)
		args := append(append([]any{}, where.args...), limit, offset)

		rows, err := s.q.Query(gctx, query, args...)
		if err != nil {
			return translate(op, err)
		}
		txs, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.Transaction])
		if err != nil {
			return translate(op, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if err := s.attachEvents(ctx, txs); err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}
