package txstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kraxel/txquery/pkg/db/models"
)

// eventsFor loads the events of txIDs in one round trip, grouped by tx id and
// ordered by event index.
func (s *DB) eventsFor(ctx context.Context, txIDs []string) (map[string][]models.Event, error) {
	out := make(map[string][]models.Event, len(txIDs))
	if len(txIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT tx_id, event_index, event_type, event_data, created_at
		FROM ` + models.EventsTableName + `
		WHERE tx_id = ANY($1)
		ORDER BY tx_id, event_index
	`
	rows, err := s.q.Query(ctx, query, txIDs)
	if err != nil {
		return nil, translate("events", err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Event])
	if err != nil {
		return nil, translate("events", err)
	}

	for _, ev := range events {
		out[ev.TxID] = append(out[ev.TxID], ev)
	}
	return out, nil
}

// attachEvents fills Events on every element of txs in place.
func (s *DB) attachEvents(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	ids := make([]string, len(txs))
	for i := range txs {
		ids[i] = txs[i].TxID
	}

	byTx, err := s.eventsFor(ctx, ids)
	if err != nil {
		return err
	}
	for i := range txs {
		txs[i].Events = byTx[txs[i].TxID]
	}
	return nil
}
