package db

import (
	"context"

	"github.com/kraxel/txquery/pkg/db/models"
)

// TransactionStore is the single read path to persisted transactions and their events.
// Returned transactions always carry their events ordered by event index.
type TransactionStore interface {
	GetTransaction(ctx context.Context, txID string, withEvents bool) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter, limit, offset int) ([]models.Transaction, int64, error)
	TransactionsByBlock(ctx context.Context, height uint64) ([]models.Transaction, error)
	TransactionsByAddress(ctx context.Context, address string, limit, offset int) ([]models.Transaction, int64, error)
}

// TokenStore exposes token metadata.
type TokenStore interface {
	ListTokens(ctx context.Context, limit, offset int) ([]models.Token, int64, error)
	GetToken(ctx context.Context, contractPrincipal string) (*models.Token, error)
}

// SwapStore reads decoded DEX swaps, newest block time first.
type SwapStore interface {
	ListSwaps(ctx context.Context, filter models.SwapFilter, limit, offset int) ([]models.Swap, int64, error)
	SwapStats(ctx context.Context, period string, filter models.SwapFilter) (*models.SwapStats, error)
}

// PriceStore reads price snapshots. They may live in a separate database.
type PriceStore interface {
	LatestPrices(ctx context.Context) ([]models.Price, error)
	PriceHistory(ctx context.Context, contractPrincipal string, limit, offset int) ([]models.Price, int64, error)
}

// Store is everything the query service reads from.
type Store interface {
	TransactionStore
	TokenStore
	SwapStore
	PriceStore
	Ping(ctx context.Context) error
}
