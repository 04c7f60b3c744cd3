package models

import (
	"encoding/json"
	"time"
)

// Tables read by the query layer. The ingestion process owns their schema.
const (
	TransactionsTableName = "transactions"
	EventsTableName       = "events"
	TokensTableName       = "tokens"
	SwapsTableName        = "swaps"
	PricesTableName       = "wprices"
)

// Transaction is one row of the transactions table as read by the query layer.
// Optional columns are pointers so NULL survives the round trip.
type Transaction struct {
	TxID            string     `db:"tx_id"`
	BlockHeight     uint64     `db:"block_height"`
	TxIndex         int32      `db:"tx_index"` // position inside the block
	SenderAddress   *string    `db:"sender_address"`
	Status          *string    `db:"status"`
	TxType          *string    `db:"tx_type"`
	FunctionName    *string    `db:"function_name"`
	FeeRate         *string    `db:"fee_rate"`
	BlockTime       *time.Time `db:"block_time"`
	EventsProcessed bool       `db:"events_processed"`
	EventCount      int64      `db:"event_count"`

	// Only selected by the single-transaction lookup.
	RawData json.RawMessage `db:"raw_data"`

	Events []Event `db:"-"`
}

// Event is an ordered sub-record of a transaction.
type Event struct {
	TxID       string          `db:"tx_id"`
	EventIndex int32           `db:"event_index"`
	EventType  string          `db:"event_type"`
	EventData  json.RawMessage `db:"event_data"`
	CreatedAt  *time.Time      `db:"created_at"`
}

// TransactionFilter narrows ListTransactions. Zero values mean "no constraint".
type TransactionFilter struct {
	Address     string
	Status      string
	TxType      string
	BlockHeight *uint64
	MinHeight   *uint64
	MaxHeight   *uint64
	FromTime    *time.Time
	ToTime      *time.Time
}
