package models

import (
	"encoding/json"
	"time"
)

// Swap is one row of the swaps table. BlockTime is unix seconds.
type Swap struct {
	TxID        string          `db:"tx_id"`
	UserAddress *string         `db:"user_address"`
	BlockTime   *int64          `db:"block_time"`
	SwapDetails json.RawMessage `db:"swap_details"`
}

// SwapFilter narrows swap reads. From and To are inclusive unix seconds.
type SwapFilter struct {
	UserAddress string
	// Contract matches anywhere inside swap_details.
	Contract string
	From     *int64
	To       *int64
}

const (
	SwapPeriodDay   = "day"
	SwapPeriodWeek  = "week"
	SwapPeriodMonth = "month"
)

// ValidSwapPeriod reports whether p is a supported aggregation bucket.
func ValidSwapPeriod(p string) bool {
	switch p {
	case SwapPeriodDay, SwapPeriodWeek, SwapPeriodMonth:
		return true
	}
	return false
}

// SwapPeriodStats aggregates the swaps of one bucket. Period is nil for swaps
// without a block time.
type SwapPeriodStats struct {
	Period      *time.Time `db:"time_period"`
	SwapCount   int64      `db:"swap_count"`
	UniqueUsers int64      `db:"unique_users"`
}

type SwapTotals struct {
	TotalSwaps        int64 `db:"total_swaps"`
	TotalUniqueUsers  int64 `db:"total_unique_users"`
	TotalTransactions int64 `db:"total_transactions"`
}

// SwapStats holds per bucket counts, newest bucket first, and the totals over
// the same filter.
type SwapStats struct {
	Periods []SwapPeriodStats
	Totals  SwapTotals
}
