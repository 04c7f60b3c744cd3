package query

import (
	"encoding/json"
	"time"

	"github.com/kraxel/txquery/pkg/db/models"
)

type EventView struct {
	TxID       string          `json:"tx_id"`
	EventIndex int32           `json:"event_index"`
	EventType  string          `json:"event_type"`
	EventData  json.RawMessage `json:"event_data"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
}

// TransactionView is the client-facing shape of a transaction. Events is
// never nil so it always encodes as an array.
type TransactionView struct {
	TxID            string          `json:"tx_id"`
	BlockHeight     uint64          `json:"block_height"`
	TxIndex         int32           `json:"tx_index"`
	SenderAddress   *string         `json:"sender_address"`
	Status          *string         `json:"status"`
	TxType          *string         `json:"tx_type"`
	FunctionName    *string         `json:"function_name"`
	FeeRate         *string         `json:"fee_rate"`
	BlockTime       *int64          `json:"block_time"`
	Timestamp       *string         `json:"timestamp"`
	EventsProcessed bool            `json:"events_processed"`
	EventCount      int64           `json:"event_count"`
	RawData         json.RawMessage `json:"raw_data,omitempty"`
	Events          []EventView     `json:"events"`
}

type TokenView struct {
	ContractPrincipal string   `json:"contract_principal"`
	AssetIdentifier   *string  `json:"asset_identifier"`
	Name              *string  `json:"name"`
	Symbol            *string  `json:"symbol"`
	ImageURI          *string  `json:"image_uri"`
	Decimals          *float64 `json:"decimals"`
	TotalSupply       *float64 `json:"total_supply"`
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// BlockTransactions lists every transaction of one block in block order.
type BlockTransactions struct {
	BlockHeight  uint64            `json:"block_height"`
	Transactions []TransactionView `json:"transactions"`
}

func newTransactionView(tx models.Transaction) TransactionView {
	v := TransactionView{
		TxID:            tx.TxID,
		BlockHeight:     tx.BlockHeight,
		TxIndex:         tx.TxIndex,
		SenderAddress:   tx.SenderAddress,
		Status:          tx.Status,
		TxType:          tx.TxType,
		FunctionName:    tx.FunctionName,
		FeeRate:         tx.FeeRate,
		EventsProcessed: tx.EventsProcessed,
		EventCount:      tx.EventCount,
		RawData:         tx.RawData,
		Events:          make([]EventView, 0, len(tx.Events)),
	}
	if tx.BlockTime != nil {
		secs := tx.BlockTime.Unix()
		ts := tx.BlockTime.UTC().Format(time.RFC3339)
		v.BlockTime, v.Timestamp = &secs, &ts
	}
	for _, ev := range tx.Events {
		v.Events = append(v.Events, EventView{
			TxID:       ev.TxID,
			EventIndex: ev.EventIndex,
			EventType:  ev.EventType,
			EventData:  ev.EventData,
			CreatedAt:  ev.CreatedAt,
		})
	}
	return v
}

func newTransactionViews(txs []models.Transaction) []TransactionView {
	out := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, newTransactionView(tx))
	}
	return out
}

func newTokenView(t models.Token) TokenView {
	return TokenView{
		ContractPrincipal: t.ContractPrincipal,
		AssetIdentifier:   t.AssetIdentifier,
		Name:              t.Name,
		Symbol:            t.Symbol,
		ImageURI:          t.ImageURI,
		Decimals:          t.Decimals,
		TotalSupply:       t.TotalSupply,
	}
}

// SwapView carries swap_details exactly as stored.
type SwapView struct {
	TxID        string          `json:"tx_id"`
	UserAddress *string         `json:"user_address"`
	BlockTime   *int64          `json:"block_time"`
	Timestamp   *string         `json:"timestamp"`
	SwapDetails json.RawMessage `json:"swap_details"`
}

type SwapPeriodView struct {
	// Period is the first day of the bucket, or nil for swaps without a time.
	Period      *string `json:"period"`
	SwapCount   int64   `json:"swap_count"`
	UniqueUsers int64   `json:"unique_users"`
}

type SwapTotalsView struct {
	TotalSwaps        int64 `json:"total_swaps"`
	TotalUniqueUsers  int64 `json:"total_unique_users"`
	TotalTransactions int64 `json:"total_transactions"`
}

type SwapStatsView struct {
	Period      string           `json:"period"`
	PeriodStats []SwapPeriodView `json:"period_stats"`
	TotalStats  SwapTotalsView   `json:"total_stats"`
}

type PriceView struct {
	ContractPrincipal string     `json:"contract_principal"`
	Price             *float64   `json:"price"`
	TVL               *float64   `json:"tvl"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

func newSwapViews(swaps []models.Swap) []SwapView {
	out := make([]SwapView, 0, len(swaps))
	for _, sw := range swaps {
		v := SwapView{
			TxID:        sw.TxID,
			UserAddress: sw.UserAddress,
			BlockTime:   sw.BlockTime,
			SwapDetails: sw.SwapDetails,
		}
		if sw.BlockTime != nil {
			ts := time.Unix(*sw.BlockTime, 0).UTC().Format(time.RFC3339)
			v.Timestamp = &ts
		}
		out = append(out, v)
	}
	return out
}

func newSwapStatsView(period string, st models.SwapStats) SwapStatsView {
	v := SwapStatsView{
		Period:      period,
		PeriodStats: make([]SwapPeriodView, 0, len(st.Periods)),
		TotalStats: SwapTotalsView{
			TotalSwaps:        st.Totals.TotalSwaps,
			TotalUniqueUsers:  st.Totals.TotalUniqueUsers,
			TotalTransactions: st.Totals.TotalTransactions,
		},
	}
	for _, p := range st.Periods {
		pv := SwapPeriodView{SwapCount: p.SwapCount, UniqueUsers: p.UniqueUsers}
		if p.Period != nil {
			day := p.Period.UTC().Format(dateLayout)
			pv.Period = &day
		}
		v.PeriodStats = append(v.PeriodStats, pv)
	}
	return v
}

func newPriceViews(prices []models.Price) []PriceView {
	out := make([]PriceView, 0, len(prices))
	for _, p := range prices {
		out = append(out, PriceView{
			ContractPrincipal: p.ContractPrincipal,
			Price:             p.Price,
			TVL:               p.TVL,
			UpdatedAt:         p.UpdatedAt,
			CreatedAt:         p.CreatedAt,
		})
	}
	return out
}
