package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kraxel/txquery/pkg/query"
)

// HandleTransaction returns one transaction with its events.
func (c *Controller) HandleTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := c.App.Service.Transaction(r.Context(), query.TransactionRequest{
		TxID:          mux.Vars(r)["tx_id"],
		IncludeEvents: r.URL.Query().Get("include_events"),
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	writeData(w, tx, map[string]any{"events_count": len(tx.Events)})
}

// HandleTransactions returns a filtered page of transactions, newest first.
func (c *Controller) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	page, err := c.App.Service.Transactions(r.Context(), query.ListRequest{
		PageRequest: pageRequest(r),
		Address:     qs.Get("address"),
		Status:      qs.Get("status"),
		TxType:      qs.Get("tx_type"),
		BlockHeight: qs.Get("block_height"),
		MinHeight:   qs.Get("min_height"),
		MaxHeight:   qs.Get("max_height"),
		FromTime:    qs.Get("from_time"),
		ToTime:      qs.Get("to_time"),
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	writeData(w, page.Items, pageMeta(page))
}

// HandleTransactionsByBlock returns every transaction of a block in block order.
func (c *Controller) HandleTransactionsByBlock(w http.ResponseWriter, r *http.Request) {
	res, err := c.App.Service.TransactionsByBlock(r.Context(), query.BlockRequest{
		BlockHeight: mux.Vars(r)["block_height"],
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	writeData(w, res.Transactions, map[string]any{
		"block_height": res.BlockHeight,
		"total":        len(res.Transactions),
	})
}

// HandleTransactionsByAddress returns the most recent transactions of a sender.
func (c *Controller) HandleTransactionsByAddress(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	page, err := c.App.Service.TransactionsByAddress(r.Context(), query.AddressRequest{
		PageRequest: pageRequest(r),
		Address:     address,
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	meta := pageMeta(page)
	meta["address"] = address
	writeData(w, page.Items, meta)
}
