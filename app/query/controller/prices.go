package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kraxel/txquery/pkg/query"
)

func (c *Controller) HandleLatestPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := c.App.Service.LatestPrices(r.Context())
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	writeData(w, prices, map[string]any{"total": len(prices)})
}

// HandlePriceHistory returns a page of snapshots of one token, newest first.
func (c *Controller) HandlePriceHistory(w http.ResponseWriter, r *http.Request) {
	principal := mux.Vars(r)["contract_principal"]
	page, err := c.App.Service.PriceHistory(r.Context(), query.PriceHistoryRequest{
		PageRequest:       pageRequest(r),
		ContractPrincipal: principal,
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	meta := pageMeta(page)
	meta["contract_principal"] = principal
	writeData(w, page.Items, meta)
}
