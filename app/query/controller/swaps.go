package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kraxel/txquery/pkg/query"
)

func dateRange(r *http.Request) query.DateRange {
	qs := r.URL.Query()
	return query.DateRange{StartDate: qs.Get("start_date"), EndDate: qs.Get("end_date")}
}

// HandleSwaps returns a page of swaps, latest block time first.
func (c *Controller) HandleSwaps(w http.ResponseWriter, r *http.Request) {
	page, err := c.App.Service.Swaps(r.Context(), query.SwapsRequest{
		PageRequest: pageRequest(r),
		DateRange:   dateRange(r),
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	writeData(w, page.Items, pageMeta(page))
}

func (c *Controller) HandleSwapsByContract(w http.ResponseWriter, r *http.Request) {
	page, err := c.App.Service.SwapsByContract(r.Context(), query.SwapsByContractRequest{
		PageRequest:       pageRequest(r),
		DateRange:         dateRange(r),
		ContractPrincipal: mux.Vars(r)["contract_principal"],
		UserAddress:       r.URL.Query().Get("user_address"),
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	meta := pageMeta(page)
	meta["contract_principal"] = mux.Vars(r)["contract_principal"]
	writeData(w, page.Items, meta)
}

func (c *Controller) HandleSwapsByUser(w http.ResponseWriter, r *http.Request) {
	page, err := c.App.Service.SwapsByUser(r.Context(), query.SwapsByUserRequest{
		PageRequest: pageRequest(r),
		DateRange:   dateRange(r),
		UserAddress: mux.Vars(r)["user_address"],
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	meta := pageMeta(page)
	meta["user_address"] = mux.Vars(r)["user_address"]
	writeData(w, page.Items, meta)
}

// HandleSwapStats returns swap counts bucketed by period plus overall totals.
func (c *Controller) HandleSwapStats(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	stats, err := c.App.Service.SwapStats(r.Context(), query.SwapStatsRequest{
		DateRange: dateRange(r),
		Period:    qs.Get("period"),
		Token:     qs.Get("token"),
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	writeData(w, stats, map[string]any{"period": stats.Period})
}
