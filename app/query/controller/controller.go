package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kraxel/txquery/app/query/types"
)

type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{
		App: app,
	}
}

// NewRouter returns a new router with all the routes defined in this file.
// Fixed paths are registered before the parameterized ones next to them so
// "block", "address" and "latest" are never read as ids.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(requestID, c.instrument)

	r.HandleFunc("/", c.HandleInfo).Methods(http.MethodGet)
	r.HandleFunc("/health", c.HandleHealth).Methods(http.MethodGet)

	r.HandleFunc("/transactions", c.HandleTransactions).Methods(http.MethodGet)
	r.HandleFunc("/transactions/block/{block_height}", c.HandleTransactionsByBlock).Methods(http.MethodGet)
	r.HandleFunc("/transactions/address/{address}", c.HandleTransactionsByAddress).Methods(http.MethodGet)
	r.HandleFunc("/transactions/{tx_id}", c.HandleTransaction).Methods(http.MethodGet)

	r.HandleFunc("/tokens", c.HandleTokens).Methods(http.MethodGet)
	r.HandleFunc("/tokens/{contract_principal}", c.HandleToken).Methods(http.MethodGet)

	r.HandleFunc("/swaps", c.HandleSwaps).Methods(http.MethodGet)
	r.HandleFunc("/swaps/stats", c.HandleSwapStats).Methods(http.MethodGet)
	r.HandleFunc("/swaps/contract/{contract_principal}", c.HandleSwapsByContract).Methods(http.MethodGet)
	r.HandleFunc("/swaps/user/{user_address}", c.HandleSwapsByUser).Methods(http.MethodGet)

	r.HandleFunc("/prices/latest", c.HandleLatestPrices).Methods(http.MethodGet)
	r.HandleFunc("/prices/{contract_principal}", c.HandlePriceHistory).Methods(http.MethodGet)

	if cfg := c.App.Config.Metrics; cfg.Enabled && c.App.Metrics != nil {
		r.Handle(cfg.Path, c.App.Metrics.Handler()).Methods(http.MethodGet)
	}

	// mux skips middleware for unmatched requests, so wrap these explicitly.
	r.NotFoundHandler = requestID(c.instrument(http.HandlerFunc(handleNoRoute)))
	r.MethodNotAllowedHandler = requestID(c.instrument(http.HandlerFunc(handleMethodNotAllowed)))

	return r, nil
}

func handleNoRoute(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "no such endpoint")
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "invalid_argument", "method not allowed")
}
