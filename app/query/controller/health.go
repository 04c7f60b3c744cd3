package controller

import (
	"net/http"
)

// HandleHealth reports 200 while the store answers and 503 otherwise.
func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.App.Service.Health(r.Context()); err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleInfo describes the service.
func (c *Controller) HandleInfo(w http.ResponseWriter, _ *http.Request) {
	writeData(w, map[string]any{
		"name":        "txquery",
		"version":     c.App.Config.Version,
		"description": "Blockchain transaction query API",
		"endpoints": []string{
			"/health",
			"/transactions",
			"/transactions/{tx_id}",
			"/transactions/block/{block_height}",
			"/transactions/address/{address}",
			"/tokens",
			"/tokens/{contract_principal}",
			"/swaps",
			"/swaps/stats",
			"/swaps/contract/{contract_principal}",
			"/swaps/user/{user_address}",
			"/prices/latest",
			"/prices/{contract_principal}",
		},
	}, nil)
}
