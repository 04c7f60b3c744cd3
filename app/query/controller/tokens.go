package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kraxel/txquery/pkg/query"
)

func (c *Controller) HandleTokens(w http.ResponseWriter, r *http.Request) {
	page, err := c.App.Service.Tokens(r.Context(), pageRequest(r))
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	writeData(w, page.Items, pageMeta(page))
}

func (c *Controller) HandleToken(w http.ResponseWriter, r *http.Request) {
	token, err := c.App.Service.Token(r.Context(), query.TokenRequest{
		ContractPrincipal: mux.Vars(r)["contract_principal"],
	})
	if err != nil {
		c.writeQueryError(w, r, err)
		return
	}
	writeData(w, token, nil)
}
