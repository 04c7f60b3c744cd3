package query

import (
	"net/http"

	"github.com/kraxel/txquery/app/query/controller"
	"github.com/kraxel/txquery/app/query/types"
)

// NewServer builds the router and attaches an http.Server to app.
func NewServer(app *types.App) error {
	ctler := controller.NewController(app)
	router, err := ctler.NewRouter()
	if err != nil {
		return err
	}

	cfg := app.Config
	app.Server = &http.Server{
		// use <ip>:<port> to bind to a specific interface or :<port> to bind to all interfaces
		Addr:              cfg.Addr,
		Handler:           controller.WithCORS(cfg.HTTP.CORSOrigins)(router),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}
	return nil
}
