package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kraxel/txquery/app/query"
	"github.com/kraxel/txquery/pkg/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var addr string

	serve := func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Addr = addr
		}
		return runServe(cmd.Context(), cfg)
	}

	root := &cobra.Command{
		Use:          "query",
		Short:        "Read-only HTTP API over indexed blockchain transactions",
		SilenceUsage: true,
		RunE:         serve,
	}
	root.PersistentFlags().StringVar(&addr, "addr", "", "listen address, overrides ADDR")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the query API (default)",
		RunE:  serve,
	})
	root.AddCommand(newHealthcheckCmd(&addr))

	return root
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := query.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	if err := query.NewServer(app); err != nil {
		app.Close()
		return fmt.Errorf("unable to initialize server: %w", err)
	}
	return app.Start(ctx)
}

func newHealthcheckCmd(addr *string) *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe /health of a running instance; exits non-zero when unhealthy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				listen := *addr
				if listen == "" {
					cfg, err := config.FromEnv()
					if err != nil {
						return err
					}
					listen = cfg.Addr
				}
				url = healthURL(listen)
			}
			if err := probe(cmd.Context(), url, timeout); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "health endpoint, defaults to the local listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "probe timeout")
	return cmd
}

// healthURL turns a listen address into a loopback URL for /health.
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/health"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/health"
}

func probe(ctx context.Context, url string, timeout time.Duration) error {
	resp, err := resty.New().
		SetTimeout(timeout).
		R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return fmt.Errorf("health probe %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("unhealthy: %s returned %s", url, resp.Status())
	}
	return nil
}
