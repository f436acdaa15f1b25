package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genelayout/internal/server"
)

// serveCommand runs the layout HTTP service until the process is signalled.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		timeout   time.Duration
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP service",
		Long: `Run the layout HTTP service.

Endpoints:
  POST /v1/layout   lay out a graph document
  POST /v1/render   render a layout
  POST /v1/depths   call depths and column offsets
  GET  /metrics     Prometheus metrics
  GET  /healthz     liveness

Requests that hit the timeout return the best layout found so far with
"cancelled": true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("timeout") || cfg.RequestTimeout == 0 {
				cfg.RequestTimeout = timeout
			}
			return c.runServe(cmd.Context(), cfg, noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request layout deadline")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, noCache, withMetrics bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var metrics *server.Metrics
	if withMetrics {
		metrics = server.NewMetrics()
		metrics.Install()
	}

	srv := server.New(cfg, runner, metrics, c.Logger)
	c.Logger.Debug("starting server", "metrics", withMetrics, "cache", c.cacheBackend())
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	c.Logger.Info("server stopped")
	return nil
}
