package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yamlviz/pkg/metrics"
	"github.com/matzehuels/yamlviz/pkg/pipeline"
	"github.com/matzehuels/yamlviz/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the visualization API over HTTP",
		Long: `Serve the visualization API over HTTP.

Routes:
  POST /api/visualize  lay out every document of a YAML stream
  POST /api/export     export one document as svg, png, pdf, dot or json
  POST /api/fix        suggest a corrected version of a YAML text
  GET  /healthz        liveness probe
  GET  /metrics        Prometheus metrics

The listen address and timeouts come from the [server] config section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache, noMetrics bool) error {
	cfg := c.settings()

	var reg *metrics.Registry
	if !noMetrics {
		reg = metrics.NewRegistry()
		reg.Install()
	}

	ch := c.openCache(ctx, noCache)
	runner := pipeline.NewRunner(ch, cfg.Keyer(), c.Logger)
	defer runner.Close()

	srv, err := server.New(server.Deps{
		Runner:  runner,
		Fixer:   c.newFixer(ch, false),
		Metrics: reg,
		Logger:  c.Logger,
		Options: c.pipelineOptions(pipeline.Options{}),
	})
	if err != nil {
		return err
	}

	if addr == "" {
		addr = cfg.Server.Addr
	}
	return server.ListenAndServe(ctx, server.Config{
		Addr:         addr,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}, srv, c.Logger)
}
