package cli

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Takheer/mstroy-test/internal/metrics"
	"github.com/Takheer/mstroy-test/internal/server"
	"github.com/Takheer/mstroy-test/pkg/observability"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the records over a JSON HTTP API",
		Long: `Serve loads a record file and exposes it over HTTP:

  GET    /items                   every record
  GET    /items/{id}              one record
  GET    /items/{id}/children     direct children
  GET    /items/{id}/descendants  all descendants
  GET    /items/{id}/ancestors    all ancestors, nearest first
  POST   /items                   add a record
  PUT    /items/{id}              replace a record
  DELETE /items/{id}              remove a record and its subtree

Changes live in memory only and are lost when the server stops.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.Config{
				Addr:         c.Config.Server.Addr,
				ReadTimeout:  c.Config.Server.readTimeout,
				MaxBodyBytes: c.Config.Server.maxBody,
				Logger:       c.Logger,
			}
			if addr != "" {
				cfg.Addr = addr
			}

			if !noMetrics {
				cfg.Metrics = registerMetrics()
				defer observability.Reset()
			}

			s, err := c.loadStore(args[0])
			if err != nil {
				return err
			}

			printSuccess("Serving %s", pluralize(s.Len(), "record"))
			printKeyValue("address", cfg.Addr)
			printNextStep("Try", "curl http://localhost"+portOf(cfg.Addr)+"/items")

			return server.New(s, cfg).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}

// registerMetrics installs Prometheus hooks on a fresh registry that also
// carries the Go runtime and process collectors, and returns its handler.
func registerMetrics() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	m.Register()
	return m.Handler()
}

// portOf returns the ":port" suffix of a listen address.
func portOf(addr string) string {
	if i := strings.LastIndexByte(addr, ':'); i >= 0 {
		return addr[i:]
	}
	return ":" + addr
}
