package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcycle/pkg/api"
	"github.com/matzehuels/pkgcycle/pkg/cache"
	"github.com/matzehuels/pkgcycle/pkg/observability"
	"github.com/matzehuels/pkgcycle/pkg/pipeline"
	"github.com/matzehuels/pkgcycle/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cycle detection and analysis HTTP API",
		Long: `Serve the cycle detection and analysis HTTP API.

Reports posted to /v1/analyze are stored in MongoDB when store.mongo_uri is
configured, and in memory otherwise. Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig("")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewPrometheus(reg)
			observability.Register(observability.Tee(metrics, observability.NewLogHooks(c.Logger)))
			defer observability.Reset()

			ch, err := c.newCache(ctx, cfg.Cache, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, "api:"), c.Logger)
			defer runner.Close()

			var st store.Store = store.NewMemory()
			storeName := "memory"
			if cfg.Store.MongoURI != "" {
				mongo, err := store.NewMongo(ctx, cfg.Store.MongoURI, cfg.Store.Database)
				if err != nil {
					return err
				}
				st, storeName = mongo, "mongodb/"+cfg.Store.Database
			}
			defer st.Close(ctx)

			srv := api.New(api.Options{
				Runner:  runner,
				Store:   st,
				Metrics: metrics.Handler(),
				Logger:  c.Logger,
			})

			printKeyValue("Address", StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))
			printKeyValue("Cache", cfg.Cache.Backend)
			printKeyValue("Store", storeName)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// displayAddr turns a ":port" listen address into a clickable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
