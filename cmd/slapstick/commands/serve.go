package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmarsters/slapstick-enhancer/am"
	"github.com/dmarsters/slapstick-enhancer/catalog"
	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/logger"
	"github.com/dmarsters/slapstick-enhancer/server"
	"github.com/dmarsters/slapstick-enhancer/sym"
	"github.com/dmarsters/slapstick-enhancer/version"
)

func newServeCmd() *cobra.Command {
	var (
		transport string
		addr      string
		paths     []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: sym.Serve + " Serve the enhancer as an MCP server",
		Long: sym.Serve + ` serve - serve the enhancer as an MCP server

The stdio transport speaks MCP on stdin/stdout and logs to stderr. The http
transport serves streamable MCP on /mcp and Prometheus metrics on /metrics.

  slapstick serve
  slapstick serve --transport http --addr 127.0.0.1:7070 --path ./catalogs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.Server.Transport = transport
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.HTTPAddr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, paths)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", am.TransportStdio, "Transport: stdio or http")
	cmd.Flags().StringVar(&addr, "addr", am.DefaultHTTPAddr, "Listen address of the http transport")
	cmd.Flags().StringSliceVar(&paths, "path", nil, "Extra catalog file or directory (repeatable)")
	return cmd
}

func runServe(ctx context.Context, cfg *am.Config, paths []string) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}

	store, err := openCatalog(ctx, cfg, svc, paths)
	if err != nil {
		return errors.Wrap(err, "failed to load catalog")
	}
	if store == nil {
		logger.Infow("No catalog configured; catalog tools are disabled")
	} else {
		snap := store.Snapshot()
		logger.SymbolInfow(sym.Catalog, "Catalog loaded",
			logger.FieldGeneration, snap.Generation,
			logger.FieldEntries, snap.Len())

		if cfg.Catalog.Watch {
			w, err := catalog.NewWatcher(store, catalog.DefaultDebounce)
			if err != nil {
				return err
			}
			w.OnReload(func(snap *catalog.Snapshot, err error) {
				if err != nil {
					logger.Warnw("Catalog reload failed, keeping previous entries", logger.FieldError, err.Error())
					return
				}
				logger.SymbolInfow(sym.Catalog, "Catalog reloaded",
					logger.FieldGeneration, snap.Generation,
					logger.FieldEntries, snap.Len())
			})
			w.Start()
			defer w.Stop()
		}
	}

	srv := server.New(server.Config{
		Name:          cfg.Server.Name,
		Version:       version.Get().Version,
		RatePerSecond: cfg.Server.RateLimitPerSecond,
		Burst:         cfg.Server.RateBurst,
		Metrics:       cfg.Server.Metrics,
	}, svc, store, logger.WithSymbol(logger.ComponentLogger("server"), sym.Serve))

	logger.ServeOpenInfow("Starting MCP server",
		"name", cfg.Server.Name,
		"transport", cfg.Server.Transport)

	switch cfg.Server.Transport {
	case am.TransportHTTP:
		err = srv.ServeHTTP(ctx, cfg.Server.HTTPAddr)
	default:
		err = srv.ServeStdio(ctx)
	}
	if err != nil {
		return err
	}
	logger.ServeCloseInfow("MCP server stopped")
	return nil
}
