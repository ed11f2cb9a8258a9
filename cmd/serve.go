package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/httpapi"
	"github.com/wctc-net-database/gradedash/internal/snapshot"
	"github.com/wctc-net-database/gradedash/internal/watch"
)

// serveSetup runs the shared setup and checks --watch against the data source.
func serveSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	if viper.GetBool("watch") && contract.IsRemoteSource(cfg.DataSource) {
		return errWatchNeedsLocalDir
	}
	return nil
}

// serveCmd exposes the views over a JSON HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard views over a JSON HTTP API.",
	Long: `Start an HTTP server exposing the dashboard, student, feedback and credit views as JSON.

Views read the last successfully loaded data. POST /api/reload loads the documents
again; with --watch the server reloads by itself when the local data directory changes.

Examples:
  gradedash serve --addr 127.0.0.1:8080
  gradedash serve --data ./data --watch`,
	PreRunE: serveSetup,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		loader, err := newLoader()
		if err != nil {
			contract.LogFatal("Serve failed", err)
		}
		if _, err := loader.Load(ctx); err != nil {
			// The first request retries; the server still starts without data.
			contract.LogWarn("Initial load failed", err)
		}

		if viper.GetBool("watch") {
			w, err := watch.New(cfg.DataSource, cfg.Debounce)
			if err != nil {
				contract.LogFatal("Serve failed", err)
			}
			defer func() { _ = w.Close() }()
			go func() {
				_ = w.Run(ctx, func(ctx context.Context) {
					ds, err := loader.Load(ctx)
					switch {
					case err == nil:
						contract.LogInfo("🔄 Reloaded %s (load %s)", ds.Source, ds.LoadID)
					case errors.Is(err, snapshot.ErrStaleLoad), ctx.Err() != nil:
					default:
						contract.LogWarn("Reload failed, still serving the last load", err)
					}
				})
			}()
		}

		handler := httpapi.NewRouter(httpapi.NewHandlers(cfg, storeManager, loader))
		contract.LogInfo("🌐 Listening on http://%s", cfg.ServeAddr)
		if err := httpapi.NewServer(cfg.ServeAddr, handler).Run(ctx); err != nil {
			contract.LogFatal("Serve failed", err)
		}
	},
}
