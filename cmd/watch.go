package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wctc-net-database/gradedash/core"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/snapshot"
	"github.com/wctc-net-database/gradedash/internal/watch"
)

// watchSetup runs the shared setup and rejects remote data sources.
func watchSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	if contract.IsRemoteSource(cfg.DataSource) {
		return errWatchNeedsLocalDir
	}
	return nil
}

// watchCmd re-renders the dashboard whenever the data directory changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the dashboard when the snapshot documents change.",
	Long: `Render the dashboard, then watch the local data directory and render it again
after every burst of changes to its JSON documents. Stop with Ctrl+C.

Examples:
  gradedash watch --data ./data --debounce 1s`,
	PreRunE: watchSetup,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		loader, err := newLoader()
		if err != nil {
			contract.LogFatal("Watch failed", err)
		}
		render := func(ctx context.Context) {
			err := core.ExecuteDashboard(ctx, cfg, storeManager, loader)
			switch {
			case err == nil, errors.Is(err, snapshot.ErrStaleLoad), ctx.Err() != nil:
			default:
				contract.LogWarn("Render failed", err)
			}
		}
		render(ctx)

		w, err := watch.New(cfg.DataSource, cfg.Debounce)
		if err != nil {
			contract.LogFatal("Watch failed", err)
		}
		defer func() { _ = w.Close() }()

		contract.LogInfo("👀 Watching %s (debounce %v)", cfg.DataSource, cfg.Debounce)
		if err := w.Run(ctx, render); err != nil {
			contract.LogFatal("Watch failed", err)
		}
	},
}
