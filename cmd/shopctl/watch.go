package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mhartig/shopfront/internal/domain"
	"github.com/mhartig/shopfront/internal/session"
)

// newSessionCmd groups long-running session maintenance.
func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session maintenance",
	}
	cmd.AddCommand(newWatchCmd())
	return cmd
}

// newWatchCmd keeps the session alive in the foreground: it refreshes the
// token pair on an interval and logs every session state change until
// interrupted. Useful for kiosk setups where other processes share the
// credential store.
func newWatchCmd() *cobra.Command {
	var (
		interval    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the session refreshed until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}

			if !app.manager.Snapshot().IsAuthenticated {
				return domain.ErrNotAuthenticated
			}

			if interval <= 0 {
				interval = app.cfg.RefreshInterval
			}
			if interval <= 0 {
				return fmt.Errorf("no refresh interval configured; pass --interval or set REFRESH_INTERVAL")
			}

			if metricsAddr != "" {
				go serveMetrics(metricsAddr)
			}

			updates, cancel := app.manager.Subscribe()
			defer cancel()
			go func() {
				for snap := range updates {
					slog.Info("Session state changed",
						"authenticated", snap.IsAuthenticated,
						"loading", snap.IsLoading,
					)
				}
			}()

			refresher := session.NewRefresher(app.manager, clockwork.NewRealClock(), interval)
			slog.Info("Watching session", "interval", interval)
			refresher.Run(ctx)

			slog.Info("Shutdown signal received")
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (falls back to REFRESH_INTERVAL)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics server stopped", "error", err)
	}
}
