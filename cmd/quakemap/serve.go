package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-map/internal/adapter/http"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/dashboard"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the earthquake map over HTTP (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	return serve(cmd.Context(), cfg, logger, observability.NewMetrics())
}

// serve runs the map server until ctx is cancelled or a signal arrives. A
// listener failure is returned so the process exits non-zero.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	p, closePublisher := newPipeline(cfg, logger, metrics, true)
	defer closePublisher()

	dash := dashboard.New(p, clockwork.NewRealClock(), cfg.FeedTimeout, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, dash, httpadapter.MapSettings{
		TileURL:         cfg.TileURL,
		TileAttribution: cfg.TileAttribution,
	}, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial load; later fetches are user-triggered. Started before the
	// listener so no request observes the pre-load state.
	dash.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("http server error", "error", err)
		serveErr = fmt.Errorf("http server: %w", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := dash.Wait(shutdownCtx); err != nil {
		logger.Error("in-flight fetch did not finish", "error", err)
	}

	logger.Info("shutdown complete")
	return serveErr
}
