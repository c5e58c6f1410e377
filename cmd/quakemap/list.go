package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/dashboard"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		magnitude string
		utc       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the feed once and print the matching earthquakes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParseMagnitudeFilter(magnitude)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			loc := time.Local
			if utc {
				loc = time.UTC
			}
			logger := observability.NewLoggerTo(os.Stderr, cfg)
			return runList(cmd.Context(), cmd.OutOrStdout(), cfg, filter, loc, logger, observability.NewMetrics())
		},
	}

	cmd.Flags().StringVarP(&magnitude, "magnitude", "m", string(domain.FilterAll), "magnitude filter: all, minor, moderate or major")
	cmd.Flags().BoolVar(&utc, "utc", false, "print times in UTC instead of the local zone")
	return cmd
}

// runList drives one fetch through the same state machine the server uses.
// Snapshots are never published from the CLI.
func runList(ctx context.Context, out io.Writer, cfg *config.Config, filter domain.MagnitudeFilter, loc *time.Location, logger *slog.Logger, metrics *observability.Metrics) error {
	p, closePublisher := newPipeline(cfg, logger, metrics, false)
	defer closePublisher()

	dash := dashboard.New(p, clockwork.NewRealClock(), cfg.FeedTimeout, logger, metrics)
	dash.Start(ctx)
	if err := dash.Wait(ctx); err != nil {
		return err
	}

	view := dash.View(filter)
	if view.Status != dashboard.StatusSuccess {
		return errors.New(domain.StatusMessage)
	}

	printEvents(out, view, loc)
	return nil
}

func printEvents(out io.Writer, view dashboard.View, loc *time.Location) {
	fmt.Fprintf(out, "Showing %d of %d earthquakes\n", view.Shown, view.Total)
	for _, e := range view.Events {
		place := strings.TrimSpace(e.Place)
		if place == "" {
			place = "(unknown location)"
		}
		fmt.Fprintf(out, "%s  M%.1f  %s\n", e.Time().In(loc).Format("2006-01-02 15:04:05 MST"), e.Magnitude, place)
	}
}
