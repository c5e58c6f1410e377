package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	kafkaadapter "github.com/couchcryptid/quake-map/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quakemap",
		Short:         "Map of the last 24 hours of USGS earthquakes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(newServeCmd(), newListCmd())
	return root
}

// newPipeline wires the feed client, optional place enrichment and, when
// publish is set, the optional Kafka publisher. The returned func releases
// the publisher.
func newPipeline(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, publish bool) (*pipeline.Pipeline, func()) {
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var loader pipeline.BatchLoader
	closeFn := func() {}
	if publish && cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		closeFn = func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	extractor := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, logger)
	transformer := pipeline.NewTransformer(geocoder, logger)

	return pipeline.New(extractor, transformer, loader, logger, metrics, clockwork.NewRealClock()), closeFn
}
