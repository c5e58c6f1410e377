package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// PlaceTransformer implements Transformer by filling blank places through
// an optional geocoder.
type PlaceTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a PlaceTransformer. Pass a nil geocoder to disable
// place enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *PlaceTransformer {
	return &PlaceTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *PlaceTransformer) Transform(ctx context.Context, event domain.Event) domain.Event {
	return domain.EnrichPlace(ctx, event, t.geocoder, t.logger)
}
