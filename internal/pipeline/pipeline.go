package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Extractor fetches the current event list from the feed.
type Extractor interface {
	FetchEvents(ctx context.Context) ([]domain.Event, error)
}

// Transformer enriches a single fetched event.
type Transformer interface {
	Transform(ctx context.Context, event domain.Event) domain.Event
}

// BatchLoader publishes a fetched snapshot downstream.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.Event, fetchedAt time.Time) error
}

// Pipeline runs one extract-transform-load pass per refresh.
// Transformer and loader are optional.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
}

// New creates a Pipeline with the given stages and observability. A nil
// transformer passes events through unchanged and a nil loader disables
// publishing.
func New(e Extractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clock,
	}
}

// Refresh fetches the feed, enriches each event and publishes the result.
// Only extraction can fail the refresh; publish failures are logged and
// counted.
func (p *Pipeline) Refresh(ctx context.Context) (domain.Snapshot, error) {
	start := p.clock.Now()

	events, err := p.extractor.FetchEvents(ctx)
	if err != nil {
		p.metrics.FeedFetches.WithLabelValues("error").Inc()
		return domain.Snapshot{}, err
	}

	if p.transformer != nil {
		for i := range events {
			events[i] = p.transformer.Transform(ctx, events[i])
		}
	}

	snap := domain.Snapshot{Events: events, FetchedAt: p.clock.Now()}

	p.metrics.FeedFetches.WithLabelValues("success").Inc()
	p.metrics.FeedFetchDuration.Observe(snap.FetchedAt.Sub(start).Seconds())
	p.metrics.FeedEvents.Set(float64(len(events)))
	p.metrics.FeedLastSuccess.Set(float64(snap.FetchedAt.Unix()))

	p.load(ctx, snap)

	p.logger.Info("feed refreshed", "events", len(events), "duration", snap.FetchedAt.Sub(start))
	return snap, nil
}

func (p *Pipeline) load(ctx context.Context, snap domain.Snapshot) {
	if p.loader == nil || len(snap.Events) == 0 {
		return
	}
	if err := p.loader.LoadBatch(ctx, snap.Events, snap.FetchedAt); err != nil {
		p.logger.Error("publish snapshot failed", "error", err, "batch_size", len(snap.Events))
		p.metrics.PublishErrors.Inc()
		return
	}
	p.metrics.EventsPublished.Add(float64(len(snap.Events)))
}
