// Package dashboard holds the single view-state container shared by every
// viewer of the map and drives it through Loading, Success and Error.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Status is the current display mode.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Source produces a fresh snapshot of the feed.
type Source interface {
	Refresh(ctx context.Context) (domain.Snapshot, error)
}

// Dashboard is safe for concurrent use. At most one fetch runs at a time.
type Dashboard struct {
	source  Source
	clock   clockwork.Clock
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics

	mu           sync.RWMutex
	lifetime     context.Context
	status       Status
	events       []domain.Event
	lastUpdated  time.Time
	errorMessage string
	inflight     chan struct{} // closed when the running fetch has been applied; nil when idle

	ready atomic.Bool
}

// New creates a Dashboard in the Loading state. A zero timeout leaves
// fetches bounded only by the lifetime context.
func New(source Source, clock clockwork.Clock, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Dashboard{
		source:   source,
		clock:    clock,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
		lifetime: context.Background(),
		status:   StatusLoading,
	}
}

// Start binds subsequent fetches to ctx and begins the initial load.
func (d *Dashboard) Start(ctx context.Context) {
	d.mu.Lock()
	d.lifetime = ctx
	d.mu.Unlock()
	d.Refresh()
}

// Refresh starts a fetch in the background and reports true, or reports
// false without doing anything when a fetch is already in flight.
func (d *Dashboard) Refresh() bool {
	d.mu.Lock()
	if d.inflight != nil {
		d.mu.Unlock()
		d.metrics.RefreshRejected.Inc()
		d.logger.Debug("refresh ignored, fetch already in flight")
		return false
	}
	done := make(chan struct{})
	d.inflight = done
	d.status = StatusLoading
	d.errorMessage = ""
	ctx := d.lifetime
	d.mu.Unlock()

	go d.fetch(ctx, done)
	return true
}

// Wait blocks until the in-flight fetch, if any, has been applied.
func (d *Dashboard) Wait(ctx context.Context) error {
	d.mu.RLock()
	done := d.inflight
	d.mu.RUnlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dashboard) fetch(ctx context.Context, done chan struct{}) {
	defer close(done)

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	snap, err := d.source.Refresh(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight = nil

	if err != nil {
		d.logFailure(err)
		d.status = StatusError
		d.errorMessage = domain.StatusMessage
		d.events = nil
		return
	}

	d.status = StatusSuccess
	d.events = snap.Events
	d.lastUpdated = d.clock.Now()
	d.errorMessage = ""
	d.ready.Store(true)
}

func (d *Dashboard) logFailure(err error) {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		d.logger.Error("fetch earthquakes failed", "reason", fe.Msg, "error", err)
		return
	}
	d.logger.Error("fetch earthquakes failed", "error", err)
}

// CheckReadiness returns nil once the first fetch has succeeded.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("no earthquake data loaded yet")
	}
	return nil
}
