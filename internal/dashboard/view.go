package dashboard

import (
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// View is what one viewer sees for a given magnitude filter.
type View struct {
	Status       Status                 `json:"status"`
	Filter       domain.MagnitudeFilter `json:"filter"`
	Events       []domain.Event         `json:"events"`
	Markers      []domain.Marker        `json:"markers"`
	Shown        int                    `json:"shown"`
	Total        int                    `json:"total"`
	LastUpdated  *time.Time             `json:"last_updated,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	CanRefresh   bool                   `json:"can_refresh"`
}

// View applies filter to the current snapshot. Events and markers are only
// populated in the Success state.
func (d *Dashboard) View(filter domain.MagnitudeFilter) View {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v := View{
		Status:       d.status,
		Filter:       filter,
		Events:       []domain.Event{},
		Markers:      []domain.Marker{},
		ErrorMessage: d.errorMessage,
		CanRefresh:   d.inflight == nil,
	}
	if !d.lastUpdated.IsZero() {
		t := d.lastUpdated
		v.LastUpdated = &t
	}
	if d.status != StatusSuccess {
		return v
	}

	v.Events = domain.Filter(d.events, filter)
	v.Markers = domain.Markers(v.Events)
	v.Shown = len(v.Events)
	v.Total = len(d.events)
	return v
}
