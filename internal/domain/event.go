package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusMessage is the only failure text shown to users. The underlying cause
// is logged, never displayed.
const StatusMessage = "Unable to fetch earthquake data. Please try again later."

// Event is one seismic event as reported by the feed. Events are treated as
// immutable once fetched.
type Event struct {
	ID         string  `json:"id"`
	Magnitude  float64 `json:"magnitude"`
	Place      string  `json:"place"`
	Title      string  `json:"title,omitempty"`
	OccurredAt int64   `json:"occurred_at"` // epoch millis
	DetailURL  string  `json:"detail_url"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Depth      float64 `json:"depth"`
}

// Time returns the occurrence time in UTC.
func (e Event) Time() time.Time {
	return time.UnixMilli(e.OccurredAt).UTC()
}

// FeatureCollection mirrors the GeoJSON document served by the feed.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature from the feed.
type Feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Properties FeatureProperties `json:"properties"`
	Geometry   FeatureGeometry   `json:"geometry"`
}

// FeatureProperties holds the feature fields the map uses. Pointers
// distinguish null from zero in the upstream JSON.
type FeatureProperties struct {
	Mag   *float64 `json:"mag"`
	Place *string  `json:"place"`
	Time  int64    `json:"time"`
	URL   string   `json:"url"`
	Title string   `json:"title"`
}

// FeatureGeometry is a GeoJSON point: [lon, lat, depth].
type FeatureGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ParseFeed decodes a feed document into events, preserving feed order.
// Any malformed feature invalidates the whole document.
func ParseFeed(data []byte) ([]Event, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if fc.Features == nil {
		return nil, fmt.Errorf("parse feed: missing features array")
	}

	events := make([]Event, 0, len(fc.Features))
	for i, f := range fc.Features {
		event, err := EventFromFeature(f)
		if err != nil {
			return nil, fmt.Errorf("parse feed: feature %d: %w", i, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// EventFromFeature maps one feature onto an Event.
func EventFromFeature(f Feature) (Event, error) {
	coords := f.Geometry.Coordinates
	if len(coords) < 2 {
		return Event{}, fmt.Errorf("event %q: expected [lon, lat, depth], got %d coordinates", f.ID, len(coords))
	}

	event := Event{
		ID:         f.ID,
		Title:      f.Properties.Title,
		OccurredAt: f.Properties.Time,
		DetailURL:  f.Properties.URL,
		Longitude:  coords[0],
		Latitude:   coords[1],
	}
	if len(coords) > 2 {
		event.Depth = coords[2]
	}
	if f.Properties.Mag != nil {
		event.Magnitude = *f.Properties.Mag
	}
	if f.Properties.Place != nil {
		event.Place = *f.Properties.Place
	}
	return event, nil
}
