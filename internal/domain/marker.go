package domain

import (
	"math"
	"strings"
)

// Marker colors per bucket.
const (
	ColorMinor    = "#22c55e"
	ColorModerate = "#f97316"
	ColorMajor    = "#ef4444"
)

// MinMarkerRadius keeps tiny and negative magnitudes visible on the map.
const MinMarkerRadius = 4.0

// Color returns the marker fill color for the bucket.
func (b Bucket) Color() string {
	switch b {
	case BucketMajor:
		return ColorMajor
	case BucketModerate:
		return ColorModerate
	default:
		return ColorMinor
	}
}

// MarkerRadius is max(magnitude*2, 4).
func MarkerRadius(magnitude float64) float64 {
	return math.Max(magnitude*2, MinMarkerRadius)
}

// Marker is the render model for one event on the map.
type Marker struct {
	ID         string  `json:"id"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Radius     float64 `json:"radius"`
	Color      string  `json:"color"`
	Bucket     Bucket  `json:"bucket"`
	Place      string  `json:"place"`
	Magnitude  float64 `json:"magnitude"`
	OccurredAt int64   `json:"occurred_at"`
	DetailURL  string  `json:"detail_url"`
}

// NewMarker derives the marker for an event.
func NewMarker(e Event) Marker {
	bucket := BucketOf(e.Magnitude)
	return Marker{
		ID:         e.ID,
		Lat:        e.Latitude,
		Lon:        e.Longitude,
		Radius:     MarkerRadius(e.Magnitude),
		Color:      bucket.Color(),
		Bucket:     bucket,
		Place:      e.Place,
		Magnitude:  e.Magnitude,
		OccurredAt: e.OccurredAt,
		DetailURL:  safeURL(e.DetailURL),
	}
}

// safeURL drops links that are not http(s) so they are never rendered as clickable.
func safeURL(u string) string {
	lower := strings.ToLower(strings.TrimSpace(u))
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return strings.TrimSpace(u)
	}
	return ""
}

// Markers maps events to markers, preserving order.
func Markers(events []Event) []Marker {
	out := make([]Marker, len(events))
	for i, e := range events {
		out[i] = NewMarker(e)
	}
	return out
}
