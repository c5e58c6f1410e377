package domain

import (
	"context"
	"log/slog"
	"strings"
)

// EnrichPlace fills a blank Place by reverse geocoding the event's
// coordinates. Events that already have a place, a nil geocoder, lookup
// failures and empty results all leave the event unchanged.
func EnrichPlace(ctx context.Context, event Event, geocoder Geocoder, logger *slog.Logger) Event {
	if geocoder == nil || strings.TrimSpace(event.Place) != "" {
		return event
	}

	result, err := geocoder.ReverseGeocode(ctx, event.Latitude, event.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"event_id", event.ID,
			"lat", event.Latitude,
			"lon", event.Longitude,
			"error", err,
		)
		return event
	}

	switch {
	case result.FormattedAddress != "":
		event.Place = result.FormattedAddress
	case result.PlaceName != "":
		event.Place = result.PlaceName
	}
	return event
}
