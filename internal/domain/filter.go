package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Bucket thresholds. Both boundaries belong to the moderate bucket.
const (
	ModerateMin = 3.0
	ModerateMax = 5.0
)

// Bucket is a magnitude class used for filtering and marker colors.
type Bucket string

const (
	BucketMinor    Bucket = "minor"
	BucketModerate Bucket = "moderate"
	BucketMajor    Bucket = "major"
)

// BucketOf classifies a magnitude.
func BucketOf(magnitude float64) Bucket {
	switch {
	case magnitude < ModerateMin:
		return BucketMinor
	case magnitude > ModerateMax:
		return BucketMajor
	default:
		return BucketModerate
	}
}

// MagnitudeFilter selects which buckets are shown.
type MagnitudeFilter string

const (
	FilterAll      MagnitudeFilter = "all"
	FilterMinor    MagnitudeFilter = "minor"
	FilterModerate MagnitudeFilter = "moderate"
	FilterMajor    MagnitudeFilter = "major"
)

// ErrUnknownFilter is returned by ParseMagnitudeFilter for unrecognized values.
var ErrUnknownFilter = errors.New("unknown magnitude filter")

// MagnitudeFilters lists the selectable filters in display order.
func MagnitudeFilters() []MagnitudeFilter {
	return []MagnitudeFilter{FilterAll, FilterMinor, FilterModerate, FilterMajor}
}

// ParseMagnitudeFilter accepts all, minor, moderate or major (case-insensitive).
// An empty value selects all.
func ParseMagnitudeFilter(value string) (MagnitudeFilter, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return FilterAll, nil
	}
	for _, f := range MagnitudeFilters() {
		if string(f) == value {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, value)
}

// Label is the dropdown text for the filter.
func (f MagnitudeFilter) Label() string {
	switch f {
	case FilterMinor:
		return "Minor (< 3.0)"
	case FilterModerate:
		return "Moderate (3.0 - 5.0)"
	case FilterMajor:
		return "Major (> 5.0)"
	default:
		return "All Earthquakes"
	}
}

// Matches reports whether an event of the given magnitude passes the filter.
func (f MagnitudeFilter) Matches(magnitude float64) bool {
	switch f {
	case FilterMinor:
		return magnitude < ModerateMin
	case FilterModerate:
		return magnitude >= ModerateMin && magnitude <= ModerateMax
	case FilterMajor:
		return magnitude > ModerateMax
	default:
		return true
	}
}

// Filter returns the events passing f in their original order. The input
// slice is never modified and the result never aliases it.
func Filter(events []Event, f MagnitudeFilter) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e.Magnitude) {
			out = append(out, e)
		}
	}
	return out
}
