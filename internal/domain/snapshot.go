package domain

import "time"

// Snapshot is the result of one successful feed refresh.
type Snapshot struct {
	Events    []Event
	FetchedAt time.Time
}
