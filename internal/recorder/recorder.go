package recorder

import "time"

// Outcome classifies how a fetch was served.
type Outcome string

const (
	OutcomeHit   Outcome = "HIT"
	OutcomeMiss  Outcome = "MISS"
	OutcomeError Outcome = "ERROR"
)

// FetchEvent is one request served by the data-source cache.
type FetchEvent struct {
	At       time.Time
	Key      string // e.g. "schemes", "scheme/119551/latest"
	Source   string
	Outcome  Outcome
	Duration time.Duration
	Error    string
}

// Recorder persists fetch activity for later inspection.
// Computed statistics are never stored.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	RecentFetches(limit int) ([]FetchEvent, error)
	Close() error
}
