package recorder

import (
	"time"

	"TickerDash/internal/model"
)

// LoadEvent is one completed load cycle: the accepted series, every source
// attempt that led to it, and the metrics derived from it.
type LoadEvent struct {
	CycleID  string
	LoadedAt time.Time
	Series   *model.Series
	Metrics  model.Metrics
}

// LoadSummary is a row of load history.
type LoadSummary struct {
	CycleID     string       `json:"cycle_id"`
	LoadedAt    time.Time    `json:"loaded_at"`
	Symbol      string       `json:"symbol"`
	Origin      model.Origin `json:"origin"`
	Source      string       `json:"source"`
	Bars        int          `json:"bars"`
	FailedTries int          `json:"failed_tries"`
	LatestClose float64      `json:"latest_close"`
}

// Recorder persists load history for later analysis.
type Recorder interface {
	RecordLoad(evt *LoadEvent) error
	RecentLoads(limit int) ([]LoadSummary, error)
	Close() error
}
