package dashboard

import (
	"sync/atomic"
	"time"

	"TickerDash/internal/model"
)

// Snapshot is the published result of one load cycle. It is never mutated
// after publication.
type Snapshot struct {
	CycleID  string        `json:"cycle_id"`
	Series   *model.Series `json:"series"`
	Metrics  model.Metrics `json:"metrics"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// Store holds the current snapshot. Only Loader writes to it; readers never
// block the writer.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store { return &Store{} }

// Current returns the latest snapshot, or nil while the first load is running.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

func (s *Store) publish(snap *Snapshot) *Snapshot {
	return s.current.Swap(snap)
}
