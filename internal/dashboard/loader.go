package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"TickerDash/internal/calculator"
	"TickerDash/internal/model"
	"TickerDash/internal/recorder"
)

// Acceptor produces the accepted series for one load cycle.
type Acceptor interface {
	Accept(ctx context.Context) *model.Series
}

// SnapshotObserver is notified of every published snapshot.
type SnapshotObserver interface {
	ObserveSnapshot(series *model.Series, m model.Metrics)
}

// SnapshotHook runs after a snapshot is published. prev is nil on the first load.
type SnapshotHook func(ctx context.Context, prev, next *Snapshot)

// Loader is the single writer of the Store. Reload calls are serialized.
type Loader struct {
	mu       sync.Mutex
	store    *Store
	source   Acceptor
	params   calculator.Params
	recorder recorder.Recorder
	observer SnapshotObserver
	hooks    []SnapshotHook
	log      zerolog.Logger
	now      func() time.Time
}

// NewLoader creates a Loader publishing into store.
func NewLoader(store *Store, source Acceptor, params calculator.Params, log zerolog.Logger) *Loader {
	return &Loader{
		store:    store,
		source:   source,
		params:   params,
		recorder: recorder.NewNoopRecorder(),
		log:      log.With().Str("component", "loader").Logger(),
		now:      time.Now,
	}
}

// SetRecorder persists every cycle to rec.
func (l *Loader) SetRecorder(rec recorder.Recorder) { l.recorder = rec }

// SetObserver reports every cycle to obs.
func (l *Loader) SetObserver(obs SnapshotObserver) { l.observer = obs }

// OnSnapshot registers a hook run after each publication.
func (l *Loader) OnSnapshot(h SnapshotHook) { l.hooks = append(l.hooks, h) }

// Store returns the store this loader publishes into.
func (l *Loader) Store() *Store { return l.store }

// Reload runs one load cycle and publishes the result. It always publishes:
// the coordinator falls back to synthetic data instead of failing.
func (l *Loader) Reload(ctx context.Context) *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	cycleID := uuid.NewString()
	log := l.log.With().Str("cycle", cycleID).Logger()
	log.Info().Msg("load cycle started")

	series := l.source.Accept(ctx)

	// Metrics are computed as of the last bar so windows stay anchored to the data.
	asOf := l.now()
	if series.Len() > 0 {
		asOf = series.Last().Date
	}
	metrics := calculator.Derive(series, asOf, l.params)
	for _, w := range metrics.Warnings {
		log.Warn().Str("metric", w).Msg("metric unavailable")
	}

	snap := &Snapshot{
		CycleID:  cycleID,
		Series:   series,
		Metrics:  metrics,
		LoadedAt: l.now(),
	}
	prev := l.store.publish(snap)

	if err := l.recorder.RecordLoad(&recorder.LoadEvent{
		CycleID:  cycleID,
		LoadedAt: snap.LoadedAt,
		Series:   series,
		Metrics:  metrics,
	}); err != nil {
		log.Error().Err(err).Msg("record load cycle")
	}
	if l.observer != nil {
		l.observer.ObserveSnapshot(series, metrics)
	}
	for _, h := range l.hooks {
		h(ctx, prev, snap)
	}

	log.Info().
		Str("origin", string(series.Origin)).
		Str("source", series.Source).
		Int("bars", series.Len()).
		Float64("close", metrics.LatestClose).
		Msg("snapshot published")
	return snap
}
