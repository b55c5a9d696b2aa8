package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TickerDash/internal/model"

	"github.com/rs/zerolog"
)

// AttemptObserver receives the outcome of every source attempt.
type AttemptObserver interface {
	ObserveAttempt(source string, ok bool, d time.Duration)
}

// Coordinator tries data sources in priority order and falls back to the
// synthetic generator when every source fails.
type Coordinator struct {
	Sources   []DataSource
	Synthetic *SyntheticGenerator
	MinBars   int
	Observer  AttemptObserver
	log       zerolog.Logger
}

// NewCoordinator creates a Coordinator over the given ordered sources.
func NewCoordinator(log zerolog.Logger, synthetic *SyntheticGenerator, minBars int, sources ...DataSource) *Coordinator {
	if minBars <= 0 {
		minBars = DefaultMinBars
	}
	return &Coordinator{
		Sources:   sources,
		Synthetic: synthetic,
		MinBars:   minBars,
		log:       log.With().Str("component", "coordinator").Logger(),
	}
}

// Accept returns the first viable series. It never returns nil: when all
// sources fail, or ctx is done, the synthetic series is returned.
func (c *Coordinator) Accept(ctx context.Context) *model.Series {
	attempts := make([]model.Attempt, 0, len(c.Sources)+1)

	for _, src := range c.Sources {
		if err := ctx.Err(); err != nil {
			c.log.Warn().Err(err).Msg("load cancelled, skipping remaining sources")
			break
		}

		start := time.Now()
		series, err := src.FetchSeries(ctx)
		elapsed := time.Since(start)
		if err == nil && series.Len() < c.MinBars {
			err = &ParseError{Format: src.Name(), Reason: fmt.Sprintf("below viability threshold of %d", c.MinBars), Count: series.Len()}
		}

		attempt := model.Attempt{Source: src.Name(), OK: err == nil, Bars: series.Len(), Duration: elapsed}
		c.observe(src.Name(), err == nil, elapsed)

		if err != nil {
			attempt.Error = err.Error()
			attempt.Status = StatusOf(err)
			attempts = append(attempts, attempt)
			c.log.Warn().
				Err(err).
				Str("source", src.Name()).
				Int("status", attempt.Status).
				Str("kind", errorKind(err)).
				Msg("data source failed, trying next")
			continue
		}

		attempts = append(attempts, attempt)
		if series.Origin == "" {
			series.Origin = model.OriginLive
		}
		series.Attempts = attempts
		c.log.Info().
			Str("source", src.Name()).
			Int("bars", series.Len()).
			Dur("elapsed", elapsed).
			Msg("series accepted")
		return series
	}

	start := time.Now()
	series := c.Synthetic.Generate()
	elapsed := time.Since(start)
	c.observe(c.Synthetic.Name(), true, elapsed)
	series.Attempts = append(attempts, model.Attempt{
		Source: c.Synthetic.Name(), OK: true, Bars: series.Len(), Duration: elapsed,
	})
	c.log.Info().
		Int("bars", series.Len()).
		Int("failed_sources", len(attempts)).
		Msg("all remote sources failed, using synthetic series")
	return series
}

func (c *Coordinator) observe(source string, ok bool, d time.Duration) {
	if c.Observer != nil {
		c.Observer.ObserveAttempt(source, ok, d)
	}
}

func errorKind(err error) string {
	var se *SourceError
	switch {
	case errors.As(err, &se):
		return "source"
	case IsParseError(err):
		return "parse"
	default:
		return "other"
	}
}
