package collector

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"TickerDash/internal/model"

	"github.com/rs/zerolog"
)

type stubSource struct {
	name   string
	series *model.Series
	err    error
	calls  int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchSeries(_ context.Context) (*model.Series, error) {
	s.calls++
	return s.series, s.err
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveAttempt(source string, ok bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	outcome := "fail"
	if ok {
		outcome = "ok"
	}
	o.calls = append(o.calls, source+":"+outcome)
}

func liveSeries(name string, n int) *model.Series {
	return newSeries("ACME", name, makeBars(n, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestAccept_PrimaryWins(t *testing.T) {
	primary := &stubSource{name: "primary", series: liveSeries("primary", 200)}
	secondary := &stubSource{name: "secondary", series: liveSeries("secondary", 200)}
	gen := NewSyntheticGenerator("ACME", nil, 42)

	c := NewCoordinator(zerolog.Nop(), gen, 150, primary, secondary)
	s := c.Accept(context.Background())

	if s.Source != "primary" || s.Origin != model.OriginLive {
		t.Fatalf("expected live primary series, got %s/%s", s.Source, s.Origin)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary should not be called, got %d calls", secondary.calls)
	}
	if len(s.Attempts) != 1 || !s.Attempts[0].OK {
		t.Errorf("unexpected attempts: %+v", s.Attempts)
	}
}

func TestAccept_FallsThroughToSecondary(t *testing.T) {
	primary := &stubSource{name: "primary", err: &SourceError{Source: "primary", Status: 503}}
	secondary := &stubSource{name: "secondary", series: liveSeries("secondary", 160)}
	obs := &recordingObserver{}

	c := NewCoordinator(zerolog.Nop(), NewSyntheticGenerator("ACME", nil, 42), 150, primary, secondary)
	c.Observer = obs
	s := c.Accept(context.Background())

	if s.Source != "secondary" || !s.Live() {
		t.Fatalf("expected live secondary series, got %s/%s", s.Source, s.Origin)
	}
	if len(s.Attempts) != 2 || s.Attempts[0].Status != 503 || s.Attempts[0].OK {
		t.Errorf("unexpected attempts: %+v", s.Attempts)
	}
	want := []string{"primary:fail", "secondary:ok"}
	if !reflect.DeepEqual(obs.calls, want) {
		t.Errorf("observer calls = %v, want %v", obs.calls, want)
	}
}

func TestAccept_ShortSeriesIsRejected(t *testing.T) {
	primary := &stubSource{name: "primary", series: liveSeries("primary", 20)}
	secondary := &stubSource{name: "secondary", series: liveSeries("secondary", 150)}

	c := NewCoordinator(zerolog.Nop(), NewSyntheticGenerator("ACME", nil, 42), 150, primary, secondary)
	s := c.Accept(context.Background())

	if s.Source != "secondary" {
		t.Fatalf("expected secondary after short primary, got %s", s.Source)
	}
	if s.Attempts[0].Bars != 20 || s.Attempts[0].Error == "" {
		t.Errorf("expected short-series attempt recorded, got %+v", s.Attempts[0])
	}
}

func TestAccept_AllFailReturnsSynthetic(t *testing.T) {
	primary := &stubSource{name: "primary", err: &SourceError{Source: "primary", Status: 429}}
	secondary := &stubSource{name: "secondary", err: &ParseError{Format: "alphavantage", Reason: "note"}}
	gen := NewSyntheticGenerator("ACME", nil, 42)

	c := NewCoordinator(zerolog.Nop(), gen, 150, primary, secondary)
	s := c.Accept(context.Background())

	if s == nil {
		t.Fatal("Accept returned nil")
	}
	if s.Origin != model.OriginSynthetic {
		t.Fatalf("expected synthetic origin, got %s", s.Origin)
	}
	if !reflect.DeepEqual(s.Bars, gen.Generate().Bars) {
		t.Error("fallback bars differ from generator output")
	}
	if len(s.Attempts) != 3 || s.Attempts[2].Source != "synthetic" {
		t.Errorf("unexpected attempts: %+v", s.Attempts)
	}
}

func TestAccept_CancelledContext(t *testing.T) {
	primary := &stubSource{name: "primary", series: liveSeries("primary", 200)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCoordinator(zerolog.Nop(), NewSyntheticGenerator("ACME", nil, 42), 0, primary)
	s := c.Accept(ctx)

	if s.Origin != model.OriginSynthetic {
		t.Fatalf("expected synthetic series on cancelled context, got %s", s.Origin)
	}
	if primary.calls != 0 {
		t.Errorf("no source should be tried after cancellation, got %d calls", primary.calls)
	}
	if c.MinBars != DefaultMinBars {
		t.Errorf("expected default threshold, got %d", c.MinBars)
	}
}

func TestErrorKind(t *testing.T) {
	if got := errorKind(&SourceError{Source: "x", Status: 500}); got != "source" {
		t.Errorf("got %s", got)
	}
	if got := errorKind(&ParseError{Format: "x"}); got != "parse" {
		t.Errorf("got %s", got)
	}
	if got := errorKind(errors.New("boom")); got != "other" {
		t.Errorf("got %s", got)
	}
}
