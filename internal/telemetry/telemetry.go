package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"TickerDash/internal/model"
)

// Recorder exports load-cycle metrics to Prometheus.
type Recorder struct {
	registry      *prometheus.Registry
	attempts      *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fallbacks     prometheus.Counter
	lastClose     *prometheus.GaugeVec
	barCount      *prometheus.GaugeVec
}

// New creates a Recorder on its own registry, including Go runtime collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickerdash_source_attempts_total",
				Help: "Data source attempts by outcome",
			},
			[]string{"source", "outcome"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tickerdash_fetch_duration_seconds",
				Help:    "Duration of data source fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "tickerdash_synthetic_fallbacks_total",
			Help: "Load cycles that ended on the synthetic series",
		}),
		lastClose: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tickerdash_last_close",
				Help: "Latest close of the accepted series",
			},
			[]string{"symbol", "origin"},
		),
		barCount: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tickerdash_series_bars",
				Help: "Number of bars in the accepted series",
			},
			[]string{"symbol"},
		),
	}
}

// Registry returns the registry backing /metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveAttempt records one source attempt.
func (r *Recorder) ObserveAttempt(source string, ok bool, d time.Duration) {
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	r.attempts.WithLabelValues(source, outcome).Inc()
	r.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveSnapshot records the outcome of a completed load cycle.
func (r *Recorder) ObserveSnapshot(series *model.Series, m model.Metrics) {
	if !series.Live() {
		r.fallbacks.Inc()
	}
	r.lastClose.Reset()
	r.lastClose.WithLabelValues(series.Symbol, string(series.Origin)).Set(m.LatestClose)
	r.barCount.WithLabelValues(series.Symbol).Set(float64(series.Len()))
}
