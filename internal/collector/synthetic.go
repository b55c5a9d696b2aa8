package collector

import (
	"context"
	"math"
	"sort"
	"time"

	"TickerDash/internal/model"
)

// LCG is a linear congruential generator with the Numerical Recipes
// constants: state = (1664525*state + 1013904223) mod 2^32.
type LCG struct {
	state uint32
}

func NewLCG(seed uint32) *LCG { return &LCG{state: seed} }

// Next advances the generator and returns the new state.
func (g *LCG) Next() uint32 {
	g.state = 1664525*g.state + 1013904223
	return g.state
}

// Float64 returns a value in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Next()) / (1 << 32)
}

// Noise returns a value in [-1, 1).
func (g *LCG) Noise() float64 {
	return g.Float64()*2 - 1
}

// SyntheticGenerator interpolates a dense business-day series between anchor
// points. The same seed and anchors always produce the same bars.
type SyntheticGenerator struct {
	Symbol         string
	Anchors        []model.Anchor
	Seed           uint32
	NoiseFraction  float64 // close noise as a fraction of the reference price
	SpreadFraction float64 // intraday spread around the close
	VolumeNoise    float64 // proportional volume noise
	MinVolume      float64
}

// NewSyntheticGenerator returns a generator with the default noise settings.
func NewSyntheticGenerator(symbol string, anchors []model.Anchor, seed uint32) *SyntheticGenerator {
	return &SyntheticGenerator{
		Symbol:         symbol,
		Anchors:        anchors,
		Seed:           seed,
		NoiseFraction:  0.02,
		SpreadFraction: 0.015,
		VolumeNoise:    0.25,
		MinVolume:      100000,
	}
}

func (g *SyntheticGenerator) Name() string { return "synthetic" }

// FetchSeries never fails.
func (g *SyntheticGenerator) FetchSeries(_ context.Context) (*model.Series, error) {
	return g.Generate(), nil
}

// Generate builds the synthetic series.
func (g *SyntheticGenerator) Generate() *model.Series {
	return &model.Series{
		Symbol:    g.Symbol,
		Bars:      g.Bars(),
		Origin:    model.OriginSynthetic,
		Source:    g.Name(),
		FetchedAt: time.Now(),
	}
}

// Bars returns one bar per Monday-Friday date from the first anchor to the
// last. Without anchors it falls back to DefaultAnchors.
func (g *SyntheticGenerator) Bars() []model.PriceBar {
	src := g.Anchors
	if len(src) == 0 {
		src = DefaultAnchors
	}
	anchors := make([]model.Anchor, len(src))
	copy(anchors, src)
	for i := range anchors {
		anchors[i].Date = truncateDay(anchors[i].Date)
	}
	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].Date.Before(anchors[j].Date) })

	rng := NewLCG(g.Seed)
	if len(anchors) == 1 {
		a := anchors[0]
		return []model.PriceBar{g.bar(rng, a.Date, a.Close, a.Volume)}
	}

	var bars []model.PriceBar
	for i := 0; i < len(anchors)-1; i++ {
		a, b := anchors[i], anchors[i+1]
		span := b.Date.Sub(a.Date).Hours() / 24
		if span <= 0 {
			continue
		}
		last := i == len(anchors)-2
		for d := a.Date; d.Before(b.Date) || (last && d.Equal(b.Date)); d = d.AddDate(0, 0, 1) {
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			t := d.Sub(a.Date).Hours() / 24 / span
			bars = append(bars, g.bar(rng, d, lerp(a.Close, b.Close, t), lerp(a.Volume, b.Volume, t)))
		}
	}
	return bars
}

func (g *SyntheticGenerator) bar(rng *LCG, date time.Time, refClose, refVolume float64) model.PriceBar {
	closePx := refClose * (1 + rng.Noise()*g.NoiseFraction)
	if closePx <= 0 {
		closePx = refClose
	}
	open := closePx * (1 + rng.Noise()*g.SpreadFraction/2)
	high := math.Max(open, closePx) * (1 + rng.Float64()*g.SpreadFraction)
	low := math.Min(open, closePx) * (1 - rng.Float64()*g.SpreadFraction)

	volume := refVolume * (1 + rng.Noise()*g.VolumeNoise)
	if volume < g.MinVolume {
		volume = g.MinVolume
	}

	return model.PriceBar{
		Date:   date,
		Open:   round2(open),
		High:   round2(high),
		Low:    round2(low),
		Close:  round2(closePx),
		Volume: int64(volume),
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultAnchors approximate two years of history for the default ticker.
var DefaultAnchors = []model.Anchor{
	{Date: day(2024, time.October, 1), Close: 118.0, Volume: 42e6},
	{Date: day(2024, time.December, 2), Close: 131.5, Volume: 38e6},
	{Date: day(2025, time.February, 3), Close: 124.0, Volume: 45e6},
	{Date: day(2025, time.April, 1), Close: 98.5, Volume: 61e6},
	{Date: day(2025, time.June, 2), Close: 112.0, Volume: 47e6},
	{Date: day(2025, time.August, 1), Close: 126.5, Volume: 40e6},
	{Date: day(2025, time.October, 1), Close: 139.0, Volume: 36e6},
	{Date: day(2025, time.December, 1), Close: 134.0, Volume: 39e6},
	{Date: day(2026, time.February, 2), Close: 147.5, Volume: 35e6},
	{Date: day(2026, time.April, 1), Close: 141.0, Volume: 41e6},
	{Date: day(2026, time.June, 1), Close: 158.0, Volume: 37e6},
	{Date: day(2026, time.August, 3), Close: 166.5, Volume: 34e6},
	{Date: day(2026, time.September, 30), Close: 172.0, Volume: 33e6},
}
