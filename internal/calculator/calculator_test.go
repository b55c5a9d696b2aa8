package calculator

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"TickerDash/internal/model"
)

var day0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes ...float64) []model.PriceBar {
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Date: day0.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: int64(1000 * (i + 1)),
		}
	}
	return bars
}

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestTrailingSMA(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		period  int
		want    float64
		wantErr bool
	}{
		{"exact window", []float64{1, 2, 3}, 3, 2, false},
		{"trailing window", []float64{10, 1, 2, 3}, 3, 2, false},
		{"too short", []float64{1, 2}, 3, 0, true},
		{"bad period", []float64{1, 2}, 0, 0, true},
	}
	for _, tt := range tests {
		got, err := TrailingSMA(barsFromCloses(tt.closes...), tt.period)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("%s: got %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestTrailingSMAMatchesMovingAverage(t *testing.T) {
	bars := barsFromCloses(4, 8, 15, 16, 23, 42, 7, 9)
	ma, _ := MovingAverage(bars, 5)
	sma, err := TrailingSMA(bars, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(ma[len(ma)-1], sma, 1e-9) {
		t.Errorf("last rolling value %f != trailing SMA %f", ma[len(ma)-1], sma)
	}
}

func TestMovingAverage(t *testing.T) {
	ma, err := MovingAverage(barsFromCloses(1, 2, 3, 4, 5), 3)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(ma[0]) || !math.IsNaN(ma[1]) {
		t.Errorf("expected NaN warm-up, got %v", ma[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !approx(ma[i+2], w, 1e-9) {
			t.Errorf("ma[%d] = %f, want %f", i+2, ma[i+2], w)
		}
	}
}

func TestLatestCloseAndPeriodReturn(t *testing.T) {
	bars := barsFromCloses(50, 60, 70, 100)
	if c, err := LatestClose(bars); err != nil || c != 100 {
		t.Errorf("LatestClose = %f, %v", c, err)
	}
	if r, err := PeriodReturn(bars, 3); err != nil || !approx(r, 100, 1e-9) {
		t.Errorf("PeriodReturn(3) = %f, %v; want 100", r, err)
	}
	// lookback longer than the series falls back to the earliest bar
	if r, err := PeriodReturn(bars, 500); err != nil || !approx(r, 100, 1e-9) {
		t.Errorf("PeriodReturn(500) = %f, %v; want 100", r, err)
	}
	if r, _ := PeriodReturn(bars, 1); !approx(r, 30/70.0*100, 1e-9) {
		t.Errorf("PeriodReturn(1) = %f", r)
	}
	if _, err := LatestClose(nil); err == nil {
		t.Error("expected error for empty bars")
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	flat := barsFromCloses(10, 10, 10, 10, 10)
	v, err := AnnualizedVolatility(flat, 90)
	if err != nil || v != 0 {
		t.Errorf("flat series volatility = %f, %v; want 0", v, err)
	}

	// alternating +x/-x log returns
	up := math.Exp(0.01)
	bars := barsFromCloses(100, 100*up, 100, 100*up, 100)
	v, err = AnnualizedVolatility(bars, 90)
	if err != nil {
		t.Fatal(err)
	}
	// returns: +.01,-.01,+.01,-.01; mean 0; sample var = 4e-4/3
	want := math.Sqrt(4e-4/3*252) * 100
	if !approx(v, want, 1e-9) {
		t.Errorf("volatility = %f, want %f", v, want)
	}

	if _, err := AnnualizedVolatility(barsFromCloses(10, 11), 90); !errors.Is(err, ErrInsufficientReturns) {
		t.Errorf("expected ErrInsufficientReturns, got %v", err)
	}
}

func TestAnnualizedVolatility_UsesTrailingWindow(t *testing.T) {
	closes := []float64{10, 50, 5, 80}
	for i := 0; i < 10; i++ {
		closes = append(closes, 100)
	}
	v, err := AnnualizedVolatility(barsFromCloses(closes...), 5)
	if err != nil || v != 0 {
		t.Errorf("trailing flat window volatility = %f, %v; want 0", v, err)
	}
}

func TestRangeHighLow(t *testing.T) {
	bars := barsFromCloses(200, 10, 20, 30)
	high, low, err := RangeHighLow(bars, day0.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if high != 31 || low != 9 {
		t.Errorf("got high=%f low=%f, want 31/9", high, low)
	}
	if _, _, err := RangeHighLow(bars, day0.AddDate(1, 0, 0)); err == nil {
		t.Error("expected error when no bars are in range")
	}
}

func TestRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low, want float64
	}{
		{50, 100, 0, 0.5},
		{150, 100, 0, 1},
		{-5, 100, 0, 0},
		{7, 7, 7, 0.5},
	}
	for _, tt := range tests {
		got, err := RangePosition(tt.current, tt.high, tt.low)
		if err != nil || got != tt.want {
			t.Errorf("RangePosition(%v,%v,%v) = %v, %v; want %v", tt.current, tt.high, tt.low, got, err, tt.want)
		}
	}
	if _, err := RangePosition(1, 0, 10); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestAverageVolume(t *testing.T) {
	bars := barsFromCloses(1, 2, 3, 4) // volumes 1000..4000
	if v, err := AverageVolume(bars, 2); err != nil || v != 3500 {
		t.Errorf("AverageVolume(2) = %f, %v", v, err)
	}
	if v, err := AverageVolume(bars, 10); err != nil || v != 2500 {
		t.Errorf("AverageVolume(10) = %f, %v", v, err)
	}
}

func TestCalculateRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(i + 1)
	}
	if r, _ := CalculateRSI(barsFromCloses(rising...), 14); r != 100 {
		t.Errorf("monotonic rise RSI = %f, want 100", r)
	}
	if r, _ := CalculateRSI(barsFromCloses(1, 2, 3), 14); r != 50 {
		t.Errorf("insufficient data RSI = %f, want 50", r)
	}

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = float64(40 - i)
	}
	if r, _ := CalculateRSI(barsFromCloses(falling...), 14); r != 0 {
		t.Errorf("monotonic fall RSI = %f, want 0", r)
	}

	zigzag := make([]float64, 15)
	for i := range zigzag {
		zigzag[i] = 10 + float64(i%2)
	}
	if r, _ := CalculateRSI(barsFromCloses(zigzag...), 14); !approx(r, 50, 1e-9) {
		t.Errorf("balanced RSI = %f, want 50", r)
	}
	if _, err := CalculateRSI(barsFromCloses(rising...), 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestImpliedPrice(t *testing.T) {
	got, err := ImpliedPrice(24, 8.5e9, 4.0e9, 2.3e9)
	if err != nil {
		t.Fatal(err)
	}
	if got != 90.43 {
		t.Errorf("ImpliedPrice = %v, want 90.43", got)
	}
	if _, err := ImpliedPrice(24, 8.5e9, 0, 0); err == nil {
		t.Error("expected error for zero shares")
	}
}

func TestMarketCap(t *testing.T) {
	got, err := MarketCap(90.5, 2.3e9)
	if err != nil || got != 208.15e9 {
		t.Errorf("MarketCap = %v, %v", got, err)
	}
}

func TestDerive(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	series := &model.Series{Bars: barsFromCloses(closes...)}
	now := series.Last().Date

	p := DefaultParams()
	p.SharesOutstanding = 1e6
	m := Derive(series, now, p)

	if len(m.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", m.Warnings)
	}
	if m.LatestClose != closes[299] || !m.VolatilityOK || m.Volatility <= 0 {
		t.Errorf("unexpected metrics: %+v", m)
	}
	if m.MarketCap != closes[299]*1e6 {
		t.Errorf("market cap = %f", m.MarketCap)
	}
	if m.High52w != 107 || m.Low52w != 99 {
		t.Errorf("range = %f/%f, want 107/99", m.High52w, m.Low52w)
	}
	wantShort, _ := TrailingSMA(series.Bars, 50)
	wantLong, _ := TrailingSMA(series.Bars, 200)
	if m.SMA50 != wantShort || m.SMA200 != wantLong || m.SMA200 == 0 {
		t.Errorf("sma = %f/%f, want %f/%f", m.SMA50, m.SMA200, wantShort, wantLong)
	}
}

func TestDerive_ShortSeriesWarns(t *testing.T) {
	series := &model.Series{Bars: barsFromCloses(10, 11)}
	m := Derive(series, series.Last().Date, DefaultParams())
	if m.VolatilityOK {
		t.Error("volatility should be flagged unavailable")
	}
	if len(m.Warnings) == 0 {
		t.Error("expected a volatility warning")
	}
	if m.SMA50 != 0 || !hasWarning(m.Warnings, "sma_50") {
		t.Errorf("short series should warn about sma_50: %v", m.Warnings)
	}
	if m.LatestClose != 11 {
		t.Errorf("latest close = %f", m.LatestClose)
	}

	empty := Derive(nil, time.Now(), DefaultParams())
	if len(empty.Warnings) != 1 {
		t.Errorf("expected empty-series warning, got %v", empty.Warnings)
	}
}

func hasWarning(warnings []string, metric string) bool {
	for _, w := range warnings {
		if strings.HasPrefix(w, metric+":") {
			return true
		}
	}
	return false
}
