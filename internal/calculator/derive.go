package calculator

import (
	"fmt"
	"time"

	"TickerDash/internal/model"
)

// Params controls the windows used by Derive.
type Params struct {
	ReturnLookback    int     `yaml:"return_lookback" default:"252"`
	VolatilityWindow  int     `yaml:"volatility_window" default:"90"`
	VolumeWindow      int     `yaml:"volume_window" default:"30"`
	RangeDays         int     `yaml:"range_days" default:"365"`
	RSIPeriod         int     `yaml:"rsi_period" default:"14"`
	ShortMA           int     `yaml:"short_ma" default:"50"`
	LongMA            int     `yaml:"long_ma" default:"200"`
	SharesOutstanding float64 `yaml:"-"`
}

// DefaultParams returns the standard dashboard windows.
func DefaultParams() Params {
	return Params{
		ReturnLookback:   252,
		VolatilityWindow: 90,
		VolumeWindow:     30,
		RangeDays:        365,
		RSIPeriod:        14,
		ShortMA:          50,
		LongMA:           200,
	}
}

// Derive computes every display metric for series as of now. A metric that
// cannot be computed is left at zero and described in Warnings.
func Derive(series *model.Series, now time.Time, p Params) model.Metrics {
	m := model.Metrics{AsOf: now}
	if series.Len() == 0 {
		m.Warnings = append(m.Warnings, "series is empty")
		return m
	}
	bars := series.Bars
	warn := func(metric string, err error) {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%s: %v", metric, err))
	}

	var err error
	if m.LatestClose, err = LatestClose(bars); err != nil {
		warn("latest_close", err)
	}
	if m.PeriodReturn, err = PeriodReturn(bars, p.ReturnLookback); err != nil {
		warn("period_return", err)
	}
	if m.Volatility, err = AnnualizedVolatility(bars, p.VolatilityWindow); err != nil {
		warn("volatility", err)
	} else {
		m.VolatilityOK = true
	}

	since := now.AddDate(0, 0, -p.RangeDays)
	if m.High52w, m.Low52w, err = RangeHighLow(bars, since); err != nil {
		warn("range", err)
	} else if m.Position52w, err = RangePosition(m.LatestClose, m.High52w, m.Low52w); err != nil {
		warn("range_position", err)
	}

	if m.AvgVolume, err = AverageVolume(bars, p.VolumeWindow); err != nil {
		warn("avg_volume", err)
	}
	if m.RSI14, err = CalculateRSI(bars, p.RSIPeriod); err != nil {
		warn("rsi", err)
	}
	if m.SMA50, err = TrailingSMA(bars, p.ShortMA); err != nil {
		warn("sma_50", err)
	}
	if m.SMA200, err = TrailingSMA(bars, p.LongMA); err != nil {
		warn("sma_200", err)
	}
	if p.SharesOutstanding > 0 {
		if m.MarketCap, err = MarketCap(m.LatestClose, p.SharesOutstanding); err != nil {
			warn("market_cap", err)
		}
	}
	return m
}
