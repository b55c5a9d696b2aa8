package model

import "time"

// Metrics holds the display figures derived from an accepted series.
type Metrics struct {
	AsOf         time.Time `json:"as_of"`
	LatestClose  float64   `json:"latest_close"`
	PeriodReturn float64   `json:"period_return"`
	Volatility   float64   `json:"volatility"`
	VolatilityOK bool      `json:"volatility_ok"`
	High52w      float64   `json:"high_52w"`
	Low52w       float64   `json:"low_52w"`
	Position52w  float64   `json:"position_52w"` // 0.0 ~ 1.0
	AvgVolume    float64   `json:"avg_volume"`
	MarketCap    float64   `json:"market_cap"`
	RSI14        float64   `json:"rsi_14"`
	SMA50        float64   `json:"sma_50,omitempty"`
	SMA200       float64   `json:"sma_200,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
}
