package calculator

import (
	"errors"

	"TickerDash/internal/model"
)

// LatestClose returns the close of the most recent bar.
func LatestClose(bars []model.PriceBar) (float64, error) {
	if len(bars) == 0 {
		return 0, errors.New("no daily bars provided")
	}
	return bars[len(bars)-1].Close, nil
}

// PeriodReturn returns the percent change between the latest close and the
// close lookbackBars before it, or the earliest bar when the series is shorter.
func PeriodReturn(bars []model.PriceBar, lookbackBars int) (float64, error) {
	if len(bars) == 0 {
		return 0, errors.New("no daily bars provided")
	}
	if lookbackBars <= 0 {
		return 0, errors.New("lookback must be positive")
	}
	last := len(bars) - 1
	ref := last - lookbackBars
	if ref < 0 {
		ref = 0
	}
	refClose := bars[ref].Close
	if refClose <= 0 {
		return 0, errors.New("reference close must be positive")
	}
	return (bars[last].Close - refClose) / refClose * 100, nil
}
