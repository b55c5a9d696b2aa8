package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"TickerDash/internal/model"
)

// RangeHighLow returns the highest high and lowest low among bars dated on
// or after since.
func RangeHighLow(bars []model.PriceBar, since time.Time) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no daily bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.Date.Before(since) {
			continue
		}
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	if math.IsInf(high, -1) {
		return 0, 0, errors.New("no bars in range")
	}
	return high, low, nil
}

// RangePosition places current within [low, high]: 0 at the low, 1 at the
// high. A flat range puts every price in the middle.
func RangePosition(current, high, low float64) (float64, error) {
	switch {
	case high < low:
		return 0, fmt.Errorf("inverted range: high %.2f < low %.2f", high, low)
	case high == low:
		return 0.5, nil
	}
	return math.Min(1, math.Max(0, (current-low)/(high-low))), nil
}
