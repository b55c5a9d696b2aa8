package calculator

import (
	"errors"
	"fmt"
	"math"

	"TickerDash/internal/model"
)

// TrailingSMA averages the closes of the last period bars.
func TrailingSMA(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period {
		return 0, fmt.Errorf("need %d bars for SMA%d, have %d", period, period, len(bars))
	}
	sum := 0.0
	for _, b := range bars[len(bars)-period:] {
		sum += b.Close
	}
	return sum / float64(period), nil
}

// MovingAverage returns the rolling SMA of closes aligned with bars.
// Entries before the first full window are NaN.
func MovingAverage(bars []model.PriceBar, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]float64, len(bars))
	sum := 0.0
	for i, b := range bars {
		sum += b.Close
		if i >= period {
			sum -= bars[i-period].Close
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out, nil
}
