package calculator

import (
	"errors"

	"TickerDash/internal/model"
)

// neutralRSI is reported while the series is shorter than period+1 bars.
const neutralRSI = 50.0

// CalculateRSI returns Wilder's relative strength index of the closes.
func CalculateRSI(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) <= period {
		return neutralRSI, nil
	}

	n := float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(bars); i++ {
		gain, loss := splitChange(bars[i].Close - bars[i-1].Close)
		if i <= period {
			// seed with the plain mean of the first period changes
			avgGain += gain / n
			avgLoss += loss / n
			continue
		}
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
	}

	if avgLoss == 0 {
		return 100, nil
	}
	return 100 - 100/(1+avgGain/avgLoss), nil
}

// splitChange returns a price change as a (gain, loss) pair, both >= 0.
func splitChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}
