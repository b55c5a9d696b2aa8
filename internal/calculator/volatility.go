package calculator

import (
	"errors"
	"math"

	"TickerDash/internal/model"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// ErrInsufficientReturns is returned when fewer than two log returns exist.
var ErrInsufficientReturns = errors.New("at least two returns required for volatility")

// AnnualizedVolatility computes the sample standard deviation of daily log
// returns over the trailing window bars, annualized by sqrt(252), in percent.
func AnnualizedVolatility(bars []model.PriceBar, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	start := len(bars) - window
	if start < 0 {
		start = 0
	}
	tail := bars[start:]
	if len(tail) < 3 {
		return 0, ErrInsufficientReturns
	}

	returns := make([]float64, 0, len(tail)-1)
	for i := 1; i < len(tail); i++ {
		if tail[i-1].Close <= 0 || tail[i].Close <= 0 {
			return 0, errors.New("non-positive close in window")
		}
		returns = append(returns, math.Log(tail[i].Close/tail[i-1].Close))
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance*TradingDaysPerYear) * 100, nil
}
