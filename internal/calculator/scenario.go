package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ImpliedPrice is the per-share value of a revenue multiple scenario:
// (projectedRevenue*multiple + netCash) / shares, rounded to cents.
func ImpliedPrice(multiple, projectedRevenue, netCash, shares float64) (float64, error) {
	if shares <= 0 {
		return 0, errors.New("shares outstanding must be positive")
	}
	value := decimal.NewFromFloat(projectedRevenue).
		Mul(decimal.NewFromFloat(multiple)).
		Add(decimal.NewFromFloat(netCash))
	price, _ := value.DivRound(decimal.NewFromFloat(shares), 8).Round(2).Float64()
	return price, nil
}

// MarketCap is price times shares outstanding.
func MarketCap(price, shares float64) (float64, error) {
	if shares <= 0 {
		return 0, errors.New("shares outstanding must be positive")
	}
	v, _ := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(shares)).Float64()
	return v, nil
}
