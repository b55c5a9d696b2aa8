package calculator

import (
	"errors"

	"TickerDash/internal/model"
)

// AverageVolume is the arithmetic mean volume over the trailing lastN bars.
func AverageVolume(bars []model.PriceBar, lastN int) (float64, error) {
	if lastN <= 0 {
		return 0, errors.New("lastN must be positive")
	}
	if len(bars) == 0 {
		return 0, errors.New("no daily bars provided")
	}
	start := len(bars) - lastN
	if start < 0 {
		start = 0
	}
	var sum float64
	for _, b := range bars[start:] {
		sum += float64(b.Volume)
	}
	return sum / float64(len(bars)-start), nil
}
