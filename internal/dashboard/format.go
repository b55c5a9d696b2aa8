package dashboard

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

func formatPrice(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// formatMoney renders large amounts with a short scale suffix, e.g. $208.15B.
func formatMoney(v float64) string {
	if math.Abs(v) < 1000 {
		return formatPrice(v)
	}
	scaled, prefix := humanize.ComputeSI(v)
	suffix := map[string]string{"k": "K", "M": "M", "G": "B", "T": "T", "P": "P"}[prefix]
	return fmt.Sprintf("$%.2f%s", scaled, suffix)
}

func formatVolume(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}
