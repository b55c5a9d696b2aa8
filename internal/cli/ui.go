package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"TickerDash/internal/dashboard"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	syntheticStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(12)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
)

var summaryRows = []struct{ label, slot string }{
	{"Close", dashboard.SlotPrice},
	{"Change", dashboard.SlotChange},
	{"Volatility", dashboard.SlotVolatility},
	{"Market cap", dashboard.SlotMarketCap},
	{"52w high", dashboard.SlotHigh52w},
	{"52w low", dashboard.SlotLow52w},
	{"Avg volume", dashboard.SlotAvgVolume},
	{"RSI 14", dashboard.SlotRSI},
	{"SMA 50", dashboard.SlotSMA50},
	{"SMA 200", dashboard.SlotSMA200},
}

// RenderSummary draws the view's display slots as a terminal box.
func RenderSummary(v *dashboard.View) string {
	originStyle := syntheticStyle
	if v.Live {
		originStyle = liveStyle
	}

	var lines []string
	lines = append(lines, titleStyle.Render(fmt.Sprintf("%s  %s", v.Symbol, v.Name)))
	lines = append(lines, originStyle.Render(v.Slots[dashboard.SlotOrigin]))
	for _, r := range summaryRows {
		val, ok := v.Slots[r.slot]
		if !ok {
			continue
		}
		lines = append(lines, labelStyle.Render(r.label)+val)
	}
	for _, w := range v.Warnings {
		lines = append(lines, syntheticStyle.Render("! "+w))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
