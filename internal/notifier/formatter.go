package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"TickerDash/internal/model"
	"TickerDash/internal/recorder"
)

func originLine(s *model.Series) string {
	if s.Live() {
		return fmt.Sprintf("🟢 Live data (%s)", html.EscapeString(s.Source))
	}
	return "🟡 Synthetic data"
}

// FormatFallbackNotice announces that the dashboard switched to synthetic data.
func FormatFallbackNotice(s *model.Series) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚠️ <b>%s dashboard is showing synthetic data</b>\n\n", html.EscapeString(s.Symbol)))
	b.WriteString("All live sources failed:\n")
	for _, a := range s.Attempts {
		if a.OK {
			continue
		}
		b.WriteString(fmt.Sprintf("  • %s: %s\n", html.EscapeString(a.Source), html.EscapeString(a.Error)))
	}
	return b.String()
}

// FormatRecoveryNotice announces that live data is back.
func FormatRecoveryNotice(s *model.Series) string {
	return fmt.Sprintf("✅ <b>%s live data restored</b> via %s (%d bars)",
		html.EscapeString(s.Symbol), html.EscapeString(s.Source), s.Len())
}

// FormatStatus formats the current snapshot for the /status command.
func FormatStatus(s *model.Series, m model.Metrics, loadedAt time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | as of %s\n", html.EscapeString(s.Symbol), m.AsOf.Format("2006-01-02")))
	b.WriteString(originLine(s) + "\n\n")
	b.WriteString(fmt.Sprintf("Close: %s (%+.2f%%)\n", humanize.FormatFloat("#,###.##", m.LatestClose), m.PeriodReturn))
	if m.VolatilityOK {
		b.WriteString(fmt.Sprintf("Volatility: %.1f%%\n", m.Volatility))
	}
	b.WriteString(fmt.Sprintf("52w range: %s – %s\n",
		humanize.FormatFloat("#,###.##", m.Low52w), humanize.FormatFloat("#,###.##", m.High52w)))
	b.WriteString(fmt.Sprintf("Avg volume: %s\n", humanize.Comma(int64(m.AvgVolume))))
	if m.MarketCap > 0 {
		b.WriteString(fmt.Sprintf("Market cap: %s\n", humanize.SIWithDigits(m.MarketCap, 2, "")))
	}
	b.WriteString(fmt.Sprintf("RSI(14): %.1f\n", m.RSI14))
	b.WriteString(fmt.Sprintf("\nLoaded %s", humanize.Time(loadedAt)))
	return b.String()
}

// FormatDailySummary is the scheduled end-of-day message.
func FormatDailySummary(s *model.Series, m model.Metrics, loadedAt time.Time) string {
	return fmt.Sprintf("📅 <b>Daily summary</b> | %s\n\n%s", time.Now().Format("2006-01-02"), FormatStatus(s, m, loadedAt))
}

// FormatHistory lists recent load cycles.
func FormatHistory(rows []recorder.LoadSummary) string {
	if len(rows) == 0 {
		return "No load history recorded."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent loads</b>\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s  %s/%s  %d bars  %d failed  close %.2f\n",
			r.LoadedAt.Format("01-02 15:04"), r.Origin, html.EscapeString(r.Source), r.Bars, r.FailedTries, r.LatestClose))
	}
	return b.String()
}

// HelpText lists the bot commands.
const HelpText = "Available commands:\n• /status current figures\n• /reload refresh data now\n• /history recent load cycles"
