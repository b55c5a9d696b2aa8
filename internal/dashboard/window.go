package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"TickerDash/internal/model"
)

// Window is a chart time range selector.
type Window string

const (
	Window1M  Window = "1M"
	Window3M  Window = "3M"
	Window6M  Window = "6M"
	Window1Y  Window = "1Y"
	Window2Y  Window = "2Y"
	WindowAll Window = "ALL"
)

// Windows lists the selectors in display order.
var Windows = []Window{Window1M, Window3M, Window6M, Window1Y, Window2Y, WindowAll}

// ParseWindow accepts a selector case-insensitively.
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Windows {
		if w == known {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown window %q", s)
}

// Since returns the earliest date inside the window ending at now.
// ok is false for WindowAll.
func (w Window) Since(now time.Time) (since time.Time, ok bool) {
	switch w {
	case Window1M:
		return now.AddDate(0, -1, 0), true
	case Window3M:
		return now.AddDate(0, -3, 0), true
	case Window6M:
		return now.AddDate(0, -6, 0), true
	case Window1Y:
		return now.AddDate(-1, 0, 0), true
	case Window2Y:
		return now.AddDate(-2, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// FilterWindow returns the tail of bars dated within the window. The result
// shares the backing array of bars; nothing is copied.
func FilterWindow(bars []model.PriceBar, w Window, now time.Time) []model.PriceBar {
	since, ok := w.Since(now)
	if !ok {
		return bars
	}
	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Date.Before(since) })
	return bars[i:]
}
