package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
	"time"

	"TickerDash/internal/calculator"
	"TickerDash/internal/model"
)

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html.tmpl").ParseFS(templateFS, "templates/dashboard.html.tmpl"))

// Display slot names.
const (
	SlotPrice      = "price"
	SlotChange     = "change"
	SlotVolatility = "volatility"
	SlotMarketCap  = "market_cap"
	SlotHigh52w    = "high_52w"
	SlotLow52w     = "low_52w"
	SlotAvgVolume  = "avg_volume"
	SlotRSI        = "rsi"
	SlotSMA50      = "sma_50"
	SlotSMA200     = "sma_200"
	SlotOrigin     = "origin"
)

const (
	colorPrice  = "#2563eb"
	colorMA50   = "#f59e0b"
	colorMA200  = "#dc2626"
	colorVolume = "rgba(37,99,235,0.35)"
	colorTarget = "#16a34a"
)

var segmentPalette = []string{"#2563eb", "#16a34a", "#f59e0b", "#dc2626", "#7c3aed", "#0891b2"}

// View is everything the page needs for one render.
type View struct {
	Symbol   string
	Name     string
	Window   Window
	Windows  []Window
	Live     bool
	Origin   model.Origin
	Source   string
	CycleID  string
	LoadedAt time.Time
	AsOf     time.Time
	Slots    map[string]string
	Charts   []Chart
	Attempts []model.Attempt
	Warnings []string
}

// Presenter turns snapshots into views. The price and volume charts are
// created once and updated in place; the fundamentals charts are static.
type Presenter struct {
	mu      sync.Mutex
	name    string
	price   *Chart
	volume  *Chart
	static  []*Chart
	lastKey string
}

// NewPresenter builds the static charts from fundamentals. Charts without
// data are omitted.
func NewPresenter(name string, f model.Fundamentals) *Presenter {
	p := &Presenter{
		name:   name,
		price:  newChart("price", "line", "Price"),
		volume: newChart("volume", "bar", "Volume"),
	}
	p.static = staticCharts(f)
	return p
}

// Render updates the dynamic charts for snap and window and returns a view
// holding copies of every chart. snap must not be nil.
func (p *Presenter) Render(snap *Snapshot, w Window) *View {
	p.mu.Lock()
	defer p.mu.Unlock()

	series := snap.Series
	asOf := snap.Metrics.AsOf
	if key := snap.CycleID + "/" + string(w); key != p.lastKey {
		p.updateDynamic(series.Bars, w, asOf)
		p.lastKey = key
	}

	charts := make([]Chart, 0, 2+len(p.static))
	charts = append(charts, *p.price, *p.volume)
	for _, c := range p.static {
		charts = append(charts, *c)
	}

	return &View{
		Symbol:   series.Symbol,
		Name:     p.name,
		Window:   w,
		Windows:  Windows,
		Live:     series.Live(),
		Origin:   series.Origin,
		Source:   series.Source,
		CycleID:  snap.CycleID,
		LoadedAt: snap.LoadedAt,
		AsOf:     asOf,
		Slots:    slots(series, snap.Metrics),
		Charts:   charts,
		Attempts: series.Attempts,
		Warnings: snap.Metrics.Warnings,
	}
}

func (p *Presenter) updateDynamic(all []model.PriceBar, w Window, asOf time.Time) {
	bars := FilterWindow(all, w, asOf)
	offset := len(all) - len(bars)

	// averages run over the full series so the window starts with values
	ma50, _ := calculator.MovingAverage(all, 50)
	ma200, _ := calculator.MovingAverage(all, 200)

	labels := make([]string, len(bars))
	closes := make(Points, len(bars))
	volumes := make(Points, len(bars))
	for i, b := range bars {
		labels[i] = b.Date.Format("2006-01-02")
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}

	p.price.Update(labels, []Dataset{
		{Label: "Close", Data: closes, Color: colorPrice},
		{Label: "MA50", Data: Points(ma50[offset:]), Color: colorMA50},
		{Label: "MA200", Data: Points(ma200[offset:]), Color: colorMA200},
	})
	p.volume.Update(labels, []Dataset{
		{Label: "Volume", Data: volumes, Fill: colorVolume},
	})
}

func slots(s *model.Series, m model.Metrics) map[string]string {
	out := make(map[string]string, 11)
	if s.Live() {
		out[SlotOrigin] = fmt.Sprintf("Live data (%s)", s.Source)
	} else {
		out[SlotOrigin] = "Synthetic data: live sources unavailable"
	}
	if s.Len() == 0 {
		return out
	}

	out[SlotPrice] = formatPrice(m.LatestClose)
	out[SlotChange] = formatPercent(m.PeriodReturn)
	if m.VolatilityOK {
		out[SlotVolatility] = fmt.Sprintf("%.1f%%", m.Volatility)
	}
	if m.High52w > 0 {
		out[SlotHigh52w] = formatPrice(m.High52w)
		out[SlotLow52w] = formatPrice(m.Low52w)
	}
	if m.AvgVolume > 0 {
		out[SlotAvgVolume] = formatVolume(m.AvgVolume)
	}
	if m.MarketCap > 0 {
		out[SlotMarketCap] = formatMoney(m.MarketCap)
	}
	out[SlotRSI] = fmt.Sprintf("%.1f", m.RSI14)
	if m.SMA50 > 0 {
		out[SlotSMA50] = formatPrice(m.SMA50)
	}
	if m.SMA200 > 0 {
		out[SlotSMA200] = formatPrice(m.SMA200)
	}
	return out
}

func staticCharts(f model.Fundamentals) []*Chart {
	var charts []*Chart

	if len(f.Revenue) > 0 {
		c := newChart("revenue", "bar", "Revenue")
		labels := make([]string, len(f.Revenue))
		values := make(Points, len(f.Revenue))
		for i, r := range f.Revenue {
			labels[i] = r.Period
			values[i] = r.Value
		}
		c.Update(labels, []Dataset{{Label: "Revenue", Data: values, Fill: colorPrice}})
		charts = append(charts, c)
	}

	if len(f.Margins) > 0 {
		c := newChart("profitability", "line", "Margins (%)")
		labels := make([]string, len(f.Margins))
		gross := make(Points, len(f.Margins))
		operating := make(Points, len(f.Margins))
		net := make(Points, len(f.Margins))
		for i, m := range f.Margins {
			labels[i] = m.Period
			gross[i], operating[i], net[i] = m.Gross, m.Operating, m.Net
		}
		c.Update(labels, []Dataset{
			{Label: "Gross", Data: gross, Color: colorPrice},
			{Label: "Operating", Data: operating, Color: colorMA50},
			{Label: "Net", Data: net, Color: colorTarget},
		})
		charts = append(charts, c)
	}

	if len(f.Segments) > 0 {
		c := newChart("segments", "doughnut", "Revenue mix")
		labels := make([]string, len(f.Segments))
		shares := make(Points, len(f.Segments))
		colors := make([]string, len(f.Segments))
		for i, s := range f.Segments {
			labels[i] = s.Name
			shares[i] = s.Share
			colors[i] = segmentPalette[i%len(segmentPalette)]
		}
		c.Update(labels, []Dataset{{Label: "Share", Data: shares, Colors: colors}})
		charts = append(charts, c)
	}

	if sc := f.Scenario; len(sc.Multiples) > 0 && f.SharesOutstanding > 0 {
		c := newChart("scenario", "bar", "Implied price by revenue multiple")
		labels := make([]string, 0, len(sc.Multiples))
		prices := make(Points, 0, len(sc.Multiples))
		for _, m := range sc.Multiples {
			price, err := calculator.ImpliedPrice(m, sc.ProjectedRevenue, sc.NetCash, f.SharesOutstanding)
			if err != nil {
				continue
			}
			labels = append(labels, fmt.Sprintf("%gx", m))
			prices = append(prices, price)
		}
		c.Update(labels, []Dataset{{Label: "Implied price", Data: prices, Fill: colorPrice}})
		if sc.TargetPrice > 0 {
			c.Annotations = []Annotation{{Label: "Target " + formatPrice(sc.TargetPrice), Value: sc.TargetPrice, Color: colorTarget}}
		}
		charts = append(charts, c)
	}

	return charts
}

// HTML renders the dashboard page for v.
func (p *Presenter) HTML(v *View) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}
