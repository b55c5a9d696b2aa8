package collector

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"TickerDash/internal/model"
)

// DefaultMinBars is the viability threshold: a series with fewer valid bars
// is not accepted over the next source in the fallback chain.
const DefaultMinBars = 150

// ParseError reports a malformed or insufficient upstream payload.
type ParseError struct {
	Format string
	Reason string
	Count  int
}

func (e *ParseError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("parse %s: %s (%d bars)", e.Format, e.Reason, e.Count)
	}
	return fmt.Sprintf("parse %s: %s", e.Format, e.Reason)
}

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Normalize drops unusable bars, repairs the OHLC envelope, removes duplicate
// dates (last one wins) and sorts ascending. It fails when fewer than minBars
// bars survive.
func Normalize(bars []model.PriceBar, minBars int, format string) ([]model.PriceBar, error) {
	byDate := make(map[time.Time]int, len(bars))
	out := make([]model.PriceBar, 0, len(bars))

	for _, b := range bars {
		if !validPrice(b.Close) {
			continue
		}
		b.Date = truncateDay(b.Date)
		if !validPrice(b.Open) {
			b.Open = b.Close
		}
		if !validPrice(b.High) {
			b.High = math.Max(b.Open, b.Close)
		}
		if !validPrice(b.Low) {
			b.Low = math.Min(b.Open, b.Close)
		}
		b.High = math.Max(b.High, math.Max(b.Open, b.Close))
		b.Low = math.Min(b.Low, math.Min(b.Open, b.Close))
		if b.Volume < 0 {
			b.Volume = 0
		}

		if i, ok := byDate[b.Date]; ok {
			out[i] = b
			continue
		}
		byDate[b.Date] = len(out)
		out = append(out, b)
	}

	if len(out) < minBars {
		return nil, &ParseError{Format: format, Reason: fmt.Sprintf("below viability threshold of %d", minBars), Count: len(out)}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ParseYahooChart maps a v8 chart payload into daily bars.
func ParseYahooChart(body []byte, minBars int) ([]model.PriceBar, error) {
	const format = "yahoo"

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, &ParseError{Format: format, Reason: "decode: " + err.Error()}
	}
	if chart.Chart.Error != nil {
		return nil, &ParseError{Format: format, Reason: "api error: " + chart.Chart.Error.Description}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, &ParseError{Format: format, Reason: "no data returned"}
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, &ParseError{Format: format, Reason: "missing quote indicators"}
	}
	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return nil, &ParseError{Format: format, Reason: "close array does not match timestamps"}
	}

	bars := make([]model.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bars = append(bars, model.PriceBar{
			// shift to exchange-local time so the calendar day is right
			Date:   time.Unix(ts+result.Meta.GMTOffset, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  at(quote.Close, i),
			Volume: int64(math.Max(0, zeroIfNaN(at(quote.Volume, i)))),
		})
	}
	return Normalize(bars, minBars, format)
}

// at returns values[i], or NaN when the value is null or missing.
func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return math.NaN()
	}
	return *values[i]
}

// ParseAlphaVantage maps a TIME_SERIES_DAILY payload into daily bars.
func ParseAlphaVantage(body []byte, minBars int) ([]model.PriceBar, error) {
	const format = "alphavantage"

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Format: format, Reason: "decode: " + err.Error()}
	}
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if msg, ok := raw[key]; ok {
			var text string
			_ = json.Unmarshal(msg, &text)
			return nil, &ParseError{Format: format, Reason: strings.ToLower(key) + ": " + text}
		}
	}
	seriesRaw, ok := raw["Time Series (Daily)"]
	if !ok {
		return nil, &ParseError{Format: format, Reason: "missing Time Series (Daily)"}
	}

	var days map[string]map[string]string
	if err := json.Unmarshal(seriesRaw, &days); err != nil {
		return nil, &ParseError{Format: format, Reason: "decode time series: " + err.Error()}
	}

	bars := make([]model.PriceBar, 0, len(days))
	for day, fields := range days {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		bars = append(bars, model.PriceBar{
			Date:   date,
			Open:   parseNumber(fields["1. open"]),
			High:   parseNumber(fields["2. high"]),
			Low:    parseNumber(fields["3. low"]),
			Close:  parseNumber(fields["4. close"]),
			Volume: int64(math.Max(0, zeroIfNaN(parseNumber(fields["5. volume"])))),
		})
	}
	return Normalize(bars, minBars, format)
}

// ParseCSV reads delimited daily bars with a header row. Date and Close
// columns are required; the others are optional.
func ParseCSV(r io.Reader, minBars int) ([]model.PriceBar, error) {
	const format = "csv"

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &ParseError{Format: format, Reason: "read header: " + err.Error()}
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "close"} {
		if _, ok := cols[required]; !ok {
			return nil, &ParseError{Format: format, Reason: "missing column " + required}
		}
	}

	field := func(rec []string, name string) float64 {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return math.NaN()
		}
		return parseNumber(rec[i])
	}

	var bars []model.PriceBar
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: format, Reason: "read record: " + err.Error()}
		}
		if cols["date"] >= len(rec) {
			continue
		}
		date, ok := parseDate(rec[cols["date"]])
		if !ok {
			continue
		}
		bars = append(bars, model.PriceBar{
			Date:   date,
			Open:   field(rec, "open"),
			High:   field(rec, "high"),
			Low:    field(rec, "low"),
			Close:  field(rec, "close"),
			Volume: int64(math.Max(0, zeroIfNaN(field(rec, "volume")))),
		})
	}
	return Normalize(bars, minBars, format)
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006/01/02", "20060102", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}
