package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"TickerDash/internal/model"
)

// DefaultYahooBaseURL is the public chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource fetches daily bars from the Yahoo Finance chart API.
type YahooSource struct {
	BaseURL   string
	Symbol    string
	Range     string
	MinBars   int
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooSource creates a Yahoo Finance source with optional proxy support.
func NewYahooSource(baseURL, symbol, proxyURL string, minBars int) *YahooSource {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooSource{
		BaseURL: baseURL,
		Symbol:  symbol,
		Range:   "2y",
		MinBars: minBars,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (s *YahooSource) Name() string { return "yahoo" }

func (s *YahooSource) yahooSymbol() string {
	if mapped, ok := s.SymbolMap[s.Symbol]; ok {
		return mapped
	}
	return s.Symbol
}

// FetchSeries downloads the configured range of daily bars.
func (s *YahooSource) FetchSeries(ctx context.Context) (*model.Series, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		s.BaseURL, url.PathEscape(s.yahooSymbol()), url.QueryEscape(s.Range))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SourceError{Source: s.Name(), Status: resp.StatusCode}
	}

	bars, err := ParseYahooChart(body, s.MinBars)
	if err != nil {
		return nil, err
	}
	return newSeries(s.Symbol, s.Name(), bars), nil
}
