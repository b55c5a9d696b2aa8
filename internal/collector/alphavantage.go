package collector

import (
	"context"
	"errors"
	"time"

	"TickerDash/internal/model"

	"github.com/go-resty/resty/v2"
)

// DefaultAlphaVantageBaseURL is the public Alpha Vantage host.
const DefaultAlphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageSource fetches daily bars from the Alpha Vantage REST API.
type AlphaVantageSource struct {
	Symbol  string
	APIKey  string
	MinBars int
	client  *resty.Client
}

// NewAlphaVantageSource creates a source with optional proxy support.
func NewAlphaVantageSource(baseURL, apiKey, symbol, proxyURL string, minBars int) *AlphaVantageSource {
	if baseURL == "" {
		baseURL = DefaultAlphaVantageBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &AlphaVantageSource{
		Symbol:  symbol,
		APIKey:  apiKey,
		MinBars: minBars,
		client:  client,
	}
}

func (s *AlphaVantageSource) Name() string { return "alphavantage" }

// FetchSeries downloads the full daily history.
func (s *AlphaVantageSource) FetchSeries(ctx context.Context) (*model.Series, error) {
	if s.APIKey == "" {
		return nil, &SourceError{Source: s.Name(), Err: errors.New("api key not configured")}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   "TIME_SERIES_DAILY",
			"outputsize": "full",
			"symbol":     s.Symbol,
			"apikey":     s.APIKey,
		}).
		Get("/query")
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Err: err}
	}
	if resp.IsError() {
		return nil, &SourceError{Source: s.Name(), Status: resp.StatusCode()}
	}

	bars, err := ParseAlphaVantage(resp.Body(), s.MinBars)
	if err != nil {
		return nil, err
	}
	return newSeries(s.Symbol, s.Name(), bars), nil
}
