package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"TickerDash/internal/model"
)

// DataSource retrieves a full daily price history from one origin.
type DataSource interface {
	FetchSeries(ctx context.Context) (*model.Series, error)
	Name() string
}

// SourceError reports a transport or HTTP failure. Status is 0 when no
// response was received.
type SourceError struct {
	Source string
	Status int
	Err    error
}

func (e *SourceError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Source, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Source, e.Status)
	default:
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
}

func (e *SourceError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// newHTTPClient builds a client with the shared timeout and optional proxy.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func newSeries(symbol, source string, bars []model.PriceBar) *model.Series {
	return &model.Series{
		Symbol:    symbol,
		Bars:      bars,
		Origin:    model.OriginLive,
		Source:    source,
		FetchedAt: time.Now(),
	}
}
