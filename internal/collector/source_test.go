package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestYahooSource_FetchSeries(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/ACME") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("interval") != "1d" || r.URL.Query().Get("range") != "2y" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		w.Write(yahooPayload(180, start))
	}))
	defer srv.Close()

	src := NewYahooSource(srv.URL, "ACME", "", 150)
	s, err := src.FetchSeries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 180 || s.Source != "yahoo" || !s.Live() {
		t.Errorf("unexpected series: bars=%d source=%s origin=%s", s.Len(), s.Source, s.Origin)
	}
}

func TestYahooSource_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewYahooSource(srv.URL, "ACME", "", 150).FetchSeries(context.Background())
	if StatusOf(err) != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %v", err)
	}
}

func TestYahooSource_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewYahooSource(url, "ACME", "", 150).FetchSeries(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if IsParseError(err) || StatusOf(err) != 0 {
		t.Errorf("expected transport SourceError with status 0, got %v", err)
	}
}

func TestAlphaVantageSource_FetchSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/query" || q.Get("function") != "TIME_SERIES_DAILY" || q.Get("apikey") != "demo" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(alphaVantagePayload(200, start))
	}))
	defer srv.Close()

	s, err := NewAlphaVantageSource(srv.URL, "demo", "ACME", "", 150).FetchSeries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 200 || s.Source != "alphavantage" {
		t.Errorf("unexpected series: bars=%d source=%s", s.Len(), s.Source)
	}
}

func TestAlphaVantageSource_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewAlphaVantageSource(srv.URL, "demo", "ACME", "", 150).FetchSeries(context.Background())
	if StatusOf(err) != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %v", err)
	}

	_, err = NewAlphaVantageSource(srv.URL, "", "ACME", "", 150).FetchSeries(context.Background())
	if err == nil || !strings.Contains(err.Error(), "api key") {
		t.Errorf("expected missing key error, got %v", err)
	}
}

func TestCSVFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acme.csv")
	var b strings.Builder
	b.WriteString("date,close,volume\n")
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		b.WriteString(day.AddDate(0, 0, i).Format("2006-01-02") + ",10.5,100\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewCSVFileSource(path, "ACME", 5).FetchSeries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 5 || s.Source != "csv" {
		t.Errorf("unexpected series: bars=%d source=%s", s.Len(), s.Source)
	}

	if _, err := NewCSVFileSource(filepath.Join(dir, "missing.csv"), "ACME", 5).FetchSeries(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}
