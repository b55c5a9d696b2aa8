package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"TickerDash/internal/calculator"
	"TickerDash/internal/collector"
	"TickerDash/internal/dashboard"
	"TickerDash/internal/model"
	"TickerDash/internal/telemetry"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*Server, *dashboard.Loader) {
	t.Helper()
	tel := telemetry.New()
	coord := collector.NewCoordinator(zerolog.Nop(), collector.NewSyntheticGenerator("ACME", nil, 42), 150)
	coord.Observer = tel

	loader := dashboard.NewLoader(dashboard.NewStore(), coord, calculator.DefaultParams(), zerolog.Nop())
	loader.SetObserver(tel)
	presenter := dashboard.NewPresenter("Acme Corp", model.Fundamentals{})
	return New(Config{}, NewHandler(loader, presenter, nil), tel.Registry(), zerolog.Nop()), loader
}

func do(t *testing.T, s *Server, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode: %v", method, target, err)
		}
	}
	return rec, env
}

func TestHandlers_BeforeFirstLoad(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/", "/api/series", "/api/metrics", "/api/charts"} {
		rec, _ := do(t, s, http.MethodGet, path)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status %d, want 503", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "data still loading") {
			t.Errorf("%s: body %q", path, rec.Body.String())
		}
	}

	rec, _ := do(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"loaded":false`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHandlers_AfterLoad(t *testing.T) {
	s, loader := newTestServer(t)
	snap := loader.Reload(context.Background())

	rec, env := do(t, s, http.MethodGet, "/api/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status %d", rec.Code)
	}
	var m metricsResponse
	if err := json.Unmarshal(env.Data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Origin != model.OriginSynthetic || m.Live || m.CycleID != snap.CycleID {
		t.Errorf("unexpected metrics response: %+v", m)
	}

	_, env = do(t, s, http.MethodGet, "/api/series?window=1m")
	var sr seriesResponse
	if err := json.Unmarshal(env.Data, &sr); err != nil {
		t.Fatal(err)
	}
	if sr.Window != dashboard.Window1M || len(sr.Bars) == 0 || len(sr.Bars) >= snap.Series.Len() {
		t.Errorf("1M window returned %d of %d bars", len(sr.Bars), snap.Series.Len())
	}

	_, env = do(t, s, http.MethodGet, "/api/series")
	if err := json.Unmarshal(env.Data, &sr); err != nil {
		t.Fatal(err)
	}
	if sr.Window != dashboard.Window1Y {
		t.Errorf("default window = %s, want 1Y", sr.Window)
	}

	_, env = do(t, s, http.MethodGet, "/api/charts?window=ALL")
	var cr chartsResponse
	if err := json.Unmarshal(env.Data, &cr); err != nil {
		t.Fatal(err)
	}
	if len(cr.Charts) != 2 || len(cr.Charts[0].Labels) != snap.Series.Len() {
		t.Errorf("unexpected charts response: %d charts", len(cr.Charts))
	}
	if cr.CycleID != snap.CycleID || cr.Slots["origin"] == "" {
		t.Errorf("charts response missing cycle or slots: %+v", cr.Slots)
	}

	_, env = do(t, s, http.MethodGet, "/api/charts?window=1M")
	var next chartsResponse
	if err := json.Unmarshal(env.Data, &next); err != nil {
		t.Fatal(err)
	}
	if len(next.Charts) == 0 || next.Charts[0].Revision <= cr.Charts[0].Revision {
		t.Errorf("window change should bump the revision of the price chart")
	}
	if len(next.Charts[0].Labels) >= len(cr.Charts[0].Labels) {
		t.Errorf("1M labels = %d, want fewer than ALL", len(next.Charts[0].Labels))
	}

	rec, _ = do(t, s, http.MethodGet, "/?window=6M")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Synthetic data") {
		t.Errorf("page = %d, origin notice missing", rec.Code)
	}
}

func TestHandlers_RejectsUnknownWindow(t *testing.T) {
	s, loader := newTestServer(t)
	loader.Reload(context.Background())

	rec, env := do(t, s, http.MethodGet, "/api/series?window=5Y")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	var errs []ValidationError
	if err := json.Unmarshal(env.Data, &errs); err != nil {
		t.Fatal(err)
	}
	if len(errs) != 1 || errs[0].Code != "ERR_ONEOF" || errs[0].Field != "window" {
		t.Errorf("unexpected validation errors: %+v", errs)
	}
}

func TestHandlers_ReloadAndHistory(t *testing.T) {
	s, loader := newTestServer(t)
	first := loader.Reload(context.Background())

	rec, env := do(t, s, http.MethodPost, "/api/reload")
	if rec.Code != http.StatusOK {
		t.Fatalf("reload status %d", rec.Code)
	}
	var m metricsResponse
	if err := json.Unmarshal(env.Data, &m); err != nil {
		t.Fatal(err)
	}
	if m.CycleID == first.CycleID || loader.Store().Current().CycleID != m.CycleID {
		t.Error("reload did not publish a new snapshot")
	}

	rec, env = do(t, s, http.MethodGet, "/api/history?limit=5")
	if rec.Code != http.StatusOK || string(env.Data) != "[]" {
		t.Errorf("history = %d %s", rec.Code, env.Data)
	}
	if rec, _ = do(t, s, http.MethodGet, "/api/history"); rec.Code != http.StatusOK {
		t.Errorf("history without limit status %d, want default limit", rec.Code)
	}
	if rec, _ = do(t, s, http.MethodGet, "/api/history?limit=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("history limit=0 status %d, want 400", rec.Code)
	}
	if rec, _ = do(t, s, http.MethodGet, "/api/history?limit=9999"); rec.Code != http.StatusBadRequest {
		t.Errorf("history limit=9999 status %d, want 400", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, loader := newTestServer(t)
	loader.Reload(context.Background())

	rec, _ := do(t, s, http.MethodGet, "/metrics")
	body := rec.Body.String()
	for _, want := range []string{"tickerdash_synthetic_fallbacks_total 1", "tickerdash_series_bars", `tickerdash_source_attempts_total{outcome="ok",source="synthetic"} 1`} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}
