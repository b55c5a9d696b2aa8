package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"TickerDash/internal/dashboard"
	"TickerDash/internal/model"
	"TickerDash/internal/recorder"
)

// Handler serves the dashboard page and its JSON API.
type Handler struct {
	loader    *dashboard.Loader
	presenter *dashboard.Presenter
	history   recorder.Recorder
}

func NewHandler(loader *dashboard.Loader, presenter *dashboard.Presenter, history recorder.Recorder) *Handler {
	if history == nil {
		history = recorder.NewNoopRecorder()
	}
	return &Handler{loader: loader, presenter: presenter, history: history}
}

// RegisterRoutes mounts every route on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.page)
	e.GET("/healthz", h.health)

	api := e.Group("/api")
	api.GET("/series", h.series)
	api.GET("/metrics", h.metrics)
	api.GET("/charts", h.charts)
	api.GET("/history", h.loadHistory)
	api.POST("/reload", h.reload)
}

type seriesResponse struct {
	Symbol   string           `json:"symbol"`
	Origin   model.Origin     `json:"origin"`
	Source   string           `json:"source"`
	Window   dashboard.Window `json:"window"`
	Bars     []model.PriceBar `json:"bars"`
	Attempts []model.Attempt  `json:"attempts"`
}

type metricsResponse struct {
	CycleID string        `json:"cycle_id"`
	Symbol  string        `json:"symbol"`
	Origin  model.Origin  `json:"origin"`
	Live    bool          `json:"live"`
	Metrics model.Metrics `json:"metrics"`
}

type chartsResponse struct {
	CycleID string            `json:"cycle_id"`
	Window  dashboard.Window  `json:"window"`
	Origin  model.Origin      `json:"origin"`
	Slots   map[string]string `json:"slots"`
	Charts  []dashboard.Chart `json:"charts"`
}

func (h *Handler) window(c echo.Context) (dashboard.Window, []ValidationError) {
	req := &WindowRequest{}
	if errs := readAndValidateRequest(c, req); errs != nil {
		return "", errs
	}
	return dashboard.Window(req.Window), nil
}

func (h *Handler) page(c echo.Context) error {
	snap := h.loader.Store().Current()
	if snap == nil {
		return c.String(http.StatusServiceUnavailable, "data still loading")
	}
	w, errs := h.window(c)
	if errs != nil {
		return badRequestResponse(c, errs)
	}
	page, err := h.presenter.HTML(h.presenter.Render(snap, w))
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (h *Handler) series(c echo.Context) error {
	snap := h.loader.Store().Current()
	if snap == nil {
		return loadingResponse(c)
	}
	w, errs := h.window(c)
	if errs != nil {
		return badRequestResponse(c, errs)
	}
	s := snap.Series
	return successResponse(c, seriesResponse{
		Symbol:   s.Symbol,
		Origin:   s.Origin,
		Source:   s.Source,
		Window:   w,
		Bars:     dashboard.FilterWindow(s.Bars, w, snap.Metrics.AsOf),
		Attempts: s.Attempts,
	})
}

func (h *Handler) metrics(c echo.Context) error {
	snap := h.loader.Store().Current()
	if snap == nil {
		return loadingResponse(c)
	}
	return successResponse(c, metricsResponse{
		CycleID: snap.CycleID,
		Symbol:  snap.Series.Symbol,
		Origin:  snap.Series.Origin,
		Live:    snap.Series.Live(),
		Metrics: snap.Metrics,
	})
}

func (h *Handler) charts(c echo.Context) error {
	snap := h.loader.Store().Current()
	if snap == nil {
		return loadingResponse(c)
	}
	w, errs := h.window(c)
	if errs != nil {
		return badRequestResponse(c, errs)
	}
	view := h.presenter.Render(snap, w)
	return successResponse(c, chartsResponse{
		CycleID: view.CycleID,
		Window:  w,
		Origin:  view.Origin,
		Slots:   view.Slots,
		Charts:  view.Charts,
	})
}

func (h *Handler) loadHistory(c echo.Context) error {
	req := &HistoryRequest{}
	if errs := readAndValidateRequest(c, req); errs != nil {
		return badRequestResponse(c, errs)
	}
	rows, err := h.history.RecentLoads(req.Limit)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []recorder.LoadSummary{}
	}
	return successResponse(c, rows)
}

func (h *Handler) reload(c echo.Context) error {
	// a disconnecting client must not cut the cycle short
	snap := h.loader.Reload(context.WithoutCancel(c.Request().Context()))
	return successResponse(c, metricsResponse{
		CycleID: snap.CycleID,
		Symbol:  snap.Series.Symbol,
		Origin:  snap.Series.Origin,
		Live:    snap.Series.Live(),
		Metrics: snap.Metrics,
	})
}

func (h *Handler) health(c echo.Context) error {
	snap := h.loader.Store().Current()
	body := map[string]interface{}{"status": "ok", "loaded": snap != nil}
	if snap != nil {
		body["origin"] = snap.Series.Origin
		body["loaded_at"] = snap.LoadedAt
	}
	return c.JSON(http.StatusOK, body)
}
