package cli

import (
	"github.com/rs/zerolog"

	"TickerDash/internal/collector"
	"TickerDash/internal/config"
	"TickerDash/internal/dashboard"
	"TickerDash/internal/recorder"
	"TickerDash/internal/telemetry"
)

// App wires the load pipeline shared by every command.
type App struct {
	Config    *config.Config
	Log       zerolog.Logger
	Loader    *dashboard.Loader
	Presenter *dashboard.Presenter
	Telemetry *telemetry.Recorder
	Recorder  recorder.Recorder
}

// NewApp builds the source chain, loader and presenter from cfg.
func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	sym := cfg.Ticker.Symbol
	minBars := cfg.Sources.MinBars

	yahoo := collector.NewYahooSource(cfg.Sources.YahooBaseURL, sym, cfg.Proxy, minBars)
	yahoo.Range = cfg.Sources.YahooRange
	sources := []collector.DataSource{yahoo}

	if cfg.Sources.AlphaVantageAPIKey != "" {
		sources = append(sources, collector.NewAlphaVantageSource(
			cfg.Sources.AlphaVantageBaseURL, cfg.Sources.AlphaVantageAPIKey, sym, cfg.Proxy, minBars))
	} else {
		log.Info().Msg("alphavantage api key not set, secondary source disabled")
	}
	if cfg.Sources.CSVPath != "" {
		sources = append(sources, collector.NewCSVFileSource(cfg.Sources.CSVPath, sym, minBars))
	}

	tel := telemetry.New()
	synthetic := collector.NewSyntheticGenerator(sym, cfg.Synthetic.Anchors, cfg.Synthetic.Seed)
	coord := collector.NewCoordinator(log, synthetic, minBars, sources...)
	coord.Observer = tel

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}

	loader := dashboard.NewLoader(dashboard.NewStore(), coord, cfg.Metrics, log)
	loader.SetRecorder(rec)
	loader.SetObserver(tel)

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	log.Info().Str("symbol", sym).Strs("sources", names).Msg("source chain configured")

	return &App{
		Config:    cfg,
		Log:       log,
		Loader:    loader,
		Presenter: dashboard.NewPresenter(cfg.Ticker.Name, cfg.Fundamentals),
		Telemetry: tel,
		Recorder:  rec,
	}
}

// Close releases the recorder.
func (a *App) Close() {
	if err := a.Recorder.Close(); err != nil {
		a.Log.Error().Err(err).Msg("close recorder")
	}
}
