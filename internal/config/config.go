package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TickerDash/internal/calculator"
	"TickerDash/internal/logger"
	"TickerDash/internal/model"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Ticker struct {
		Symbol string `yaml:"symbol" default:"ACME"`
		Name   string `yaml:"name"`
	} `yaml:"ticker"`
	Sources struct {
		YahooBaseURL        string `yaml:"yahoo_base_url"`
		YahooRange          string `yaml:"yahoo_range" default:"2y"`
		AlphaVantageBaseURL string `yaml:"alphavantage_base_url"`
		AlphaVantageAPIKey  string `yaml:"alphavantage_api_key"`
		CSVPath             string `yaml:"csv_path"`
		MinBars             int    `yaml:"min_bars" default:"150"`
	} `yaml:"sources"`
	Synthetic struct {
		Seed    uint32         `yaml:"seed" default:"42"`
		Anchors []model.Anchor `yaml:"anchors"`
	} `yaml:"synthetic"`
	Metrics      calculator.Params  `yaml:"metrics"`
	Fundamentals model.Fundamentals `yaml:"fundamentals"`
	Schedule     struct {
		RefreshCron string `yaml:"refresh_cron" default:"0 */30 * * * 1-5"`
		SummaryCron string `yaml:"summary_cron" default:"0 0 22 * * 1-5"`
	} `yaml:"schedule"`
	Server struct {
		Host string `yaml:"host" default:"0.0.0.0"`
		Port int    `yaml:"port" default:"8080"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/tickerdash.db"`
	} `yaml:"database"`
	Log   logger.Config `yaml:"log"`
	Proxy string        `yaml:"proxy"`
}

// Path resolves the config file location from the flag value and CONFIG_PATH.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load fills defaults, overlays the YAML file, then applies .env and
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// defaults first so explicit zero values in the file survive
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TICKER_SYMBOL"); v != "" {
		cfg.Ticker.Symbol = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Sources.AlphaVantageAPIKey = v
	}
	if v := os.Getenv("CSV_PATH"); v != "" {
		cfg.Sources.CSVPath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.Metrics.SharesOutstanding = cfg.Fundamentals.SharesOutstanding

	return cfg, nil
}

// TelegramEnabled reports whether both bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if c.Ticker.Symbol == "" {
		return errors.New("ticker.symbol is required")
	}
	if c.Sources.MinBars <= 0 {
		return errors.New("sources.min_bars must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Fundamentals.SharesOutstanding < 0 {
		return errors.New("fundamentals.shares_outstanding must not be negative")
	}
	for i := 1; i < len(c.Synthetic.Anchors); i++ {
		if !c.Synthetic.Anchors[i].Date.After(c.Synthetic.Anchors[i-1].Date) {
			return fmt.Errorf("synthetic.anchors[%d] is not after the previous anchor", i)
		}
	}
	p := c.Metrics
	if p.ReturnLookback <= 0 || p.VolatilityWindow <= 1 || p.VolumeWindow <= 0 || p.RangeDays <= 0 || p.RSIPeriod <= 0 || p.ShortMA <= 0 || p.LongMA <= 0 {
		return errors.New("metrics windows must be positive")
	}
	return nil
}
