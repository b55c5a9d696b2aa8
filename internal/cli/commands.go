package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"TickerDash/internal/config"
	"TickerDash/internal/logger"
)

// Version is set at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd builds the tickerdash command tree. Running it without a
// subcommand starts the server.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tickerdash",
		Short: "Single-ticker stock dashboard",
		Long: `tickerdash loads one ticker's daily history from live sources, falling back
to a deterministic synthetic series when they fail, and serves a dashboard
with price, volume and fundamentals charts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return opts.load()
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level")

	serve := newServeCmd(opts)
	rootCmd.RunE = serve.RunE
	rootCmd.AddCommand(serve, newSnapshotCmd(opts), newVersionCmd())
	return rootCmd
}

func (o *rootOptions) load() error {
	cfg, err := config.Load(config.Path(o.configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	o.cfg, o.log = cfg, log
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tickerdash %s\n", Version)
		},
	}
}
