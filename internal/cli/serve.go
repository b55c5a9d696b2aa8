package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"TickerDash/internal/notifier"
	"TickerDash/internal/scheduler"
	"TickerDash/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server with scheduled refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *rootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, log := opts.cfg, opts.log
	log.Info().Str("version", Version).Msg("tickerdash starting")

	app := NewApp(cfg, log)
	defer app.Close()

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sender = tn
	} else {
		log.Info().Msg("telegram not configured, notifications disabled")
	}

	sched := scheduler.NewScheduler(ctx, app.Loader, sender, app.Recorder, log)
	app.Loader.OnSnapshot(sched.NotifyOriginChange)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.SummaryCron); err != nil {
		return err
	}

	srv := server.New(server.Config{Host: cfg.Server.Host, Port: cfg.Server.Port},
		server.NewHandler(app.Loader, app.Presenter, app.Recorder), app.Telemetry.Registry(), log)
	srv.Start()

	// the server answers "data still loading" until this first cycle publishes
	go sched.RunRefreshNow()
	sched.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")

	sched.Stop()
	if err := srv.Stop(context.Background()); err != nil {
		log.Error().Err(err).Msg("stop http server")
	}
	log.Info().Msg("tickerdash stopped")
	return nil
}
