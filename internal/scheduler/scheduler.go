package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"TickerDash/internal/dashboard"
	"TickerDash/internal/notifier"
	"TickerDash/internal/recorder"
)

// Sender delivers chat messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and the bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Loader   *dashboard.Loader
	Notifier Sender // nil disables messages
	History  recorder.Recorder
	Ctx      context.Context
	log      zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, loader *dashboard.Loader, sender Sender, history recorder.Recorder, log zerolog.Logger) *Scheduler {
	if history == nil {
		history = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Loader:   loader,
		Notifier: sender,
		History:  history,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the refresh and daily summary tasks.
func (s *Scheduler) RegisterAll(refreshCron, summaryCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if summaryCron != "" {
		if _, err := s.Cron.AddFunc(summaryCron, s.summaryTask); err != nil {
			return fmt.Errorf("register summary task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately.
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	s.log.Info().Msg("running refresh task")
	s.Loader.Reload(s.Ctx)
}

func (s *Scheduler) summaryTask() {
	snap := s.Loader.Store().Current()
	if snap == nil {
		s.log.Warn().Msg("summary skipped, no data loaded yet")
		return
	}
	s.trySend(notifier.FormatDailySummary(snap.Series, snap.Metrics, snap.LoadedAt))
}

// NotifyOriginChange is a snapshot hook that messages the chat when the
// dashboard switches between live and synthetic data.
func (s *Scheduler) NotifyOriginChange(ctx context.Context, prev, next *dashboard.Snapshot) {
	wasLive := prev == nil || prev.Series.Live()
	switch {
	case wasLive && !next.Series.Live():
		s.send(ctx, notifier.FormatFallbackNotice(next.Series))
	case prev != nil && !wasLive && next.Series.Live():
		s.send(ctx, notifier.FormatRecoveryNotice(next.Series))
	}
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	// strip "@botname" suffixes used in group chats
	if i := strings.IndexByte(command, '@'); i > 0 {
		command = command[:i]
	}
	switch strings.ToLower(command) {
	case "/status":
		snap := s.Loader.Store().Current()
		if snap == nil {
			return "Data still loading."
		}
		return notifier.FormatStatus(snap.Series, snap.Metrics, snap.LoadedAt)
	case "/reload":
		snap := s.Loader.Reload(ctx)
		return notifier.FormatStatus(snap.Series, snap.Metrics, snap.LoadedAt)
	case "/history":
		rows, err := s.History.RecentLoads(10)
		if err != nil {
			s.log.Error().Err(err).Msg("load history")
			return "History unavailable."
		}
		return notifier.FormatHistory(rows)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	s.send(s.Ctx, text)
}

func (s *Scheduler) send(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
