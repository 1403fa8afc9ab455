package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Armin-kho/satta-result-bot/internal/config"
	"github.com/Armin-kho/satta-result-bot/internal/notify"
	"github.com/Armin-kho/satta-result-bot/internal/scheduler"
	"github.com/Armin-kho/satta-result-bot/internal/sources"
	"github.com/Armin-kho/satta-result-bot/internal/store"
	"github.com/Armin-kho/satta-result-bot/internal/utils"
)

// App wires config, source, store and notifier into a runner.
type App struct {
	cfg config.Config
	log logrus.FieldLogger
	loc *time.Location

	store   store.Store
	sources *sources.Manager
	notify  notify.Notifier
	runner  *scheduler.Runner
	sched   *scheduler.Scheduler
}

// New builds the app. A missing bot token or chat id gives a dry-run
// notifier that only logs.
func New(cfg config.Config, log logrus.FieldLogger) (*App, error) {
	loc, err := utils.LoadZone(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	cutoff, ok := utils.ParseHHMM(cfg.SummaryCutoff)
	if !ok {
		return nil, fmt.Errorf("invalid summary cutoff %q", cfg.SummaryCutoff)
	}

	st, err := store.Open(cfg.StateBackend, cfg.StateFile, log)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}

	var n notify.Notifier
	if cfg.DryRun() {
		log.Warn("bot token or chat id missing, running in dry-run mode")
		n = notify.NewDryRun(log)
	} else {
		tg, err := notify.NewTelegram(cfg.BotToken, cfg.ChatID, cfg.Debug, log)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		n = tg
	}

	src := sources.NewManager(sources.Options{
		URL:      cfg.ResultURL,
		Timeout:  time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		Retries:  cfg.HTTPRetries,
		CacheTTL: 20 * time.Second,
		Aliases:  cfg.Aliases(),
	}, log)

	runner := scheduler.NewRunner(src, st, n, scheduler.Options{
		Location:    loc,
		Cutoff:      cutoff,
		SendSummary: cfg.SendSummary,
		SlotGating:  cfg.SlotGating,
		HistoryDays: cfg.HistoryDays,
	}, log)

	return &App{
		cfg:     cfg,
		log:     log,
		loc:     loc,
		store:   st,
		sources: src,
		notify:  n,
		runner:  runner,
		sched:   scheduler.New(runner, loc, log),
	}, nil
}

func (a *App) Close() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("close state")
	}
}

// RunOnce runs a single cycle, for cron-style schedulers.
func (a *App) RunOnce(ctx context.Context) (scheduler.Outcome, error) {
	return a.runner.RunOnce(ctx, time.Now())
}

// Run runs a cycle every minute until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.log.WithFields(logrus.Fields{
		"url":     a.cfg.ResultURL,
		"backend": a.cfg.StateBackend,
		"zone":    a.loc.String(),
	}).Info("scheduler started")
	a.sched.Start()
	<-ctx.Done()
	a.log.Info("shutting down")
	a.sched.Stop()
	return nil
}

func (a *App) Store() store.Store { return a.store }
