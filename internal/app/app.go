package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"NewsMonitor/internal/config"
	"NewsMonitor/internal/infrastructure/parser"
	"NewsMonitor/internal/infrastructure/scheduler"
	"NewsMonitor/internal/infrastructure/storage"
	"NewsMonitor/internal/infrastructure/telegram"
	"NewsMonitor/internal/logging"
	"NewsMonitor/internal/usecase"
)

const selfTestTimeout = 15 * time.Second

// Application wires configuration to the pipeline and its lifecycle.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	repository *storage.SQLiteRepository
	notifier   *telegram.Notifier
	scheduler  *scheduler.CronScheduler
	pipeline   *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := parser.DefaultRegistry(baseLogger)
	repository := storage.NewSQLiteRepository(cfg.Database.Path, baseLogger.With("component", "storage"))
	notifier := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Registry:    registry,
		Repository:  repository,
		Notifier:    notifier,
		Keywords:    cfg.Monitor.Keywords,
		MaxPerCycle: cfg.Monitor.MaxArticlesPerCycle,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		repository: repository,
		notifier:   notifier,
		scheduler:  scheduler.New(baseLogger.With("component", "scheduler")),
		pipeline:   pipeline,
	}
}

// Run starts the monitoring jobs and blocks until a termination signal
// arrives, then shuts down gracefully: no new fires, bounded wait for
// the in-flight cycle, store closed last.
func (a *Application) Run(ctx context.Context) error {
	if err := a.repository.Init(); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		if err := a.repository.Close(); err != nil {
			a.logger.Warn("closing store", "error", err)
		}
	}()

	if stats, err := a.repository.Stats(ctx); err == nil {
		a.logger.Info("dedup store opened", "articles", stats.Total, "sources", len(stats.BySource))
	}

	testCtx, cancel := context.WithTimeout(ctx, selfTestTimeout)
	err := a.notifier.SelfTest(testCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("notifier self-test: %w", err)
	}

	if err := usecase.RegisterJobs(a.scheduler, a.pipeline, a.cfg.Monitor); err != nil {
		return fmt.Errorf("register jobs: %w", err)
	}

	if next, ok := a.scheduler.NextRun(usecase.MonitorJob); ok {
		a.logger.Info("monitoring started",
			"keywords", len(a.cfg.Monitor.Keywords),
			"interval_minutes", a.cfg.Monitor.IntervalMinutes,
			"next_run", next.Format(time.RFC3339))
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-signalCtx.Done()

	a.logger.Info("shutting down")
	a.scheduler.StopAll()
	return nil
}
