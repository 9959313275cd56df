package main

import (
	"context"
	"io"
	"os"
	"time"

	"subtracker/internal/cache"
	"subtracker/internal/cli"
	"subtracker/internal/config"
	"subtracker/internal/ingest"
	"subtracker/internal/log"
	"subtracker/internal/report"
)

func main() {
	// Load .env file for local development (ignore errors when absent)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	logger.Info("Starting budget-report",
		log.FieldOperation, log.OpStartup,
		"data_dir", cfg.DataDir,
		log.FieldCurrency, cfg.Currency,
		log.FieldInterval, cfg.WatchInterval)

	app := newApp(cfg, logger, os.Stdout)

	if cfg.WatchInterval == 0 {
		if err := app.refresh(log.WithContext(context.Background(), logger)); err != nil {
			logger.Error("Report failed", log.FieldError, err)
			os.Exit(1)
		}
		return
	}

	manager := cache.NewManager(logger)
	manager.Register(app.cache)
	manager.StartCleanup(cfg.ReportCacheTTL + time.Minute)

	ctx, done := cli.GracefulShutdown(logger, 5*time.Second, manager.Stop)
	app.watch(log.WithContext(ctx, logger), cfg.WatchInterval)
	cli.WaitForShutdown(ctx, done)
}

// app wires the loader, the report builder and the output together.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	loader  *ingest.Loader
	builder *report.Builder
	cache   *cache.LRUCache[*report.Dashboard]
	out     io.Writer
}

func newApp(cfg *config.Config, logger *log.Logger, out io.Writer) *app {
	files := ingest.Files{
		Subscriptions: cfg.SubscriptionsFile,
		Bills:         cfg.BillsFile,
		Incomes:       cfg.IncomeFile,
		Categories:    cfg.CategoriesFile,
	}
	c := cache.NewLRUCache[*report.Dashboard](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	return &app{
		cfg:     cfg,
		logger:  logger,
		loader:  ingest.NewLoader(cfg.DataDir, files, logger),
		builder: report.NewBuilder(cfg.Currency, c, logger),
		cache:   c,
		out:     out,
	}
}

// refresh loads the data directory, builds the dashboard and prints it.
func (a *app) refresh(ctx context.Context) error {
	now, err := a.cfg.Now()
	if err != nil {
		return err
	}
	snap, err := a.loader.Load(ctx)
	if err != nil {
		return err
	}
	dashboard, _ := a.builder.Build(snap, now)
	return report.Render(a.out, dashboard)
}

// watch refreshes on every tick until ctx is cancelled. A failed refresh is
// logged and retried on the next tick.
func (a *app) watch(ctx context.Context, interval time.Duration) {
	watchLogger := a.logger.WithComponent(log.ComponentWatch)

	if err := a.refresh(ctx); err != nil {
		watchLogger.Error("Initial report failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			watchLogger.Info("Watch stopped")
			return
		case <-ticker.C:
			if err := a.refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				watchLogger.Error("Report refresh failed", log.FieldError, err)
				continue
			}
			watchLogger.Debug("Report refreshed", "cache", a.cache.Stats())
		}
	}
}
