package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/events"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/analyzer"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/repository"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/scoring"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/scheduler"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/db"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if !cfg.IsSchedulerEnabled() {
		fmt.Fprintln(os.Stderr, "REDIS_URL is required for the scheduler")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Error("scheduler stopped", "error", err)
		os.Exit(1)
	}
}

// run serves rescore tasks and registers the periodic batch until a signal
// arrives. Migrations are left to the API.
func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName(), "cron", cfg.GetRescoreCron())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	leadAnalyzer, err := analyzer.FromConfig(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("lead analyzer: %w", err)
	}

	scoringSvc := scoring.New(repository.New(pool), leadAnalyzer, log, scoring.SettingsFromConfig(cfg))
	scoringSvc.SetEventBus(hotLeadBus(log))

	worker, err := scheduler.NewWorker(cfg, scoringSvc, log)
	if err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	periodic, err := scheduler.NewPeriodic(cfg, log)
	if err != nil {
		return fmt.Errorf("periodic rescore: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return periodic.Run(gctx) })
	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func hotLeadBus(log *logger.Logger) events.Bus {
	bus := events.NewInMemoryBus(log)
	bus.Subscribe(events.LeadScored{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		if e, ok := event.(events.LeadScored); ok && e.BecameHot() {
			log.WithContext(ctx).Info("lead became hot", "leadId", e.LeadID, "score", e.Score, "previousQuality", e.PreviousQuality)
		}
		return nil
	}))
	return bus
}
