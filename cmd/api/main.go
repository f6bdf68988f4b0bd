package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/events"
	apphttp "github.com/theplanbeta/plan-beta-dashboard-sub001/internal/http"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/http/router"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/analyzer"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/repository"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/scoring"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/scheduler"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/db"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/validator"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if err := cfg.RequireJWT(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("starting api", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	rescoreQueue, closeQueue := openRescoreQueue(cfg, log)
	defer closeQueue()

	leadAnalyzer, err := analyzer.FromConfig(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("lead analyzer: %w", err)
	}
	scoringSvc := scoring.New(repository.New(pool), leadAnalyzer, log, scoring.SettingsFromConfig(cfg))

	leadsModule, err := leads.NewModule(scoringSvc, events.NewInMemoryBus(log), rescoreQueue, validator.New(), log)
	if err != nil {
		return fmt.Errorf("leads module: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.New(&apphttp.App{
			Config:  cfg,
			Logger:  log,
			Health:  db.NewPoolAdapter(pool),
			Modules: []apphttp.Module{leadsModule},
		}),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return serve(ctx, srv, log)
}

// serve blocks until ctx is cancelled or the listener fails, then drains
// in-flight requests.
func serve(ctx context.Context, srv *http.Server, log *logger.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		listenErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openRescoreQueue returns a nil enqueuer without Redis; batch rescores then run
// inside the API process.
func openRescoreQueue(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.RescoreEnqueuer, func()) {
	noop := func() {}
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; batch rescores run in-process")
		return nil, noop
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("rescore queue unavailable; batch rescores run in-process", "error", err)
		return nil, noop
	}
	return client, func() { _ = client.Close() }
}
