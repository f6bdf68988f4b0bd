package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/analyzer"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/repository"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/scoring"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/db"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"
)

func main() {
	os.Exit(run())
}

// run returns 1 when setup or the batch aborted and 2 when some leads failed.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		return 1
	}

	statusFlag := flag.String("statuses", strings.Join(cfg.GetRescoreStatuses(), ","), "comma separated lead statuses to rescore")
	flag.Parse()

	log := logger.New(cfg.Env)

	statuses, err := domain.ParseLeadStatuses(*statusFlag)
	if err != nil {
		log.Error("invalid -statuses flag", "error", err)
		return 1
	}
	log.Info("starting lead rescore", "statuses", statuses)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, nil, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return 1
	}
	defer pool.Close()

	leadAnalyzer, err := analyzer.FromConfig(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize lead analyzer", "error", err)
		return 1
	}

	svc := scoring.New(repository.New(pool), leadAnalyzer, log, scoring.SettingsFromConfig(cfg))

	summary, err := svc.RescoreAll(ctx, statuses)
	if err != nil {
		log.Error("lead rescore aborted", "error", err, "processed", summary.Processed, "failed", summary.Failed)
		return 1
	}
	if summary.Failed > 0 {
		return 2
	}
	return 0
}
