package db

import (
	"context"
	"fmt"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

// Retry calls fn up to attempts times, sleeping attempt²·baseDelay between
// tries. Postgres often starts after the service in local compose setups.
func Retry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts %d", name, attempts)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(time.Duration(attempt*attempt) * baseDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}

// Connect runs migrations (skipped when migrations is nil) and opens the
// pool, retrying both.
func Connect(ctx context.Context, cfg config.DatabaseConfig, migrations config.MigrationConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	if migrations != nil {
		if err := Retry(ctx, log, "database migrations", connectAttempts, connectDelay, func() error {
			return RunMigrations(ctx, migrations)
		}); err != nil {
			return nil, err
		}
		log.Info("database migrations complete")
	}

	var pool *pgxpool.Pool
	err := Retry(ctx, log, "database connection", connectAttempts, connectDelay, func() error {
		p, err := NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("database connection established")
	return pool, nil
}
