// Package http holds the pieces the router needs from the composition root:
// the App container and the Module contract.
package http

import (
	"context"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"
)

// RouterConfig is the slice of configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs /api/ready.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is built by cmd/api and handed to router.New.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Modules []Module
}
