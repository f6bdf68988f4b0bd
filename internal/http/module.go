package http

import (
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/httpkit"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	// Name is used in startup logs.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module receives when mounting routes.
type RouterContext struct {
	// Protected is /api/v1 behind a valid access token.
	Protected        *gin.RouterGroup
	Log              *logger.Logger
	// BatchRateLimiter is shared by every route that starts a batch rescore,
	// so the per-IP budget holds across modules.
	BatchRateLimiter *httpkit.BatchRateLimiter
}
