// Package leads provides the lead scoring bounded context module.
// This file defines the module that encapsulates leads setup and route registration.
package leads

import (
	"context"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/events"
	apphttp "github.com/theplanbeta/plan-beta-dashboard-sub001/internal/http"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/handler"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/scoring"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/scheduler"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/httpkit"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/validator"

	"github.com/gin-gonic/gin"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	scoring *scoring.Service
}

// NewModule wires the scoring handlers. enqueuer may be nil when Redis is not configured.
func NewModule(svc *scoring.Service, eventBus events.Bus, enqueuer scheduler.RescoreEnqueuer, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if eventBus != nil {
		svc.SetEventBus(eventBus)
		eventBus.Subscribe(events.LeadScored{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
			e, ok := event.(events.LeadScored)
			if !ok || !e.BecameHot() {
				return nil
			}
			log.WithContext(ctx).Info("lead became hot", "leadId", e.LeadID, "score", e.Score, "previousQuality", e.PreviousQuality)
			return nil
		}))
	}

	h, err := handler.New(svc, enqueuer, val, log)
	if err != nil {
		return nil, err
	}

	return &Module{
		handler: h,
		scoring: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ScoringService returns the scoring service for external use.
func (m *Module) ScoringService() *scoring.Service {
	return m.scoring
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	batch := []gin.HandlerFunc{httpkit.RequireRole(httpkit.RoleAdmin)}
	if ctx.BatchRateLimiter != nil {
		batch = append(batch, ctx.BatchRateLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(ctx.Protected, batch...)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
