package leads

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/events"
	apphttp "github.com/theplanbeta/plan-beta-dashboard-sub001/internal/http"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/scoring"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/httpkit"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestEngine(t *testing.T, roles []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.New("development")

	svc := scoring.New(nil, nil, log, scoring.Settings{})
	module, err := NewModule(svc, events.NewInMemoryBus(log), nil, validator.New(), log)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	engine := gin.New()
	protected := engine.Group("/api/v1", func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextRolesKey, roles)
		c.Next()
	})
	module.RegisterRoutes(&apphttp.RouterContext{
		Protected: protected,
		Log:       log,
	})
	return engine
}

func TestRescoreRequiresAdmin(t *testing.T) {
	engine := newTestEngine(t, []string{"staff"})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/leads/rescore", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestScoreRouteIsMounted(t *testing.T) {
	engine := newTestEngine(t, nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leads/bad-id/score", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestModuleName(t *testing.T) {
	m := &Module{}
	if m.Name() != "leads" {
		t.Fatalf("expected leads, got %s", m.Name())
	}
}
