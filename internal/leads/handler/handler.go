package handler

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/intent"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/scoring"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/transport"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/scheduler"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/apperr"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/httpkit"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/sanitize"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/validator"

	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Scorer is the scoring surface used by the handlers.
type Scorer interface {
	ScoreLead(ctx context.Context, leadID uuid.UUID) domain.Result
	Evaluate(ctx context.Context, leadID uuid.UUID) domain.Result
	RescoreAll(ctx context.Context, statuses []domain.LeadStatus) (scoring.RescoreSummary, error)
}

type Handler struct {
	svc       Scorer
	enqueuer  scheduler.RescoreEnqueuer
	val       *validator.Validator
	log       *logger.Logger
	rescoring atomic.Bool
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgRescoreRunning   = "a batch rescore is already running"
)

// New builds the handler. enqueuer may be nil, in which case batch rescoring
// runs in a background goroutine of this process.
func New(svc Scorer, enqueuer scheduler.RescoreEnqueuer, val *validator.Validator, log *logger.Logger) (*Handler, error) {
	if err := val.RegisterValidation("lead_status", validLeadStatus); err != nil {
		return nil, err
	}
	return &Handler{svc: svc, enqueuer: enqueuer, val: val, log: log}, nil
}

func validLeadStatus(fl playground.FieldLevel) bool {
	return domain.LeadStatus(fl.Field().String()).Valid()
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, batch ...gin.HandlerFunc) {
	rg.POST("/leads/rescore", append(batch, h.RescoreAll)...)
	rg.GET("/leads/:id/score", h.Preview)
	rg.POST("/leads/:id/score", h.Score)
	rg.POST("/messages/parse", h.ParseMessage)
}

// Preview computes a score without persisting it.
func (h *Handler) Preview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}

	result := h.svc.Evaluate(c.Request.Context(), id)
	httpkit.OK(c, result)
}

// Score computes and persists a lead score. With ?async=true and a queue
// configured, the work is handed to the worker instead.
func (h *Handler) Score(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}

	if c.Query("async") == "true" && h.enqueuer != nil {
		if err := h.enqueuer.EnqueueLeadRescore(c.Request.Context(), id); err != nil {
			httpkit.HandleError(c, apperr.Unavailable("could not queue rescore", err))
			return
		}
		httpkit.Accepted(c, transport.RescoreResponse{
			Status: transport.RescoreStatusAccepted,
			Mode:   transport.RescoreModeQueued,
		})
		return
	}

	result := h.svc.ScoreLead(c.Request.Context(), id)
	httpkit.OK(c, result)
}

func (h *Handler) RescoreAll(c *gin.Context) {
	var req transport.RescoreRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed, validator.FieldErrors(err)))
		return
	}

	statuses := req.LeadStatuses()
	if len(statuses) == 0 {
		statuses = domain.ActiveStatuses
	}
	h.log.WithContext(c.Request.Context()).Info("batch rescore requested", "requestedBy", httpkit.GetIdentity(c).UserID(), "statuses", statuses)

	if h.enqueuer != nil {
		err := h.enqueuer.EnqueueRescoreAll(c.Request.Context(), statuses)
		if errors.Is(err, scheduler.ErrRescoreAlreadyQueued) {
			httpkit.HandleError(c, apperr.Conflict(msgRescoreRunning))
			return
		}
		if err != nil {
			httpkit.HandleError(c, apperr.Unavailable("could not queue rescore", err))
			return
		}
		httpkit.Accepted(c, transport.RescoreResponse{
			Status:   transport.RescoreStatusAccepted,
			Mode:     transport.RescoreModeQueued,
			Statuses: statuses,
		})
		return
	}

	if !h.rescoring.CompareAndSwap(false, true) {
		httpkit.HandleError(c, apperr.Conflict(msgRescoreRunning))
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	go func() {
		defer h.rescoring.Store(false)
		if _, err := h.svc.RescoreAll(ctx, statuses); err != nil {
			h.log.Error("background rescore failed", "error", err)
		}
	}()

	httpkit.Accepted(c, transport.RescoreResponse{
		Status:   transport.RescoreStatusAccepted,
		Mode:     transport.RescoreModeInline,
		Statuses: statuses,
	})
}

func (h *Handler) ParseMessage(c *gin.Context) {
	var req transport.ParseMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed, validator.FieldErrors(err)))
		return
	}

	parsed := intent.Parse(sanitize.StripControl(req.Message))
	httpkit.OK(c, transport.ParseMessageResponse{
		ParsedMessage:    parsed,
		ShouldCreateLead: intent.ShouldCreateLead(parsed),
	})
}
