package scheduler

import (
	"context"
	"fmt"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/scoring"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Rescorer is the scoring surface the worker drives.
type Rescorer interface {
	ScoreLead(ctx context.Context, leadID uuid.UUID) domain.Result
	RescoreAll(ctx context.Context, statuses []domain.LeadStatus) (scoring.RescoreSummary, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	rescorer Rescorer
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, rescorer Rescorer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	w := &Worker{
		server:   server,
		rescorer: rescorer,
		log:      log,
	}
	w.mux = w.newMux()

	return w, nil
}

func (w *Worker) newMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskLeadRescore, w.handleLeadRescore)
	mux.HandleFunc(TaskLeadRescoreAll, w.handleLeadRescoreAll)
	return mux
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadRescore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRescorePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("%w: invalid lead id %q", asynq.SkipRetry, payload.LeadID)
	}

	result := w.rescorer.ScoreLead(ctx, leadID)
	w.log.Debug("lead rescored from queue", "leadId", leadID, "score", result.TotalScore, "quality", result.Quality)
	return nil
}

func (w *Worker) handleLeadRescoreAll(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRescoreAllPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	statuses := make([]domain.LeadStatus, 0, len(payload.Statuses))
	for _, raw := range payload.Statuses {
		status := domain.LeadStatus(raw)
		if !status.Valid() {
			return fmt.Errorf("%w: unknown lead status %q", asynq.SkipRetry, raw)
		}
		statuses = append(statuses, status)
	}

	summary, err := w.rescorer.RescoreAll(ctx, statuses)
	if err != nil {
		return fmt.Errorf("rescore all: %w", err)
	}

	w.log.Info("batch rescore task finished", "processed", summary.Processed, "succeeded", summary.Succeeded, "failed", summary.Failed)
	return nil
}
