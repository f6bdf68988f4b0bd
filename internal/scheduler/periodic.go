package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/hibiken/asynq"
)

// PeriodicConfig is what the periodic rescore needs from configuration.
type PeriodicConfig interface {
	config.SchedulerConfig
	GetRescoreCron() string
	GetRescoreStatuses() []string
}

// Periodic enqueues a batch rescore on a cron schedule.
type Periodic struct {
	scheduler *asynq.Scheduler
	cronspec  string
	entryID   string
	log       *logger.Logger
}

func NewPeriodic(cfg PeriodicConfig, log *logger.Logger) (*Periodic, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	cronspec := strings.TrimSpace(cfg.GetRescoreCron())
	if cronspec == "" {
		return nil, fmt.Errorf("rescore cron not configured")
	}

	statuses, err := domain.ParseLeadStatuses(strings.Join(cfg.GetRescoreStatuses(), ","))
	if err != nil {
		return nil, fmt.Errorf("RESCORE_STATUSES: %w", err)
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		EnqueueErrorHandler: func(task *asynq.Task, _ []asynq.Option, err error) {
			log.Warn("periodic task enqueue failed", "task", task.Type(), "error", err)
		},
	})

	task, err := NewLeadRescoreAllTask(LeadRescoreAllPayload{Statuses: statusStrings(statuses)})
	if err != nil {
		return nil, err
	}

	entryID, err := scheduler.Register(cronspec, task,
		asynq.Queue(queue),
		asynq.Unique(rescoreAllUniqueTTL),
		asynq.MaxRetry(0),
		asynq.Timeout(rescoreAllTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("register rescore cron %q: %w", cronspec, err)
	}

	return &Periodic{
		scheduler: scheduler,
		cronspec:  cronspec,
		entryID:   entryID,
		log:       log,
	}, nil
}

// Run blocks until ctx is done.
func (p *Periodic) Run(ctx context.Context) error {
	if p == nil || p.scheduler == nil {
		return nil
	}

	if err := p.scheduler.Start(); err != nil {
		return fmt.Errorf("start periodic scheduler: %w", err)
	}
	p.log.Info("periodic rescore registered", "cron", p.cronspec, "entryId", p.entryID)

	<-ctx.Done()
	p.scheduler.Shutdown()
	return nil
}
