package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	leadRescoreDedupWindow = time.Minute
	rescoreAllUniqueTTL    = 30 * time.Minute
	rescoreAllTimeout      = 2 * time.Hour
)

// ErrRescoreAlreadyQueued is returned when a batch rescore is already pending.
var ErrRescoreAlreadyQueued = errors.New("lead rescore already queued")

type Client struct {
	client *asynq.Client
	queue  string
}

// RescoreEnqueuer hands rescore work to the background worker.
type RescoreEnqueuer interface {
	EnqueueLeadRescore(ctx context.Context, leadID uuid.UUID) error
	EnqueueRescoreAll(ctx context.Context, statuses []domain.LeadStatus) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueLeadRescore queues a single lead for rescoring. Duplicate requests
// for the same lead within the dedup window are collapsed.
func (c *Client) EnqueueLeadRescore(ctx context.Context, leadID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewLeadRescoreTask(LeadRescorePayload{LeadID: leadID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.TaskID(TaskLeadRescore+":"+leadID.String()),
		asynq.Retention(leadRescoreDedupWindow),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// EnqueueRescoreAll queues a batch rescore. Only one batch may be pending at a time.
func (c *Client) EnqueueRescoreAll(ctx context.Context, statuses []domain.LeadStatus) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewLeadRescoreAllTask(LeadRescoreAllPayload{Statuses: statusStrings(statuses)})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.Unique(rescoreAllUniqueTTL),
		asynq.MaxRetry(0),
		asynq.Timeout(rescoreAllTimeout),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return ErrRescoreAlreadyQueued
	}
	return err
}

func statusStrings(statuses []domain.LeadStatus) []string {
	if len(statuses) == 0 {
		return nil
	}
	out := make([]string, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, status.String())
	}
	return out
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
