package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/scoring"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

type fakeRescorer struct {
	mu       sync.Mutex
	scored   []uuid.UUID
	statuses []domain.LeadStatus
	err      error
}

func (f *fakeRescorer) ScoreLead(_ context.Context, leadID uuid.UUID) domain.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scored = append(f.scored, leadID)
	return domain.Result{LeadID: leadID, TotalScore: 42, Quality: domain.QualityWarm}
}

func (f *fakeRescorer) RescoreAll(_ context.Context, statuses []domain.LeadStatus) (scoring.RescoreSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = statuses
	if f.err != nil {
		return scoring.RescoreSummary{}, f.err
	}
	return scoring.RescoreSummary{Processed: 3, Succeeded: 3}, nil
}

func newTestClient(t *testing.T) (*Client, *asynq.Inspector) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := testSchedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "leads"}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("expected client, got %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = inspector.Close() })
	return client, inspector
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestEnqueueLeadRescore(t *testing.T) {
	client, inspector := newTestClient(t)
	leadID := uuid.New()

	if err := client.EnqueueLeadRescore(context.Background(), leadID); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if err := client.EnqueueLeadRescore(context.Background(), leadID); err != nil {
		t.Fatalf("expected duplicate enqueue to be collapsed, got %v", err)
	}

	tasks, err := inspector.ListPendingTasks("leads")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskLeadRescore {
		t.Fatalf("expected %s, got %s", TaskLeadRescore, tasks[0].Type)
	}

	payload, err := ParseLeadRescorePayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.LeadID != leadID.String() {
		t.Fatalf("expected lead %s, got %s", leadID, payload.LeadID)
	}
}

func TestEnqueueRescoreAllIsUnique(t *testing.T) {
	client, inspector := newTestClient(t)
	statuses := []domain.LeadStatus{domain.LeadStatusNew, domain.LeadStatusInterested}

	if err := client.EnqueueRescoreAll(context.Background(), statuses); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	err := client.EnqueueRescoreAll(context.Background(), statuses)
	if !errors.Is(err, ErrRescoreAlreadyQueued) {
		t.Fatalf("expected ErrRescoreAlreadyQueued, got %v", err)
	}

	tasks, err := inspector.ListPendingTasks("leads")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}

	payload, err := ParseLeadRescoreAllPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if len(payload.Statuses) != 2 || payload.Statuses[0] != "NEW" || payload.Statuses[1] != "INTERESTED" {
		t.Fatalf("unexpected statuses %v", payload.Statuses)
	}
}

func TestNilClientIsNoop(t *testing.T) {
	var client *Client
	if err := client.EnqueueLeadRescore(context.Background(), uuid.New()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := client.EnqueueRescoreAll(context.Background(), nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestNewLeadRescoreTaskRequiresID(t *testing.T) {
	if _, err := NewLeadRescoreTask(LeadRescorePayload{}); err == nil {
		t.Fatal("expected error for empty lead id")
	}
}

func newTestWorker(rescorer Rescorer) *Worker {
	w := &Worker{rescorer: rescorer, log: logger.New("development")}
	w.mux = w.newMux()
	return w
}

func TestWorkerHandlesLeadRescore(t *testing.T) {
	rescorer := &fakeRescorer{}
	w := newTestWorker(rescorer)
	leadID := uuid.New()

	task, err := NewLeadRescoreTask(LeadRescorePayload{LeadID: leadID.String()})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := w.mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(rescorer.scored) != 1 || rescorer.scored[0] != leadID {
		t.Fatalf("expected lead %s scored, got %v", leadID, rescorer.scored)
	}
}

func TestWorkerSkipsRetryOnBadPayload(t *testing.T) {
	w := newTestWorker(&fakeRescorer{})

	err := w.mux.ProcessTask(context.Background(), asynq.NewTask(TaskLeadRescore, []byte(`{"leadId":"nope"}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}

	err = w.mux.ProcessTask(context.Background(), asynq.NewTask(TaskLeadRescoreAll, []byte(`{"statuses":["ARCHIVED"]}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for unknown status, got %v", err)
	}
}

func TestWorkerHandlesRescoreAll(t *testing.T) {
	rescorer := &fakeRescorer{}
	w := newTestWorker(rescorer)

	task, err := NewLeadRescoreAllTask(LeadRescoreAllPayload{Statuses: []string{"CONTACTED"}})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := w.mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(rescorer.statuses) != 1 || rescorer.statuses[0] != domain.LeadStatusContacted {
		t.Fatalf("expected CONTACTED filter, got %v", rescorer.statuses)
	}

	empty := asynq.NewTask(TaskLeadRescoreAll, nil)
	if err := w.mux.ProcessTask(context.Background(), empty); err != nil {
		t.Fatalf("expected empty payload to be accepted, got %v", err)
	}
	if len(rescorer.statuses) != 0 {
		t.Fatalf("expected no filter for empty payload, got %v", rescorer.statuses)
	}
}

func TestWorkerReturnsRescoreAllError(t *testing.T) {
	rescorer := &fakeRescorer{err: errors.New("db down")}
	w := newTestWorker(rescorer)

	task, _ := NewLeadRescoreAllTask(LeadRescoreAllPayload{})
	err := w.mux.ProcessTask(context.Background(), task)
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

type testPeriodicConfig struct {
	testSchedulerConfig
	cron     string
	statuses []string
}

func (c testPeriodicConfig) GetRescoreCron() string       { return c.cron }
func (c testPeriodicConfig) GetRescoreStatuses() []string { return c.statuses }

func TestNewPeriodicRejectsUnknownStatus(t *testing.T) {
	cfg := testPeriodicConfig{
		testSchedulerConfig: testSchedulerConfig{redisURL: "redis://localhost:6379", queue: "leads"},
		cron:                "@every 6h",
		statuses:            []string{"NEW", "CONVRTED"},
	}
	if _, err := NewPeriodic(cfg, logger.New("test")); err == nil || !strings.Contains(err.Error(), "CONVRTED") {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}
