package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"commerce_notifier/internal/catalog"
	"commerce_notifier/internal/leads"
	"commerce_notifier/platform/apperr"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type schedulerConfig struct {
	redisURL string
}

func (c schedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c schedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c schedulerConfig) GetAsynqQueueName() string { return "notifier" }
func (c schedulerConfig) GetAsynqConcurrency() int  { return 1 }

type fakeRunner struct {
	report leads.Report
	err    error
	calls  int
}

func (f *fakeRunner) Run(context.Context) (leads.Report, error) {
	f.calls++
	return f.report, f.err
}

func prospectTask(t *testing.T) *asynq.Task {
	t.Helper()
	task, err := NewProspectLeadsTask(ProspectLeadsPayload{TriggeredBy: "test"})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return task
}

func TestHandleProspectLeads(t *testing.T) {
	runner := &fakeRunner{report: leads.Report{Product: catalog.Product{Name: "Sac"}, Sampled: 2, Sent: 1, Skipped: 1}}
	w := newWorker(runner, nil)

	if err := w.handleProspectLeads(context.Background(), prospectTask(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected one run, got %d", runner.calls)
	}
}

func TestHandleProspectLeadsErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantErr   bool
		skipRetry bool
	}{
		{"no data", apperr.NoData("no products"), false, false},
		{"gateway down", apperr.Unavailable("gateway", errors.New("502")), true, true},
		{"permanent", apperr.BadRequest("bad sheet"), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorker(&fakeRunner{err: tt.err}, nil)
			err := w.handleProspectLeads(context.Background(), prospectTask(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error %v", err)
			}
			if errors.Is(err, asynq.SkipRetry) != tt.skipRetry {
				t.Fatalf("skip retry mismatch for %v", err)
			}
		})
	}
}

func TestParsePayloadRejectsGarbage(t *testing.T) {
	w := newWorker(&fakeRunner{}, nil)
	err := w.handleProspectLeads(context.Background(), asynq.NewTask(TaskProspectLeads, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected skip retry, got %v", err)
	}
}

func TestEnqueueProspect(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := schedulerConfig{redisURL: "redis://" + srv.Addr()}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	id, err := client.EnqueueProspect(context.Background(), "cli")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	opt, _ := redisClientOpt(cfg.redisURL, false)
	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	info, err := inspector.GetTaskInfo("notifier", id)
	if err != nil {
		t.Fatalf("task info: %v", err)
	}
	if info.Type != TaskProspectLeads {
		t.Fatalf("unexpected task type %q", info.Type)
	}
	if info.MaxRetry != 0 {
		t.Fatalf("prospecting runs must not be retried, max retry %d", info.MaxRetry)
	}
	payload, err := ParseProspectLeadsPayload(asynq.NewTask(info.Type, info.Payload))
	if err != nil || payload.TriggeredBy != "cli" {
		t.Fatalf("unexpected payload %+v (%v)", payload, err)
	}
}

func TestNewClientRequiresRedis(t *testing.T) {
	if _, err := NewClient(schedulerConfig{}); err == nil {
		t.Fatalf("expected error without redis url")
	}
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("rediss://:pw@cache.internal:6380/2", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Addr != "cache.internal:6380" || opt.Password != "pw" || opt.DB != 2 {
		t.Fatalf("unexpected options %+v", opt)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatalf("expected insecure tls config")
	}
}

func TestCronSpec(t *testing.T) {
	if got := CronSpec(90 * time.Minute); got != "@every 1h30m0s" {
		t.Fatalf("unexpected spec %q", got)
	}
}
