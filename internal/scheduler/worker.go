package scheduler

import (
	"context"
	"fmt"

	"commerce_notifier/internal/leads"
	"commerce_notifier/platform/apperr"
	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"

	"github.com/hibiken/asynq"
)

// Runner performs one prospecting pass.
type Runner interface {
	Run(ctx context.Context) (leads.Report, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	runner Runner
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, runner Runner, log *logger.Logger) (*Worker, error) {
	opt, queue, err := connection(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 1
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	w := newWorker(runner, log)
	w.server = server
	return w, nil
}

func newWorker(runner Runner, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Discard()
	}
	mux := asynq.NewServeMux()
	w := &Worker{mux: mux, runner: runner, log: log}
	mux.HandleFunc(TaskProspectLeads, w.handleProspectLeads)
	return w
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

// handleProspectLeads treats an empty catalog or lead sheet as a finished
// run. A failed run is never retried: a rerun would sample and message new
// leads, so the next scheduled cycle picks up instead.
func (w *Worker) handleProspectLeads(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseProspectLeadsPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	report, err := w.runner.Run(ctx)
	w.log.Info("prospecting run finished",
		"triggered_by", payload.TriggeredBy,
		"product", report.Product.Name,
		"sampled", report.Sampled,
		"sent", report.Sent,
		"skipped", report.Skipped,
	)

	switch {
	case err == nil:
		return nil
	case apperr.Is(err, apperr.KindNoData):
		w.log.Warn("prospecting skipped", "error", err)
		return nil
	default:
		w.log.Error("prospecting run failed", "retryable", apperr.Retryable(err), "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
}
