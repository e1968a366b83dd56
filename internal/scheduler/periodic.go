package scheduler

import (
	"context"
	"fmt"
	"time"

	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"

	"github.com/hibiken/asynq"
)

// PeriodicConfig combines the settings the periodic enqueuer needs.
type PeriodicConfig interface {
	config.SchedulerConfig
	config.ProspectingConfig
}

// Periodic enqueues a prospecting run once per configured interval.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg PeriodicConfig, log *logger.Logger) (*Periodic, error) {
	opt, queue, err := connection(cfg)
	if err != nil {
		return nil, err
	}

	interval := cfg.GetProspectInterval()
	if interval <= 0 {
		return nil, fmt.Errorf("prospect interval must be positive")
	}

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.UTC,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.Warn("prospecting enqueue failed", "error", err)
			}
		},
	})

	task, err := NewProspectLeadsTask(ProspectLeadsPayload{TriggeredBy: "schedule"})
	if err != nil {
		return nil, err
	}
	// Unique keeps a slow run from piling up duplicates behind it.
	if _, err := scheduler.Register(CronSpec(interval), task, asynq.Queue(queue), asynq.Unique(interval), asynq.MaxRetry(0)); err != nil {
		return nil, err
	}

	return &Periodic{scheduler: scheduler, log: log}, nil
}

// CronSpec renders interval in asynq's @every form.
func CronSpec(interval time.Duration) string {
	return "@every " + interval.String()
}

func (p *Periodic) Run(ctx context.Context) error {
	if p == nil || p.scheduler == nil {
		return nil
	}
	if err := p.scheduler.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	p.scheduler.Shutdown()
	return nil
}
