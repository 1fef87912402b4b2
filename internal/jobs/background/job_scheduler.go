package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pharmafind/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	IntegrityAuditJob = "catalog-integrity-audit"

	jobTimeout = 5 * time.Minute
)

// JobScheduler manages background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	auditor   *jobs.IntegrityAuditor
	logger    *zap.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler with the integrity audit registered at
// the given interval. A non-positive interval leaves the audit unscheduled.
func NewJobScheduler(auditor *jobs.IntegrityAuditor, auditInterval time.Duration, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		auditor:   auditor,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}

	if auditor != nil && auditInterval > 0 {
		if err := js.registerIntegrityAudit(auditInterval); err != nil {
			return nil, err
		}
	}

	js.logger.Info("Registered background jobs", zap.Strings("jobs", js.JobNames()))
	return js, nil
}

func (js *JobScheduler) registerIntegrityAudit(interval time.Duration) error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.runIntegrityAudit),
		gocron.WithName(IntegrityAuditJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create integrity audit job: %w", err)
	}

	js.mu.Lock()
	js.jobs[IntegrityAuditJob] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) runIntegrityAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := js.auditor.Run(ctx); err != nil {
		js.logger.Error("Catalog integrity audit failed", zap.Error(err))
	}
}

func (js *JobScheduler) Start() {
	js.logger.Info("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
