package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
)

// Runner is a unit of scheduled work.
type Runner interface {
	Run(ctx context.Context) error
}

// JobScheduler runs the application's periodic jobs in the configured zone.
type JobScheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewJobScheduler creates a scheduler whose daily jobs fire in loc.
func NewJobScheduler(loc *time.Location) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &JobScheduler{
		scheduler: scheduler,
		jobs:      make(map[string]gocron.Job),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// AddDaily registers runner to fire once a day at hour:00.
func (js *JobScheduler) AddDaily(name string, hour uint, runner Runner) error {
	job, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, 0, 0))),
		gocron.NewTask(js.run, name, runner),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s job", name)
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) run(name string, runner Runner) {
	started := time.Now()
	if err := runner.Run(js.ctx); err != nil {
		slog.Error("background job failed", "job", name, "err", err)
		return
	}
	slog.Debug("background job finished", "job", name, "duration", time.Since(started))
}

// NextRun reports when the named job fires next.
func (js *JobScheduler) NextRun(name string) (time.Time, error) {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return time.Time{}, errors.Errorf("unknown job %q", name)
	}
	return job.NextRun()
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.mu.RLock()
	slog.Info("starting background job scheduler", "jobs", len(js.jobs))
	js.mu.RUnlock()
	js.scheduler.Start()
}

// Stop cancels running jobs and waits for them to return.
func (js *JobScheduler) Stop() error {
	slog.Info("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}
