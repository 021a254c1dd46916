// Package scheduler runs the background housekeeping jobs of the web server.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// JobFunc is the work a job does on every run.
type JobFunc func(ctx context.Context) error

// Scheduler wraps gocron. Failed runs are logged and the job stays scheduled.
type Scheduler struct {
	gocron gocron.Scheduler

	mu   sync.Mutex
	jobs map[string]gocron.Job

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped scheduler.
func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLogger(newLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		gocron: s,
		jobs:   make(map[string]gocron.Job),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Every registers fn to run once per interval. Runs never overlap; a run
// that is still busy when the next one is due pushes it back.
func (s *Scheduler) Every(id, name string, interval time.Duration, fn JobFunc) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job %s already exists", id)
	}

	ref, err := s.gocron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := fn(s.ctx); err != nil {
				log.Error("Job failed", "id", id, "error", err)
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}
	s.jobs[id] = ref
	log.Debug("Added job to scheduler", "id", id, "name", name, "interval", interval)
	return nil
}

// Start starts running the registered jobs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	n := len(s.jobs)
	s.mu.Unlock()
	s.gocron.Start()
	log.Info("Job scheduler started", "jobs", n)
}

// Stop cancels running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	s.cancel()
	return s.gocron.Shutdown()
}
