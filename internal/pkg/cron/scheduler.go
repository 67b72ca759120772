package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name  string
	every time.Duration
	run   func(ctx context.Context) error
}

// Scheduler runs background jobs on fixed intervals, one goroutine per
// job. Each job fires once immediately on Start and then on every tick
// until Stop.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddJob registers fn to run every interval once the scheduler starts.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job{name: name, every: interval, run: fn})
	slog.Info("Background job registered", "job", name, "interval", interval)
}

// Start launches the registered jobs. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	for _, j := range s.jobs {
		s.wg.Add(1)
		go func(j job) {
			defer s.wg.Done()
			s.loop(ctx, j)
		}(j)
	}
	slog.Info("Scheduler started", "jobs", len(s.jobs))
}

// Stop cancels the job contexts and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	ticker := time.NewTicker(j.every)
	defer ticker.Stop()

	s.fire(ctx, j)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(ctx, j)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, j job) {
	started := time.Now()
	if err := j.run(ctx); err != nil {
		slog.Error("Background job failed", "job", j.name, "elapsed", time.Since(started), "error", err)
		return
	}
	slog.Debug("Background job done", "job", j.name, "elapsed", time.Since(started))
}
