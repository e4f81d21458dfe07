// Package scheduler runs named recurring jobs on interval or cron
// triggers over a shared cron runner. Executions of the same job never
// overlap: a fire that lands while the previous invocation is still
// active is skipped with a warning.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"NewsMonitor/internal/ports"
)

// CronScheduler implements ports.Scheduler on top of robfig/cron.
// Interval triggers ride the same runner via @every descriptors.
type CronScheduler struct {
	logger *slog.Logger
	runner *cron.Cron

	mu   sync.Mutex
	jobs map[string]*job
}

type job struct {
	name    string
	entryID cron.EntryID
	cancel  context.CancelFunc
	running atomic.Bool
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// New builds and starts the underlying cron runner.
func New(logger *slog.Logger) *CronScheduler {
	runner := cron.New()
	runner.Start()
	return &CronScheduler{
		logger: logger,
		runner: runner,
		jobs:   map[string]*job{},
	}
}

// Schedule registers a named job. Scheduling an existing name stops the
// previous job first (replace semantics). With runImmediately the job
// fires once right away, in addition to its schedule.
func (s *CronScheduler) Schedule(name string, trigger ports.Trigger, fn func(context.Context), runImmediately bool) error {
	spec, err := triggerSpec(trigger)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		s.warn("replacing already scheduled job", "job", name)
		s.stopLocked(name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{name: name, cancel: cancel}

	run := func() {
		if !j.running.CompareAndSwap(false, true) {
			s.warn("previous run still active, skipping fire", "job", name)
			return
		}
		defer j.running.Store(false)
		defer func() {
			if rec := recover(); rec != nil {
				s.warn("job panicked", "job", name, "panic", rec)
			}
		}()

		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	}

	entryID, err := s.runner.AddFunc(spec, run)
	if err != nil {
		cancel()
		return fmt.Errorf("job %s: invalid schedule %q: %w", name, spec, err)
	}
	j.entryID = entryID
	s.jobs[name] = j

	s.debug("job scheduled", "job", name, "spec", spec)

	if runImmediately {
		go run()
	}
	return nil
}

// Stop cancels a job by name; it reports whether the job existed.
func (s *CronScheduler) Stop(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(name)
}

func (s *CronScheduler) stopLocked(name string) bool {
	j, ok := s.jobs[name]
	if !ok {
		return false
	}
	s.runner.Remove(j.entryID)
	j.cancel()
	delete(s.jobs, name)
	s.debug("job stopped", "job", name)
	return true
}

// StopAll stops every job and the runner itself, waiting briefly for
// in-flight executions started by the runner.
func (s *CronScheduler) StopAll() {
	s.mu.Lock()
	for name := range s.jobs {
		s.stopLocked(name)
	}
	s.mu.Unlock()

	stopCtx := s.runner.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(10 * time.Second):
		s.warn("timed out waiting for in-flight jobs")
	}
}

// NextRun reports the next fire time of a scheduled job.
func (s *CronScheduler) NextRun(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[name]
	if !ok {
		return time.Time{}, false
	}
	return s.runner.Entry(j.entryID).Next, true
}

// Status lists every scheduled job with its in-flight state and next
// fire time.
func (s *CronScheduler) Status() []ports.JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]ports.JobStatus, 0, len(s.jobs))
	for _, j := range s.jobs {
		statuses = append(statuses, ports.JobStatus{
			Name:    j.name,
			Running: j.running.Load(),
			NextRun: s.runner.Entry(j.entryID).Next,
		})
	}
	return statuses
}

func triggerSpec(trigger ports.Trigger) (string, error) {
	switch {
	case trigger.Cron != "":
		return trigger.Cron, nil
	case trigger.Every > 0:
		return "@every " + trigger.Every.String(), nil
	default:
		return "", fmt.Errorf("trigger needs a positive interval or a cron expression")
	}
}

func (s *CronScheduler) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *CronScheduler) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
