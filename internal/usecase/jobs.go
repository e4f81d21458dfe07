package usecase

import (
	"context"
	"fmt"

	"NewsMonitor/internal/config"
	"NewsMonitor/internal/ports"
)

// Job names; the scheduler's non-overlap guarantee over MonitorJob is
// what keeps at most one cycle active at a time.
const (
	MonitorJob = "monitor"
	CleanupJob = "cleanup"
)

// RegisterJobs schedules the monitoring cycle and the retention cleanup
// on the shared scheduler. The monitor job fires immediately once.
func RegisterJobs(sched ports.Scheduler, pipeline *Pipeline, cfg config.MonitorConfig) error {
	monitorJob := func(ctx context.Context) {
		pipeline.RunCycle(ctx)
	}
	if err := sched.Schedule(MonitorJob, ports.TriggerEvery(cfg.IntervalMinutes), monitorJob, true); err != nil {
		return fmt.Errorf("schedule monitor: %w", err)
	}

	cleanupJob := func(ctx context.Context) {
		pipeline.RunCleanup(ctx, cfg.RetentionDays)
	}
	if err := sched.Schedule(CleanupJob, ports.TriggerCron(cfg.CleanupCron), cleanupJob, false); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}

	return nil
}
