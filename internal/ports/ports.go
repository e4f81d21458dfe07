package ports

import (
	"context"
	"time"

	"NewsMonitor/internal/domain"
)

// ArticleRepository persists delivered articles for deduplication and
// history. Save uses insert-if-absent semantics: a second call with the
// same URL returns the existing row id and creates nothing.
type ArticleRepository interface {
	IsProcessed(ctx context.Context, url string) (bool, error)
	Save(ctx context.Context, article domain.MatchedArticle) (int64, error)
	Recent(ctx context.Context, source string, limit int) ([]domain.ProcessedArticle, error)
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
	Stats(ctx context.Context) (domain.StoreStats, error)
	Close() error
}

// Notifier delivers a single matched article to the outbound channel.
type Notifier interface {
	Send(ctx context.Context, article domain.MatchedArticle) error
	SelfTest(ctx context.Context) error
}

// Scheduler controls named recurring jobs.
type Scheduler interface {
	Schedule(name string, trigger Trigger, job func(context.Context), runImmediately bool) error
	Stop(name string) bool
	StopAll()
	NextRun(name string) (time.Time, bool)
	Status() []JobStatus
}

// JobStatus is one scheduled job's observable state.
type JobStatus struct {
	Name    string
	Running bool
	NextRun time.Time
}

// Trigger is the tagged interval-or-cron variant consumed by the
// scheduler. Exactly one field is set.
type Trigger struct {
	Every time.Duration
	Cron  string
}

// TriggerEvery builds an interval trigger from whole minutes.
func TriggerEvery(minutes int) Trigger {
	return Trigger{Every: time.Duration(minutes) * time.Minute}
}

// TriggerCron builds a cron-expression trigger.
func TriggerCron(expr string) Trigger {
	return Trigger{Cron: expr}
}
