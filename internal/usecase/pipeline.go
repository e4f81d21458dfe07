package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsMonitor/internal/domain"
	"NewsMonitor/internal/matcher"
	"NewsMonitor/internal/ports"
	"NewsMonitor/internal/scanner"
)

const (
	defaultPolitenessDelay = 2 * time.Second
	notifyBatchSize        = 5
	notifyBatchPause       = 3 * time.Second
)

// PipelineDeps wires all driven adapters into the monitoring pipeline.
type PipelineDeps struct {
	Registry        *scanner.Registry
	Repository      ports.ArticleRepository
	Notifier        ports.Notifier
	Keywords        []string
	MaxPerCycle     int
	PolitenessDelay time.Duration
	Logger          *slog.Logger
}

// Pipeline implements one monitoring cycle: fetch from every source,
// keyword-match, dedup, enrich, notify, persist.
type Pipeline struct {
	registry        *scanner.Registry
	repository      ports.ArticleRepository
	notifier        ports.Notifier
	keywords        []string
	maxPerCycle     int
	politenessDelay time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// CycleReport captures one cycle's diagnostics.
type CycleReport struct {
	Started   time.Time
	Duration  time.Duration
	PerSource map[string]int
	Matched   int
	Sent      int
	Errors    []string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	delay := deps.PolitenessDelay
	if delay <= 0 {
		delay = defaultPolitenessDelay
	}
	return &Pipeline{
		registry:        deps.Registry,
		repository:      deps.Repository,
		notifier:        deps.Notifier,
		keywords:        deps.Keywords,
		maxPerCycle:     deps.MaxPerCycle,
		politenessDelay: delay,
		logger:          deps.Logger,
		now:             time.Now,
	}
}

// RunCycle visits every source sequentially with a politeness delay in
// between, accumulates unseen keyword matches, caps them, notifies, and
// persists only the articles whose send succeeded so a later cycle can
// retry failures.
func (p *Pipeline) RunCycle(ctx context.Context) CycleReport {
	report := CycleReport{Started: p.now(), PerSource: map[string]int{}}

	var matches []domain.MatchedArticle

	for i, src := range p.registry.All() {
		if i > 0 {
			select {
			case <-time.After(p.politenessDelay):
			case <-ctx.Done():
				report.Errors = append(report.Errors, "cycle cancelled")
				report.Duration = p.now().Sub(report.Started)
				return report
			}
		}

		result := src.Scrape(ctx)
		report.PerSource[src.Name()] = len(result.Articles)
		for _, msg := range result.Errors {
			report.Errors = append(report.Errors, src.Name()+": "+msg)
			p.warn("source fetch problem", "source", src.Name(), "error", msg)
		}
		if !result.Success {
			p.warn("source produced no articles", "source", src.Name())
		}

		matches = append(matches, p.collectMatches(ctx, src, result.Articles)...)
	}

	report.Matched = len(matches)

	if p.maxPerCycle > 0 && len(matches) > p.maxPerCycle {
		p.warn("truncating matches to per-cycle cap",
			"matched", len(matches), "cap", p.maxPerCycle)
		matches = matches[:p.maxPerCycle]
	}

	report.Sent = p.deliver(ctx, matches)
	report.Duration = p.now().Sub(report.Started)

	p.info("cycle finished",
		"duration", report.Duration,
		"matched", report.Matched,
		"sent", report.Sent,
		"errors", len(report.Errors))

	return report
}

// collectMatches filters one source's stubs through the keyword matcher
// and the dedup store, enriching survivors with page metadata.
func (p *Pipeline) collectMatches(ctx context.Context, src scanner.Scanner, stubs []domain.ArticleStub) []domain.MatchedArticle {
	var matches []domain.MatchedArticle

	for _, stub := range stubs {
		keywords := matcher.FindMatchingKeywords(stub.Title, p.keywords)
		if len(keywords) == 0 {
			continue
		}

		seen, err := p.repository.IsProcessed(ctx, stub.URL)
		if err != nil {
			// A read failure is treated as unseen: a duplicate
			// notification is preferable to a lost article.
			p.warn("dedup check failed", "url", stub.URL, "error", err)
		}
		if seen {
			continue
		}

		article := domain.MatchedArticle{
			ArticleStub:     stub,
			MatchedKeywords: keywords,
			ProcessedAt:     p.now(),
			ImageURL:        stub.ImageURL,
		}

		if meta, metaErr := src.FetchMetadata(ctx, stub.URL); metaErr != nil {
			p.debug("metadata fetch failed", "url", stub.URL, "error", metaErr)
		} else {
			// The page's own og:image beats the listing thumbnail, but a
			// page without one must not erase it.
			if meta.ImageURL != "" {
				article.ImageURL = meta.ImageURL
			}
			article.Description = meta.Description
		}

		matches = append(matches, article)
	}

	return matches
}

// deliver hands articles to the notifier in small batches and persists
// each one only after its send was confirmed.
func (p *Pipeline) deliver(ctx context.Context, matches []domain.MatchedArticle) int {
	sent := 0

	for i, article := range matches {
		if i > 0 && i%notifyBatchSize == 0 {
			select {
			case <-time.After(notifyBatchPause):
			case <-ctx.Done():
				return sent
			}
		}

		if err := p.notifier.Send(ctx, article); err != nil {
			p.warn("notification failed, article not persisted",
				"url", article.URL, "error", err)
			continue
		}
		sent++

		if _, err := p.repository.Save(ctx, article); err != nil {
			// Non-fatal: the next cycle may send a duplicate, which
			// beats crashing the process.
			p.warn("dedup persist failed", "url", article.URL, "error", err)
		}
	}

	return sent
}

// RunCleanup prunes rows older than the retention window.
func (p *Pipeline) RunCleanup(ctx context.Context, retentionDays int) {
	deleted, err := p.repository.Cleanup(ctx, retentionDays)
	if err != nil {
		p.warn("cleanup failed", "error", err)
		return
	}
	p.info("cleanup finished", "deleted", deleted, "retention_days", retentionDays)
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
