package scanner

import (
	"context"
	"fmt"
	"time"

	"NewsMonitor/internal/domain"
)

// SelectorSpec is one structural extraction rule for a listing page,
// tried in priority order during markup fallback.
type SelectorSpec struct {
	// Container matches one article block.
	Container string
	// Title and Link are resolved relative to the container. An empty
	// Link means the container itself carries the href.
	Title string
	Link  string
	// Date is optional; a missing or unparseable date defaults to now.
	Date string
	// Image is optional.
	Image string
}

// SourceProfile describes one news source: its feed endpoint, its
// listing page, and how to extract stubs from the markup.
type SourceProfile struct {
	ID         string
	Name       string
	BaseURL    string
	FeedURL    string
	ListingURL string
	Selectors  []SelectorSpec
	// MaxAge is the staleness window; stubs published earlier than
	// now-MaxAge are discarded.
	MaxAge time.Duration
	// MaxItems caps the per-fetch result list, newest first.
	MaxItems int
	// MinTitleLength filters nav/junk links extracted from markup.
	MinTitleLength int
}

// Scanner is the capability set every source adapter implements.
// Scrape never returns an error: failures are collected in the result.
type Scanner interface {
	Name() string
	Scrape(ctx context.Context) domain.ScrapeResult
	FetchMetadata(ctx context.Context, articleURL string) (domain.ArticleMetadata, error)
}

// Registry keeps a mapping from source ids to their scanners.
type Registry struct {
	order    []string
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner, preserving registration order.
func (r *Registry) Register(s Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	if _, exists := r.scanners[s.Name()]; !exists {
		r.order = append(r.order, s.Name())
	}
	r.scanners[s.Name()] = s
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if s, ok := r.scanners[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}

// All returns scanners in registration order.
func (r *Registry) All() []Scanner {
	out := make([]Scanner, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.scanners[name])
	}
	return out
}
