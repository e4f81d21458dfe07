package parser

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"NewsMonitor/internal/domain"
	"NewsMonitor/internal/scanner"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultMaxAge       = 36 * time.Hour
	defaultMaxItems     = 20
	defaultMinTitleLen  = 20
)

// WebScanner is the profile-driven source adapter. It tries the
// source's feed first and falls back to scraping the listing page when
// the feed yields nothing. One instance per configured source; no
// shared state between instances.
type WebScanner struct {
	profile scanner.SourceProfile
	client  *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

var _ scanner.Scanner = (*WebScanner)(nil)

// NewWebScanner wires an HTTP client with a bounded per-request timeout.
func NewWebScanner(profile scanner.SourceProfile, client *http.Client, logger *slog.Logger) *WebScanner {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	if profile.MaxAge <= 0 {
		profile.MaxAge = defaultMaxAge
	}
	if profile.MaxItems <= 0 {
		profile.MaxItems = defaultMaxItems
	}
	if profile.MinTitleLength <= 0 {
		profile.MinTitleLength = defaultMinTitleLen
	}
	return &WebScanner{profile: profile, client: client, logger: logger, now: time.Now}
}

// Name identifies the source inside the registry.
func (w *WebScanner) Name() string {
	return w.profile.ID
}

// Scrape fetches stubs for one cycle. Network and parse failures are
// captured in the result and never propagate; one failing source must
// not block others.
func (w *WebScanner) Scrape(ctx context.Context) domain.ScrapeResult {
	var result domain.ScrapeResult
	now := w.now()

	if w.profile.FeedURL != "" {
		stubs, err := fetchFeed(ctx, w.client, w.profile, now)
		if err != nil {
			result.Errors = append(result.Errors, "feed: "+err.Error())
			w.debug("feed fetch failed", "error", err)
		} else if len(stubs) > 0 {
			// Feed results are exclusive: no markup scrape on success.
			result.Articles = w.finalize(stubs, now)
			result.Success = len(result.Articles) > 0
			return result
		}
	}

	doc, err := fetchDocument(ctx, w.client, w.profile.ListingURL)
	if err != nil {
		result.Errors = append(result.Errors, "markup: "+err.Error())
		return result
	}

	stubs := extractFromListing(doc, w.profile, now)
	result.Articles = w.finalize(stubs, now)
	result.Success = len(result.Articles) > 0
	return result
}

// FetchMetadata implements the extended enrichment capability.
func (w *WebScanner) FetchMetadata(ctx context.Context, articleURL string) (domain.ArticleMetadata, error) {
	return fetchMetadata(ctx, w.client, articleURL)
}

// finalize applies the staleness window, orders newest first, and caps
// the list to the profile's bound.
func (w *WebScanner) finalize(stubs []domain.ArticleStub, now time.Time) []domain.ArticleStub {
	cutoff := now.Add(-w.profile.MaxAge)

	fresh := make([]domain.ArticleStub, 0, len(stubs))
	for _, stub := range stubs {
		if stub.PublishedAt.Before(cutoff) {
			continue
		}
		fresh = append(fresh, stub)
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].PublishedAt.After(fresh[j].PublishedAt)
	})

	if len(fresh) > w.profile.MaxItems {
		fresh = fresh[:w.profile.MaxItems]
	}
	return fresh
}

func (w *WebScanner) debug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
