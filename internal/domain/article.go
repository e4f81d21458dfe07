package domain

import "time"

// ArticleStub is an unvalidated article reference produced by a source
// fetch. URL is the natural key used for deduplication. ImageURL is a
// listing-page thumbnail when the source markup carries one.
type ArticleStub struct {
	Title       string
	URL         string
	Source      string
	PublishedAt time.Time
	ImageURL    string
}

// ArticleMetadata carries optional enrichment pulled from the article
// page itself.
type ArticleMetadata struct {
	ImageURL    string
	Description string
}

// MatchedArticle is a stub confirmed to contain at least one configured
// keyword and not yet recorded as delivered. MatchedKeywords is never
// empty.
type MatchedArticle struct {
	ArticleStub
	MatchedKeywords []string
	ProcessedAt     time.Time
	ImageURL        string
	Description     string
}

// ProcessedArticle is the durable row persisted after a successful
// notification. Rows are insert-once and removed only by retention
// cleanup.
type ProcessedArticle struct {
	ID              int64
	URL             string
	Title           string
	Source          string
	PublishedAt     time.Time
	ProcessedAt     time.Time
	MatchedKeywords []string
	ImageURL        string
	Description     string
}

// ScrapeResult aggregates one adapter's fetch outcome. Success is true
// iff at least one article was produced; Errors collects per-source
// failures that must not propagate past the adapter.
type ScrapeResult struct {
	Articles []ArticleStub
	Success  bool
	Errors   []string
}

// StoreStats summarizes the dedup store contents.
type StoreStats struct {
	Total    int64
	BySource map[string]int64
}
