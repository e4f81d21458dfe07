package parser

import (
	"log/slog"
	"net/http"
	"time"

	"NewsMonitor/internal/scanner"
)

// Profiles for the monitored Indonesian portals. Selector lists are
// ordered by reliability; the markup fallback stops at the first spec
// that yields a result.

// DetikProfile covers detik.com.
func DetikProfile() scanner.SourceProfile {
	return scanner.SourceProfile{
		ID:         "detik",
		Name:       "Detik",
		BaseURL:    "https://www.detik.com",
		FeedURL:    "https://rss.detik.com/index.php/detikcom",
		ListingURL: "https://news.detik.com/indeks",
		Selectors: []scanner.SelectorSpec{
			{Container: "article.list-content__item", Title: "h3.media__title", Link: "a.media__link", Date: "div.media__date span", Image: "div.media__image img"},
			{Container: "article", Title: "h2, h3", Link: "a"},
		},
		MaxAge: 24 * time.Hour,
	}
}

// KompasProfile covers kompas.com.
func KompasProfile() scanner.SourceProfile {
	return scanner.SourceProfile{
		ID:         "kompas",
		Name:       "Kompas",
		BaseURL:    "https://www.kompas.com",
		FeedURL:    "https://www.kompas.com/rss",
		ListingURL: "https://indeks.kompas.com",
		Selectors: []scanner.SelectorSpec{
			{Container: "div.articleItem", Title: "h2.articleTitle", Link: "a.article-link", Date: "div.articlePost-date", Image: "div.articleItem-img img"},
			{Container: "div.article__list", Title: "h3.article__title", Link: "a.article__link", Date: "div.article__date"},
		},
		MaxAge: 36 * time.Hour,
	}
}

// CNNIndonesiaProfile covers cnnindonesia.com.
func CNNIndonesiaProfile() scanner.SourceProfile {
	return scanner.SourceProfile{
		ID:         "cnnindonesia",
		Name:       "CNN Indonesia",
		BaseURL:    "https://www.cnnindonesia.com",
		FeedURL:    "https://www.cnnindonesia.com/nasional/rss",
		ListingURL: "https://www.cnnindonesia.com/nasional/indeks",
		Selectors: []scanner.SelectorSpec{
			{Container: "article a.flex", Title: "h2"},
			{Container: "article", Title: "h2, span.text-cnn_black", Link: "a"},
		},
		MaxAge: 36 * time.Hour,
	}
}

// TempoProfile covers tempo.co.
func TempoProfile() scanner.SourceProfile {
	return scanner.SourceProfile{
		ID:         "tempo",
		Name:       "Tempo",
		BaseURL:    "https://www.tempo.co",
		FeedURL:    "https://rss.tempo.co/nasional",
		ListingURL: "https://www.tempo.co/indeks",
		Selectors: []scanner.SelectorSpec{
			{Container: "div.card-box", Title: "h2.title", Link: "h2.title a", Date: "h4.date", Image: "figure img"},
			{Container: "article figure ~ div", Title: "a", Link: "a"},
		},
		MaxAge: 48 * time.Hour,
	}
}

// DefaultRegistry registers one scanner per monitored portal, sharing
// a single timeout-bounded HTTP client.
func DefaultRegistry(logger *slog.Logger) *scanner.Registry {
	client := &http.Client{Timeout: defaultFetchTimeout}

	registry := scanner.NewRegistry()
	for _, profile := range []scanner.SourceProfile{
		DetikProfile(),
		KompasProfile(),
		CNNIndonesiaProfile(),
		TempoProfile(),
	} {
		var scannerLogger *slog.Logger
		if logger != nil {
			scannerLogger = logger.With("component", "scanner."+profile.ID)
		}
		registry.Register(NewWebScanner(profile, client, scannerLogger))
	}
	return registry
}
