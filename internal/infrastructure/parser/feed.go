package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsMonitor/internal/domain"
	"NewsMonitor/internal/scanner"
)

// fetchFeed pulls the source's syndication endpoint and normalizes its
// items into stubs. Items without a usable link or title are skipped;
// missing publish dates default to now.
func fetchFeed(ctx context.Context, client *http.Client, profile scanner.SourceProfile, now time.Time) ([]domain.ArticleStub, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profile.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	stubs := make([]domain.ArticleStub, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		link := feedItemLink(item)
		title := normalizeTitle(item.Title)
		if link == "" || title == "" {
			continue
		}

		publishedAt := now
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.Published != "" {
			publishedAt = ParsePublishedTime(item.Published, now)
		}

		stubs = append(stubs, domain.ArticleStub{
			Title:       title,
			URL:         link,
			Source:      profile.ID,
			PublishedAt: publishedAt,
		})
	}

	return stubs, nil
}

// feedItemLink prefers the explicit link, falling back to a GUID that
// looks like an HTTP URL.
func feedItemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return strings.TrimSpace(item.Link)
	}
	if strings.HasPrefix(item.GUID, "http") {
		return strings.TrimSpace(item.GUID)
	}
	return ""
}
