package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsMonitor/internal/domain"
	"NewsMonitor/internal/scanner"
)

const userAgent = "NewsMonitor/1.0 (+https://github.com/newsmonitor)"

func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// extractFromListing walks the profile's selector specs in priority
// order and returns the stubs produced by the first spec that yields at
// least one result. Items are deduplicated by URL within the fetch.
func extractFromListing(doc *goquery.Document, profile scanner.SourceProfile, now time.Time) []domain.ArticleStub {
	for _, spec := range profile.Selectors {
		stubs := extractWithSpec(doc, spec, profile, now)
		if len(stubs) > 0 {
			return stubs
		}
	}
	return nil
}

func extractWithSpec(doc *goquery.Document, spec scanner.SelectorSpec, profile scanner.SourceProfile, now time.Time) []domain.ArticleStub {
	var stubs []domain.ArticleStub
	seen := map[string]struct{}{}

	doc.Find(spec.Container).Each(func(_ int, sel *goquery.Selection) {
		title := containerTitle(sel, spec)
		link := containerLink(sel, spec)

		absolute, ok := resolveArticleURL(profile.BaseURL, link)
		if !ok {
			return
		}
		if len([]rune(title)) < profile.MinTitleLength {
			return
		}
		if _, dup := seen[absolute]; dup {
			return
		}
		seen[absolute] = struct{}{}

		publishedAt := now
		if spec.Date != "" {
			publishedAt = ParsePublishedTime(sel.Find(spec.Date).First().Text(), now)
		}

		stubs = append(stubs, domain.ArticleStub{
			Title:       title,
			URL:         absolute,
			Source:      profile.ID,
			PublishedAt: publishedAt,
			ImageURL:    containerImage(sel, spec, profile.BaseURL),
		})
	})

	return stubs
}

func containerTitle(sel *goquery.Selection, spec scanner.SelectorSpec) string {
	if spec.Title != "" {
		return normalizeTitle(sel.Find(spec.Title).First().Text())
	}
	return normalizeTitle(sel.Text())
}

// containerImage pulls a listing thumbnail when the extraction rule
// carries an image selector. Lazy-loaded markup keeps the real source
// in data-src.
func containerImage(sel *goquery.Selection, spec scanner.SelectorSpec, baseURL string) string {
	if spec.Image == "" {
		return ""
	}

	img := sel.Find(spec.Image).First()
	src, ok := img.Attr("data-src")
	if !ok || strings.TrimSpace(src) == "" {
		src, _ = img.Attr("src")
	}

	absolute, ok := resolveArticleURL(baseURL, src)
	if !ok {
		return ""
	}
	return absolute
}

func containerLink(sel *goquery.Selection, spec scanner.SelectorSpec) string {
	if spec.Link != "" {
		href, _ := sel.Find(spec.Link).First().Attr("href")
		return href
	}
	href, _ := sel.Attr("href")
	return href
}

// resolveArticleURL resolves href against the source base and accepts
// only syntactically valid absolute http(s) URLs.
func resolveArticleURL(baseURL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	if !ref.IsAbs() {
		base, err := url.Parse(baseURL)
		if err != nil {
			return "", false
		}
		ref = base.ResolveReference(ref)
	}

	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	if ref.Host == "" {
		return "", false
	}

	return ref.String(), true
}

// normalizeTitle collapses whitespace and strips common separator
// clutter carried inside listing markup.
func normalizeTitle(raw string) string {
	fields := strings.Fields(strings.ReplaceAll(raw, " ", " "))
	return strings.Trim(strings.Join(fields, " "), " -|•")
}
