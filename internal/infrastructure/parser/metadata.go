package parser

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"NewsMonitor/internal/domain"
)

const maxDescriptionLength = 300

var boilerplateMarkers = []string{
	"baca juga",
	"lihat juga",
	"simak juga",
	"advertisement",
	"advertorial",
	"copyright",
	"hak cipta",
	"scroll untuk",
	"klik di sini",
}

// fetchMetadata pulls the article page and extracts an Open Graph or
// Twitter card image plus a short description. Called only for matched
// articles, after keyword filtering has narrowed the candidate set.
func fetchMetadata(ctx context.Context, client *http.Client, articleURL string) (domain.ArticleMetadata, error) {
	doc, err := fetchDocument(ctx, client, articleURL)
	if err != nil {
		return domain.ArticleMetadata{}, err
	}

	meta := domain.ArticleMetadata{
		ImageURL:    extractImage(doc),
		Description: extractDescription(doc),
	}
	return meta, nil
}

func extractImage(doc *goquery.Document) string {
	for _, sel := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[name="twitter:image:src"]`,
	} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			content = strings.TrimSpace(content)
			if strings.HasPrefix(content, "http") {
				return content
			}
		}
	}
	return ""
}

// extractDescription prefers the page's meta description and falls back
// to the first substantive body paragraph, skipping boilerplate.
func extractDescription(doc *goquery.Document) string {
	for _, sel := range []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
	} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if desc := normalizeDescription(content); desc != "" {
				return desc
			}
		}
	}

	var fallback string
	doc.Find("article p, .detail__body-text p, .read__content p, p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := normalizeDescription(p.Text())
		if text == "" || utf8.RuneCountInString(text) < 30 || isBoilerplate(text) {
			return true
		}
		fallback = text
		return false
	})

	return fallback
}

func isBoilerplate(text string) bool {
	lowered := strings.ToLower(text)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func normalizeDescription(raw string) string {
	text := strings.Join(strings.Fields(raw), " ")
	if utf8.RuneCountInString(text) <= maxDescriptionLength {
		return text
	}

	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxDescriptionLength-1])) + "…"
}
