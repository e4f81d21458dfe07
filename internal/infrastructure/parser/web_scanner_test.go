package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"NewsMonitor/internal/scanner"
)

func rssBody(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>test</title>` + strings.Join(items, "") + `</channel></rss>`
}

func rssItem(title, link string, published time.Time) string {
	return fmt.Sprintf("<item><title>%s</title><link>%s</link><pubDate>%s</pubDate></item>",
		title, link, published.Format(time.RFC1123Z))
}

func testProfile(serverURL string) scanner.SourceProfile {
	return scanner.SourceProfile{
		ID:         "test",
		Name:       "Test Source",
		BaseURL:    serverURL,
		FeedURL:    serverURL + "/feed",
		ListingURL: serverURL + "/indeks",
		Selectors: []scanner.SelectorSpec{
			{Container: "div.missing", Title: "h2", Link: "a"},
			{Container: "article.item", Title: "h2.title", Link: "a.link"},
		},
		MaxAge:         24 * time.Hour,
		MaxItems:       15,
		MinTitleLength: 10,
	}
}

func TestScrapeUsesFeedExclusively(t *testing.T) {
	t.Parallel()

	recent := time.Now().Add(-1 * time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed":
			_, _ = w.Write([]byte(rssBody(
				rssItem("Kabar dari feed pertama", "https://example.org/berita/1", recent),
				rssItem("Kabar dari feed kedua", "https://example.org/berita/2", recent.Add(-time.Hour)),
			)))
		case "/indeks":
			t.Error("markup must not be fetched when the feed yields items")
		}
	}))
	defer server.Close()

	sc := NewWebScanner(testProfile(server.URL), server.Client(), nil)
	result := sc.Scrape(context.Background())

	if !result.Success {
		t.Fatalf("expected success, errors: %v", result.Errors)
	}
	if len(result.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(result.Articles))
	}
	if result.Articles[0].URL != "https://example.org/berita/1" {
		t.Fatalf("expected newest first, got %s", result.Articles[0].URL)
	}
	if result.Articles[0].Source != "test" {
		t.Fatalf("unexpected source id: %s", result.Articles[0].Source)
	}
}

func TestScrapeFallsBackToMarkup(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed":
			http.Error(w, "gone", http.StatusNotFound)
		case "/indeks":
			_, _ = w.Write([]byte(`
			<html><body>
			  <article class="item"><h2 class="title">Berita penting soal pendidikan</h2><a class="link" href="/berita/relatif">x</a></article>
			  <article class="item"><h2 class="title">Judul kedua yang cukup panjang</h2><a class="link" href="https://example.org/berita/2">x</a></article>
			  <article class="item"><h2 class="title">Pendek</h2><a class="link" href="https://example.org/berita/3">x</a></article>
			  <article class="item"><h2 class="title">Judul kedua yang cukup panjang</h2><a class="link" href="https://example.org/berita/2">x</a></article>
			  <article class="item"><h2 class="title">Tautan tanpa skema yang valid</h2><a class="link" href="javascript:void(0)">x</a></article>
			</body></html>`))
		}
	}))
	defer server.Close()

	sc := NewWebScanner(testProfile(server.URL), server.Client(), nil)
	result := sc.Scrape(context.Background())

	if !result.Success {
		t.Fatalf("expected success, errors: %v", result.Errors)
	}
	if len(result.Errors) == 0 {
		t.Fatal("expected the feed failure to be recorded")
	}
	if len(result.Articles) != 2 {
		t.Fatalf("expected 2 articles (junk and duplicates filtered), got %d: %+v", len(result.Articles), result.Articles)
	}

	var urls []string
	for _, a := range result.Articles {
		urls = append(urls, a.URL)
	}
	joined := strings.Join(urls, " ")
	if !strings.Contains(joined, server.URL+"/berita/relatif") {
		t.Fatalf("relative URL must resolve against base, got %v", urls)
	}
	if !strings.Contains(joined, "https://example.org/berita/2") {
		t.Fatalf("missing absolute article, got %v", urls)
	}
}

func TestScrapeExtractsListingThumbnail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed":
			http.Error(w, "gone", http.StatusNotFound)
		case "/indeks":
			_, _ = w.Write([]byte(`
			<html><body>
			  <article class="item">
			    <img class="thumb" data-src="/img/lazy.jpg" src="data:image/gif;base64,R0lGOD">
			    <h2 class="title">Berita dengan gambar lazy-load</h2><a class="link" href="/berita/1">x</a>
			  </article>
			  <article class="item">
			    <img class="thumb" src="https://cdn.example.org/img/plain.jpg">
			    <h2 class="title">Berita dengan gambar langsung</h2><a class="link" href="/berita/2">x</a>
			  </article>
			  <article class="item">
			    <h2 class="title">Berita tanpa gambar sama sekali</h2><a class="link" href="/berita/3">x</a>
			  </article>
			</body></html>`))
		}
	}))
	defer server.Close()

	profile := testProfile(server.URL)
	profile.Selectors = []scanner.SelectorSpec{
		{Container: "article.item", Title: "h2.title", Link: "a.link", Image: "img.thumb"},
	}

	sc := NewWebScanner(profile, server.Client(), nil)
	result := sc.Scrape(context.Background())

	if len(result.Articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(result.Articles))
	}

	byURL := map[string]string{}
	for _, a := range result.Articles {
		byURL[a.URL] = a.ImageURL
	}
	if got := byURL[server.URL+"/berita/1"]; got != server.URL+"/img/lazy.jpg" {
		t.Fatalf("data-src must win over placeholder src, got %q", got)
	}
	if got := byURL[server.URL+"/berita/2"]; got != "https://cdn.example.org/img/plain.jpg" {
		t.Fatalf("unexpected plain thumbnail: %q", got)
	}
	if got := byURL[server.URL+"/berita/3"]; got != "" {
		t.Fatalf("article without image must keep an empty ImageURL, got %q", got)
	}
}

func TestScrapeDiscardsStaleArticles(t *testing.T) {
	t.Parallel()

	now := time.Now()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/feed" {
			_, _ = w.Write([]byte(rssBody(
				rssItem("Kabar masih segar hari ini", "https://example.org/berita/fresh", now.Add(-2*time.Hour)),
				rssItem("Kabar basi dari minggu lalu", "https://example.org/berita/stale", now.Add(-10*24*time.Hour)),
			)))
		}
	}))
	defer server.Close()

	sc := NewWebScanner(testProfile(server.URL), server.Client(), nil)
	result := sc.Scrape(context.Background())

	if len(result.Articles) != 1 {
		t.Fatalf("expected only the fresh article, got %d", len(result.Articles))
	}
	if result.Articles[0].URL != "https://example.org/berita/fresh" {
		t.Fatalf("unexpected survivor: %s", result.Articles[0].URL)
	}
}

func TestScrapeCapsResultCount(t *testing.T) {
	t.Parallel()

	now := time.Now()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/feed" {
			items := make([]string, 0, 30)
			for i := 0; i < 30; i++ {
				items = append(items, rssItem(
					fmt.Sprintf("Judul berita nomor %02d hari ini", i),
					fmt.Sprintf("https://example.org/berita/%d", i),
					now.Add(-time.Duration(i)*time.Minute)))
			}
			_, _ = w.Write([]byte(rssBody(items...)))
		}
	}))
	defer server.Close()

	profile := testProfile(server.URL)
	profile.MaxItems = 15

	sc := NewWebScanner(profile, server.Client(), nil)
	result := sc.Scrape(context.Background())

	if len(result.Articles) != 15 {
		t.Fatalf("expected capped list of 15, got %d", len(result.Articles))
	}
	if result.Articles[0].URL != "https://example.org/berita/0" {
		t.Fatalf("expected newest first after cap, got %s", result.Articles[0].URL)
	}
}

func TestScrapeNeverPropagatesFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	sc := NewWebScanner(testProfile(server.URL), server.Client(), nil)
	result := sc.Scrape(context.Background())

	if result.Success {
		t.Fatal("expected failure result")
	}
	if len(result.Articles) != 0 {
		t.Fatalf("expected no articles, got %d", len(result.Articles))
	}
	if len(result.Errors) == 0 {
		t.Fatal("expected recorded errors")
	}
}

func TestFetchMetadata(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`
		<html><head>
		  <meta property="og:image" content="https://example.org/img/cover.jpg">
		  <meta property="og:description" content="  Ringkasan   artikel  dengan spasi ganda. ">
		</head><body></body></html>`))
	}))
	defer server.Close()

	sc := NewWebScanner(testProfile(server.URL), server.Client(), nil)
	meta, err := sc.FetchMetadata(context.Background(), server.URL+"/artikel")
	if err != nil {
		t.Fatalf("FetchMetadata error: %v", err)
	}

	if meta.ImageURL != "https://example.org/img/cover.jpg" {
		t.Fatalf("unexpected image: %s", meta.ImageURL)
	}
	if meta.Description != "Ringkasan artikel dengan spasi ganda." {
		t.Fatalf("unexpected description: %q", meta.Description)
	}
}

func TestFetchMetadataBodyFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`
		<html><body><article>
		  <p>Baca juga: artikel lain yang masih terkait dengan topik ini</p>
		  <p>Iklan</p>
		  <p>Paragraf pembuka yang cukup panjang untuk dijadikan cuplikan artikel berita.</p>
		</article></body></html>`))
	}))
	defer server.Close()

	sc := NewWebScanner(testProfile(server.URL), server.Client(), nil)
	meta, err := sc.FetchMetadata(context.Background(), server.URL+"/artikel")
	if err != nil {
		t.Fatalf("FetchMetadata error: %v", err)
	}

	if !strings.HasPrefix(meta.Description, "Paragraf pembuka") {
		t.Fatalf("expected body-paragraph fallback, got %q", meta.Description)
	}
}
