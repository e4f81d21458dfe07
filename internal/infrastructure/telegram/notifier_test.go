package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"NewsMonitor/internal/domain"
)

func testArticle() domain.MatchedArticle {
	return domain.MatchedArticle{
		ArticleStub: domain.ArticleStub{
			Title:       "Polemik ijazah & gelar akademik",
			URL:         "https://example.org/berita/1",
			Source:      "detik",
			PublishedAt: time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC),
		},
		MatchedKeywords: []string{"ijazah"},
		Description:     "Cuplikan artikel.",
	}
}

func TestSendPostsFormattedMessage(t *testing.T) {
	t.Parallel()

	var form map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = r.PostForm
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := NewNotifier("123:token", "42")
	n.apiBase = server.URL
	n.client = server.Client()

	if err := n.Send(context.Background(), testArticle()); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if got := form["chat_id"]; len(got) != 1 || got[0] != "42" {
		t.Fatalf("unexpected chat_id: %v", got)
	}
	text := form["text"][0]
	if !strings.Contains(text, "<b>ijazah</b>") {
		t.Fatalf("keyword not highlighted: %q", text)
	}
	if !strings.Contains(text, "&amp;") {
		t.Fatalf("title not HTML-escaped: %q", text)
	}
	if !strings.Contains(text, "https://example.org/berita/1") {
		t.Fatalf("link missing: %q", text)
	}
	if !strings.Contains(text, "Cuplikan artikel.") {
		t.Fatalf("description missing: %q", text)
	}
}

func TestSendReportsAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"Bad Request"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier("123:token", "42")
	n.apiBase = server.URL
	n.client = server.Client()

	err := n.Send(context.Background(), testArticle())
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestSelfTest(t *testing.T) {
	t.Parallel()

	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"ok":true,"result":{"username":"news_bot"}}`))
	}))
	defer server.Close()

	n := NewNotifier("123:token", "42")
	n.apiBase = server.URL
	n.client = server.Client()

	if err := n.SelfTest(context.Background()); err != nil {
		t.Fatalf("SelfTest error: %v", err)
	}
	if path != "/bot123:token/getMe" {
		t.Fatalf("unexpected path: %s", path)
	}

	n.botToken = ""
	if err := n.SelfTest(context.Background()); err == nil {
		t.Fatal("empty token must fail the self-test")
	}
}

func TestFormatArticleHighlightsAllKeywords(t *testing.T) {
	t.Parallel()

	article := testArticle()
	article.Title = "Prabowo soroti kasus ijazah"
	article.MatchedKeywords = []string{"prabowo", "ijazah"}

	text := FormatArticle(article)
	if !strings.Contains(text, "<b>Prabowo</b>") || !strings.Contains(text, "<b>ijazah</b>") {
		t.Fatalf("keywords not highlighted: %q", text)
	}
	if !strings.Contains(text, "prabowo, ijazah") {
		t.Fatalf("keyword list missing: %q", text)
	}
}
