package telegram

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsMonitor/internal/domain"
	"NewsMonitor/internal/matcher"
	"NewsMonitor/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier delivers matched articles to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one formatted article message. A non-2xx response or a
// transport failure is a failed send; the caller decides persistence.
func (n *Notifier) Send(ctx context.Context, article domain.MatchedArticle) error {
	if n.botToken == "" || n.chatID == "" {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", FormatArticle(article))
	form.Set("parse_mode", "HTML")
	form.Set("disable_web_page_preview", "false")

	return n.post(ctx, "sendMessage", form)
}

// SelfTest verifies the credential against getMe; startup aborts when
// it fails.
func (n *Notifier) SelfTest(ctx context.Context) error {
	if n.botToken == "" {
		return fmt.Errorf("telegram bot token is empty")
	}
	if err := n.post(ctx, "getMe", url.Values{}); err != nil {
		return fmt.Errorf("telegram connectivity test: %w", err)
	}
	return nil
}

func (n *Notifier) post(ctx context.Context, method string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", n.apiBase, n.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram %s error %s: %s", method, resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}

// FormatArticle renders the HTML notification body: highlighted title,
// optional excerpt, source, publish time, and the article link.
func FormatArticle(article domain.MatchedArticle) string {
	var b strings.Builder

	title := html.EscapeString(article.Title)
	title = matcher.HighlightKeywordsWith(title, escapedKeywords(article.MatchedKeywords), "<b>", "</b>")

	b.WriteString("🔔 " + title + "\n\n")

	if article.Description != "" {
		b.WriteString(html.EscapeString(article.Description) + "\n\n")
	}

	b.WriteString(fmt.Sprintf("📰 %s | 🕐 %s\n", article.Source, article.PublishedAt.Format("02 Jan 2006 15:04")))
	b.WriteString(fmt.Sprintf("🔑 %s\n", html.EscapeString(strings.Join(article.MatchedKeywords, ", "))))
	b.WriteString(article.URL)

	return b.String()
}

func escapedKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, html.EscapeString(kw))
	}
	return out
}
