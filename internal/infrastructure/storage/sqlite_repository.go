package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsMonitor/internal/domain"
	"NewsMonitor/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS processed_articles (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	url              TEXT NOT NULL UNIQUE,
	title            TEXT NOT NULL,
	source           TEXT NOT NULL,
	published_at     TIMESTAMP NOT NULL,
	processed_at     TIMESTAMP NOT NULL,
	matched_keywords TEXT NOT NULL,
	image_url        TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_processed_articles_source ON processed_articles(source);
CREATE INDEX IF NOT EXISTS idx_processed_articles_published_at ON processed_articles(published_at);
`

// SQLiteRepository persists delivered articles into a local SQLite
// database. Reads may run concurrently; writes are serialized through
// a single-writer mutex on top of SQLite's own locking.
type SQLiteRepository struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex // guards db handle swaps and writes
	db *sql.DB
}

var _ ports.ArticleRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository wires the database path; Init opens the handle.
func NewSQLiteRepository(path string, logger *slog.Logger) *SQLiteRepository {
	return &SQLiteRepository{path: path, logger: logger}
}

// Init opens the database, enables WAL mode, and ensures the schema.
func (r *SQLiteRepository) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.openLocked()
}

func (r *SQLiteRepository) openLocked() error {
	db, err := sql.Open("sqlite", r.path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("ensure schema: %w", err)
	}
	r.db = db
	return nil
}

// IsProcessed reports whether the URL already has a stored row.
func (r *SQLiteRepository) IsProcessed(ctx context.Context, url string) (bool, error) {
	db := r.handle()
	if db == nil {
		return false, fmt.Errorf("repository is not initialized")
	}

	query, args, err := sq.Select("1").
		From("processed_articles").
		Where(sq.Eq{"url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query processed: %w", err)
	}
	return true, nil
}

// Save inserts the article if its URL is absent and returns the row id.
// A duplicate URL is a no-op returning the existing id. A failed write
// triggers one automatic re-initialization and a single retry; the
// second failure is returned to the caller.
func (r *SQLiteRepository) Save(ctx context.Context, article domain.MatchedArticle) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.saveLocked(ctx, article)
	if err == nil {
		return id, nil
	}

	r.warn("save failed, re-initializing store", "url", article.URL, "error", err)
	if reinitErr := r.reinitLocked(); reinitErr != nil {
		return 0, fmt.Errorf("save: %w (re-init: %v)", err, reinitErr)
	}

	id, retryErr := r.saveLocked(ctx, article)
	if retryErr != nil {
		return 0, fmt.Errorf("save after re-init: %w", retryErr)
	}
	return id, nil
}

func (r *SQLiteRepository) saveLocked(ctx context.Context, article domain.MatchedArticle) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("repository is not initialized")
	}

	query, args, err := sq.Insert("processed_articles").
		Columns("url", "title", "source", "published_at", "processed_at", "matched_keywords", "image_url", "description").
		Values(
			article.URL,
			article.Title,
			article.Source,
			article.PublishedAt.UTC(),
			article.ProcessedAt.UTC(),
			strings.Join(article.MatchedKeywords, ","),
			article.ImageURL,
			article.Description,
		).
		Suffix("ON CONFLICT(url) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert processed: %w", err)
	}

	// The insert may have been ignored; the id is read back by URL so
	// both the first and repeated saves return the same value.
	idQuery, idArgs, err := sq.Select("id").
		From("processed_articles").
		Where(sq.Eq{"url": article.URL}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build id query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, idQuery, idArgs...).Scan(&id); err != nil {
		return 0, fmt.Errorf("read back id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) reinitLocked() error {
	if r.db != nil {
		_ = r.db.Close()
		r.db = nil
	}
	return r.openLocked()
}

// Recent returns stored rows newest first, optionally filtered by
// source. limit <= 0 defaults to 50.
func (r *SQLiteRepository) Recent(ctx context.Context, source string, limit int) ([]domain.ProcessedArticle, error) {
	db := r.handle()
	if db == nil {
		return nil, fmt.Errorf("repository is not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	builder := sq.Select("id", "url", "title", "source", "published_at", "processed_at", "matched_keywords", "image_url", "description").
		From("processed_articles").
		OrderBy("processed_at DESC").
		Limit(uint64(limit))
	if source != "" {
		builder = builder.Where(sq.Eq{"source": source})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var articles []domain.ProcessedArticle
	for rows.Next() {
		var (
			article  domain.ProcessedArticle
			keywords string
		)
		if err := rows.Scan(
			&article.ID,
			&article.URL,
			&article.Title,
			&article.Source,
			&article.PublishedAt,
			&article.ProcessedAt,
			&keywords,
			&article.ImageURL,
			&article.Description,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if keywords != "" {
			article.MatchedKeywords = strings.Split(keywords, ",")
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

// Cleanup deletes rows processed earlier than the retention window and
// returns the number removed. Like Save, a failed write triggers one
// automatic re-initialization and a single retry.
func (r *SQLiteRepository) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted, err := r.cleanupLocked(ctx, retentionDays)
	if err == nil {
		return deleted, nil
	}

	r.warn("cleanup failed, re-initializing store", "error", err)
	if reinitErr := r.reinitLocked(); reinitErr != nil {
		return 0, fmt.Errorf("cleanup: %w (re-init: %v)", err, reinitErr)
	}

	deleted, retryErr := r.cleanupLocked(ctx, retentionDays)
	if retryErr != nil {
		return 0, fmt.Errorf("cleanup after re-init: %w", retryErr)
	}
	return deleted, nil
}

func (r *SQLiteRepository) cleanupLocked(ctx context.Context, retentionDays int) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("repository is not initialized")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	query, args, err := sq.Delete("processed_articles").
		Where(sq.Lt{"processed_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old rows: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}

// Stats reports the total row count and per-source breakdown.
func (r *SQLiteRepository) Stats(ctx context.Context) (domain.StoreStats, error) {
	db := r.handle()
	if db == nil {
		return domain.StoreStats{}, fmt.Errorf("repository is not initialized")
	}

	stats := domain.StoreStats{BySource: map[string]int64{}}

	query, args, err := sq.Select("source", "COUNT(*)").
		From("processed_articles").
		GroupBy("source").
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("build query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return stats, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			source string
			count  int64
		)
		if err := rows.Scan(&source, &count); err != nil {
			return stats, fmt.Errorf("scan stats: %w", err)
		}
		stats.BySource[source] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("rows iteration: %w", err)
	}

	return stats, nil
}

// Close releases the underlying handle.
func (r *SQLiteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *SQLiteRepository) handle() *sql.DB {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db
}

func (r *SQLiteRepository) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
