// Package cache stores finished extraction results in SQLite, keyed by a
// hash of the document content and the extraction limits.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
)

// keyVersion changes whenever cached outlines would no longer match what the
// detector produces
const keyVersion = "outline-v1"

const schema = `
CREATE TABLE IF NOT EXISTS outlines (
	key        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	title      TEXT NOT NULL,
	outline    TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Cache is a SQLite-backed result store. It is safe for concurrent use.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the cache database at path, creating its directory.
func Open(path string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("cache: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open: %w", err)
	}
	// One connection serialises writers and keeps :memory: databases whole
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("cache: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: exec schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close closes the database
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key returns the cache key for a document's content, extraction limits and
// detection thresholds
func Key(data []byte, maxItems, maxPages int, heading layout.HeadingConfig) string {
	h := sha256.New()
	h.Write([]byte(keyVersion))
	h.Write([]byte{0})
	h.Write(data)
	h.Write([]byte{0})
	fmt.Fprintf(h, "%d/%d/%g/%g/%d/%d/%d", maxItems, maxPages,
		heading.PrimaryThreshold, heading.ShortDocumentThreshold,
		heading.ShortDocumentLines, heading.FallbackMinHeadings, heading.FallbackLimit)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for key. The second return value is false
// when nothing is cached.
func (c *Cache) Get(ctx context.Context, key string) (model.Result, bool, error) {
	var name, title, outlineJSON, status string
	err := c.db.QueryRowContext(ctx,
		`SELECT name, title, outline, status FROM outlines WHERE key = ?`, key,
	).Scan(&name, &title, &outlineJSON, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Result{}, false, nil
	}
	if err != nil {
		return model.Result{}, false, fmt.Errorf("cache: get: %w", err)
	}

	var outline model.Outline
	if err := json.Unmarshal([]byte(outlineJSON), &outline); err != nil {
		return model.Result{}, false, fmt.Errorf("cache: decode outline: %w", err)
	}
	return model.Success(name, title, outline), true, nil
}

// Put stores a result under key, replacing any previous entry. Degraded
// results are not stored so that a later run can retry the document.
func (c *Cache) Put(ctx context.Context, key string, result model.Result) error {
	if result.Degraded() {
		return nil
	}

	outline := result.Outline
	if outline == nil {
		outline = model.Outline{}
	}
	outlineJSON, err := json.Marshal(outline)
	if err != nil {
		return fmt.Errorf("cache: encode outline: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO outlines (key, name, title, outline, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			title = excluded.title,
			outline = excluded.outline,
			status = excluded.status,
			created_at = excluded.created_at`,
		key, result.Name, result.Title, string(outlineJSON), result.Status.String(), c.now().Unix())
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Len returns the number of cached results
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outlines`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}

// Prune deletes entries created before cutoff and returns how many were
// removed
func (c *Cache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM outlines WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("cache: prune: %w", err)
	}
	return res.RowsAffected()
}

// Expire prunes entries older than maxAge. A maxAge <= 0 keeps everything.
func (c *Cache) Expire(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	return c.Prune(ctx, c.now().Add(-maxAge))
}

// Resolve returns the cached result for key, or calls extract and stores its
// result. The returned error only reports cache failures; the result is
// always usable.
func (c *Cache) Resolve(ctx context.Context, key string, extract func() model.Result) (model.Result, bool, error) {
	cached, ok, getErr := c.Get(ctx, key)
	if ok {
		return cached, true, nil
	}

	result := extract()
	if err := c.Put(ctx, key, result); err != nil {
		return result, false, errors.Join(getErr, err)
	}
	return result, false, getErr
}
