package tokens

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// CacheFileName is the token cache database inside the workspace
// state directory.
const CacheFileName = "token-cache.db"

// Cache persists per-file token counts keyed by absolute path and
// estimator. An entry is valid only while the file's size and mtime
// are unchanged, so edits invalidate it naturally.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS token_cache (
	path      TEXT    NOT NULL,
	estimator TEXT    NOT NULL,
	size      INTEGER NOT NULL,
	mtime_ns  INTEGER NOT NULL,
	tokens    INTEGER NOT NULL,
	PRIMARY KEY (path, estimator)
);`

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open token cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init token cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached count for path under the given estimator,
// provided the stored size and mtime still match.
func (c *Cache) Lookup(est Estimator, path string, size, mtimeNS int64) (int, bool, error) {
	var tokens int
	err := c.db.QueryRow(
		`SELECT tokens FROM token_cache
		 WHERE path = ? AND estimator = ? AND size = ? AND mtime_ns = ?`,
		path, string(est), size, mtimeNS,
	).Scan(&tokens)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return tokens, true, nil
}

// Store upserts the count for path, replacing any stale entry for the
// same path and estimator.
func (c *Cache) Store(est Estimator, path string, size, mtimeNS int64, tokens int) error {
	_, err := c.db.Exec(
		`INSERT INTO token_cache (path, estimator, size, mtime_ns, tokens)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (path, estimator) DO UPDATE SET
		   size = excluded.size, mtime_ns = excluded.mtime_ns, tokens = excluded.tokens`,
		path, string(est), size, mtimeNS, tokens,
	)
	return err
}

// Prune drops entries for paths no longer present in the workspace.
func (c *Cache) Prune(keep map[string]struct{}) error {
	rows, err := c.db.Query(`SELECT DISTINCT path FROM token_cache`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return err
		}
		if _, ok := keep[p]; !ok {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range stale {
		if _, err := c.db.Exec(`DELETE FROM token_cache WHERE path = ?`, p); err != nil {
			return err
		}
	}
	return nil
}
