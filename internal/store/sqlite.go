// Package store persists pipeline artifacts: structured model output in
// sqlite keyed by content hash, and anchor lists / trial signals as JSON
// files under versioned directories.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ResultCache is the sqlite-backed structured-result cache. It
// implements the pipeline's Cache boundary: get/set by content hash.
type ResultCache struct {
	db            *sql.DB
	dbPath        string
	schemaVersion string
	promptVersion string
	log           *zap.Logger
}

// OpenResultCache creates or opens the cache database under dataDir.
// The schema and prompt versions are recorded alongside each entry for
// inspection; the content hash already encodes them.
func OpenResultCache(dataDir, schemaVersion, promptVersion string, log *zap.Logger) (*ResultCache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dbPath := filepath.Join(dataDir, "structuring_cache.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	cache := &ResultCache{
		db:            db,
		dbPath:        dbPath,
		schemaVersion: schemaVersion,
		promptVersion: promptVersion,
		log:           log,
	}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return cache, nil
}

// Close closes the database connection.
func (c *ResultCache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *ResultCache) Path() string {
	return c.dbPath
}

func (c *ResultCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS structured_results (
		input_hash TEXT PRIMARY KEY,
		schema_version TEXT NOT NULL,
		prompt_version TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_structured_results_created
		ON structured_results(created_at);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get implements the cache boundary: the decoded payload for key, or
// (nil, false, nil) on a miss.
func (c *ResultCache) Get(key string) (any, bool, error) {
	var payload string
	err := c.db.QueryRow(
		`SELECT payload FROM structured_results WHERE input_hash = ?`, key,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cached result: %w", err)
	}

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, false, fmt.Errorf("decode cached result %s: %w", key, err)
	}
	c.log.Debug("cache hit", zap.String("key", key))
	return doc, true, nil
}

// Set stores doc under key, overwriting any previous entry.
func (c *ResultCache) Set(key string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT INTO structured_results
			(input_hash, schema_version, prompt_version, payload, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(input_hash) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at`,
		key, c.schemaVersion, c.promptVersion, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}
