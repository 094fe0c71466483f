// Package cache provides the SQLite-backed generation manifest.
// The manifest is stored in .pxdgen/manifest.db and records, per generated
// output file, the header and configuration hashes it was produced from so
// that unchanged inputs can be skipped.
package cache

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFileName is the manifest database file inside the .pxdgen directory.
const DBFileName = "manifest.db"

// Cache manages the .pxdgen/manifest.db SQLite database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the manifest database in the given .pxdgen
// directory. It initializes the schema if the database is new.
func Open(configDir string) (*Cache, error) {
	dbPath := filepath.Join(configDir, DBFileName)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open manifest db: %w", err)
	}

	// WAL lets `status` read while `generate --watch` writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	cache := &Cache{db: db, dbPath: dbPath}

	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return cache, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clear removes every manifest entry.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM outputs"); err != nil {
		return fmt.Errorf("clear manifest: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// DB returns the underlying database connection for advanced operations.
func (c *Cache) DB() *sql.DB {
	return c.db
}

// Stats returns manifest statistics.
type Stats struct {
	Outputs      int64
	Headers      int64
	Declarations int64
}

// GetStats returns statistics about the manifest contents.
func (c *Cache) GetStats() (*Stats, error) {
	var stats Stats
	err := c.db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT header_path), COALESCE(SUM(declarations), 0)
		FROM outputs`).Scan(&stats.Outputs, &stats.Headers, &stats.Declarations)
	if err != nil {
		return nil, fmt.Errorf("count outputs: %w", err)
	}
	return &stats, nil
}
